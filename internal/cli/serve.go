package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/internal/api"
	"github.com/matzehuels/colgrid/pkg/layout"
	"github.com/matzehuels/colgrid/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Grids are laid out with POST /v1/grids/{id}/layout and edited through resize
and reorder sessions. State is saved to the configured store and scoped by the
X-Colgrid-Scope request header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	s, err := store.Open(ctx, c.Config.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	srv := api.New(api.Config{
		Store:          s,
		Logger:         c.Logger,
		SessionTTL:     c.Config.Server.SessionTTL.Duration,
		StateTTL:       c.Config.Store.TTL.Duration,
		ContainerWidth: c.Config.ContainerWidth,
		ResizeMinWidth: c.Config.ResizeMinWidth,
		LayoutOptions:  []layout.Option{layout.WithMinWidths(c.Config.MinWidth.Top, c.Config.MinWidth.Leaf)},
	})
	printInfo("Serving on %s (%s store)", addr, store.Backend(s))
	return srv.ListenAndServe(ctx, addr)
}
