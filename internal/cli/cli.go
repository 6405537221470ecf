// Package cli implements the colgrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/buildinfo"
	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/config"
	"github.com/matzehuels/colgrid/pkg/grid"
	colio "github.com/matzehuels/colgrid/pkg/io"
	"github.com/matzehuels/colgrid/pkg/layout"
	"github.com/matzehuels/colgrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "colgrid"

	// stdoutPath selects standard output instead of a file.
	stdoutPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "colgrid",
		Short: "Colgrid lays out data-grid columns and keeps user customizations",
		Long: `Colgrid computes the column layout of a data grid (leaf widths, sticky
offsets, grouped header rows) from a column specification and a container
width, and folds resizes, reorders and visibility changes back into a saved
column state that survives changes to the specification.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.reconcileCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.reorderCommand())
	root.AddCommand(c.visibleCommand())
	root.AddCommand(c.autofillCommand())
	root.AddCommand(c.headerCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and registers the logging hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	registerLogHooks(c.Logger)
	c.Logger.Debug("loaded config", "backend", cfg.Store.Backend, "width", cfg.ContainerWidth)
	return nil
}

// =============================================================================
// Grid Factory
// =============================================================================

// gridFlags are the flags shared by commands that lay out a grid.
type gridFlags struct {
	width     float64
	gridID    string
	statePath string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.width, "width", "w", 0, "container width in pixels (default from config)")
	cmd.Flags().StringVarP(&f.gridID, "grid", "g", "", "grid id; state is loaded from and saved to the configured store")
	cmd.Flags().StringVarP(&f.statePath, "state", "s", "", "state file to start from and write back")
}

// session is an opened grid plus the resources behind it.
type session struct {
	grid      *grid.Grid
	store     store.Store
	statePath string
	closed    bool
}

// openGrid creates a grid for the columns in specsPath and restores its
// saved state from the store or the state file.
func (c *CLI) openGrid(ctx context.Context, specsPath string, f gridFlags) (*session, error) {
	specs, err := colio.ImportSpecs(specsPath)
	if err != nil {
		return nil, err
	}

	s := &session{statePath: f.statePath}
	id := f.gridID
	if id == "" {
		id = gridIDFromPath(specsPath)
		s.store = store.NewNullStore()
	} else {
		if s.store, err = store.Open(ctx, c.Config.Store); err != nil {
			return nil, err
		}
	}

	opts := []grid.Option{
		grid.WithStore(s.store),
		grid.WithScope(c.Config.Store.Scope),
		grid.WithTTL(c.Config.Store.TTL.Duration),
		grid.WithLogger(c.Logger),
		grid.WithLayoutOptions(layout.WithMinWidths(c.Config.MinWidth.Top, c.Config.MinWidth.Leaf)),
		grid.WithResizeMinWidth(c.Config.ResizeMinWidth),
	}
	if f.statePath != "" {
		state, err := readStateIfExists(f.statePath)
		if err != nil {
			s.store.Close()
			return nil, err
		}
		opts = append(opts, grid.WithState(state))
	}

	g, err := grid.New(id, specs, opts...)
	if err != nil {
		s.store.Close()
		return nil, err
	}
	if f.gridID != "" {
		found, err := g.Load(ctx)
		if err != nil {
			s.store.Close()
			return nil, err
		}
		c.Logger.Debug("opened grid", "grid", id, "saved", found, "backend", store.Backend(s.store))
	}
	s.grid = g
	return s, nil
}

// layout runs the first layout pass at the flag or config width.
func (c *CLI) layout(ctx context.Context, s *session, f gridFlags) (*layout.Result, error) {
	width := f.width
	if width == 0 {
		width = c.Config.ContainerWidth
	}
	return s.grid.Layout(ctx, width)
}

// close writes the state file, if any, and releases the store. Only the
// first call has an effect.
func (s *session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.store.Close()
	if s.statePath == "" {
		return nil
	}
	if err := colio.ExportState(s.grid.State(), s.statePath); err != nil {
		return fmt.Errorf("write state %s: %w", s.statePath, err)
	}
	return nil
}

func readStateIfExists(path string) ([]column.State, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return colio.ImportState(path)
}

// gridIDFromPath derives a grid id from a column file name.
func gridIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	id := strings.TrimLeft(b.String(), "-_")
	if id == "" {
		return appName
	}
	return id
}

// =============================================================================
// Output Helpers
// =============================================================================

// outputPath returns output, or input with its extension replaced by suffix.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// create opens path for writing; "-" is standard output.
func create(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
