package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/config"
	"github.com/matzehuels/colgrid/pkg/errors"
	colio "github.com/matzehuels/colgrid/pkg/io"
	"github.com/matzehuels/colgrid/pkg/store"
)

// stateCommand creates the saved state management command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage saved column state",
	}

	cmd.AddCommand(c.stateGetCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.statePathCommand())

	return cmd
}

// stateGetCommand creates the "state get" subcommand.
func (c *CLI) stateGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [grid]",
		Short: "Print the saved state of a grid as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := store.Open(ctx, c.Config.Store)
			if err != nil {
				return err
			}
			defer s.Close()

			key := store.Key(args[0], c.Config.Store.Scope)
			snap, err := store.Load(ctx, s, key)
			if err != nil {
				return err
			}
			if snap == nil {
				return errors.New(errors.ErrCodeNotFound, "no saved state for grid %q", args[0])
			}
			c.Logger.Debug("loaded state", "key", key, "updated", snap.UpdatedAt)
			return colio.WriteState(snap.State, os.Stdout)
		},
	}
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [grid]",
		Short: "Delete the saved state of a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := store.Open(ctx, c.Config.Store)
			if err != nil {
				return err
			}
			defer s.Close()

			key := store.Key(args[0], c.Config.Store.Scope)
			if err := store.Remove(ctx, s, key); err != nil {
				return err
			}
			printSuccess("Cleared state of %s", args[0])
			printDetail("Key: %s (%s)", key, store.Backend(s))
			return nil
		},
	}
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the state directory of the file store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if b := c.Config.Store.Backend; b != config.BackendFile && b != "" {
				return errors.New(errors.ErrCodeUnsupported, "the %s store has no directory", b)
			}
			dir := c.Config.Store.Dir
			if dir == "" {
				dir = store.DefaultDir()
			}
			fmt.Println(dir)
			return nil
		},
	}
}
