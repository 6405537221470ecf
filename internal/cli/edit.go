package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/gesture"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// editFunc applies one user edit to a laid-out grid.
type editFunc func(ctx context.Context, g *grid.Grid) (*layout.Result, error)

// runEdit lays out the grid, applies edit and keeps the new state in the
// store or the state file.
func (c *CLI) runEdit(ctx context.Context, input string, flags gridFlags, verb string, edit editFunc) error {
	if flags.gridID == "" && flags.statePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s needs --grid or --state to keep the result", verb)
	}
	s, err := c.openGrid(ctx, input, flags)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer s.close()

	if _, err := c.layout(ctx, s, flags); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	res, err := edit(ctx, s.grid)
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if err := s.close(); err != nil {
		return err
	}

	printSuccess("%s applied", verb)
	if flags.statePath != "" {
		printFile(flags.statePath)
	} else {
		printDetail("Saved to %s", s.grid.StoreKey())
	}
	printWidths(res)
	printLayoutStats(res, s.grid.Width())
	return nil
}

// =============================================================================
// reconcile
// =============================================================================

// reconcileCommand creates the reconcile command.
func (c *CLI) reconcileCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "reconcile [columns-file]",
		Short: "Fold a changed column specification into saved state",
		Long: `Fold a changed column specification into saved state.

Columns that were added to the specification appear with their defaults,
columns that were removed are dropped from the state, and widths, order and
visibility of the remaining columns are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, "Reconcile",
				func(_ context.Context, g *grid.Grid) (*layout.Result, error) {
					return g.Result(), nil
				})
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// resize
// =============================================================================

// resizeCommand creates the resize command.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		flags     gridFlags
		keys      []string
		neighbors []string
		delta     float64
		minWidth  float64
	)

	cmd := &cobra.Command{
		Use:   "resize [columns-file]",
		Short: "Resize columns by a pixel delta",
		Long: `Resize columns by a pixel delta.

The delta is split evenly over the resized leaves; a group resizes every leaf
below it. Shrinking stops at the minimum width. With --neighbor the neighbor
columns absorb the opposite change so the total width stays the same.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, "Resize",
				func(ctx context.Context, g *grid.Grid) (*layout.Result, error) {
					var opts []gesture.ResizeOption
					if len(neighbors) > 0 {
						opts = append(opts, gesture.WithNeighbors(toKeys(neighbors)...))
					}
					if minWidth > 0 {
						opts = append(opts, gesture.WithMinWidth(minWidth))
					}
					sess, err := g.BeginResize(ctx, toKeys(keys), opts...)
					if err != nil {
						return nil, err
					}
					sess.Apply(delta)
					return sess.Commit(ctx)
				})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&keys, "key", "k", nil, "column keys to resize")
	cmd.Flags().StringSliceVar(&neighbors, "neighbor", nil, "column keys sharing the dragged boundary")
	cmd.Flags().Float64VarP(&delta, "delta", "d", 0, "width change in pixels")
	cmd.Flags().Float64Var(&minWidth, "min-width", 0, "minimum leaf width (default from config)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// =============================================================================
// reorder
// =============================================================================

// reorderCommand creates the reorder command.
func (c *CLI) reorderCommand() *cobra.Command {
	var (
		flags gridFlags
		drag  string
		over  string
	)

	cmd := &cobra.Command{
		Use:   "reorder [columns-file]",
		Short: "Move a column onto a sibling",
		Long: `Move a column onto a sibling.

The dragged column and the target swap places; the columns between them shift.
Columns under different parents are never reordered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, "Reorder",
				func(ctx context.Context, g *grid.Grid) (*layout.Result, error) {
					sess, err := g.BeginReorder(ctx, column.Key(drag))
					if err != nil {
						return nil, err
					}
					if len(sess.Preview(column.Key(over))) == 0 {
						printWarning("Dropping %s on %s changes nothing", drag, over)
					}
					return sess.Commit(ctx, column.Key(over))
				})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&drag, "drag", "", "key of the dragged column")
	cmd.Flags().StringVar(&over, "over", "", "key of the drop target")
	_ = cmd.MarkFlagRequired("drag")
	_ = cmd.MarkFlagRequired("over")

	return cmd
}

// =============================================================================
// visible
// =============================================================================

// visibleCommand creates the visible command.
func (c *CLI) visibleCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "visible [columns-file] [key] [on|off]",
		Short: "Show or hide a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, err := parseSwitch(args[2])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), args[0], flags, "Visibility",
				func(ctx context.Context, g *grid.Grid) (*layout.Result, error) {
					return g.SetVisible(ctx, column.Key(args[1]), visible)
				})
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// autofill
// =============================================================================

// autofillCommand creates the autofill command.
func (c *CLI) autofillCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "autofill [columns-file]",
		Short: "Stretch the columns to fill the container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags, "Auto-fill",
				func(ctx context.Context, g *grid.Grid) (*layout.Result, error) {
					return g.AutoFill(ctx)
				})
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func toKeys(ss []string) []column.Key {
	keys := make([]column.Key, len(ss))
	for i, s := range ss {
		keys[i] = column.Key(s)
	}
	return keys
}

// parseSwitch parses on/off in addition to the strconv boolean forms.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "show":
		return true, nil
	case "off", "hide":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "expected on or off, got %q", s)
	}
	return v, nil
}
