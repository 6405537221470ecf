package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	colio "github.com/matzehuels/colgrid/pkg/io"
)

// layoutCommand creates the layout command for computing column layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  gridFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [columns-file]",
		Short: "Compute the column layout for a container width",
		Long: `Compute the column layout for a container width.

The layout command reads a column specification (JSON, YAML or TOML) and
computes leaf widths, sticky offsets of fixed columns and the grouped header
rows. The result is written as JSON (default: <input>.layout.json, "-" for
stdout).

With --grid the saved state of that grid is applied first and the new state is
saved back to the configured store. With --state the state file is used
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

// runLayout loads the columns, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags gridFlags, output string) error {
	s, err := c.openGrid(ctx, input, flags)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer s.close()

	prog := newProgress(c.Logger)
	res, err := c.layout(ctx, s, flags)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d columns", len(res.Leaves)))

	path := outputPath(output, input, ".layout.json")
	w, err := create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer w.Close()
	if err := colio.WriteLayout(res, w); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if path == stdoutPath {
		return s.close()
	}

	printSuccess("Layout complete")
	printFile(path)
	printLayoutStats(res, s.grid.Width())
	printNewline()
	printNextStep("Preview header", "colgrid header "+input)

	return s.close()
}
