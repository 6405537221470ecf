package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/export"
)

// Export formats.
const (
	formatXLSX = "xlsx"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags    gridFlags
		format   string
		output   string
		rowsPath string
	)

	cmd := &cobra.Command{
		Use:   "export [columns-file]",
		Short: "Export the header to XLSX or the column tree to DOT/SVG",
		Long: `Export the header to XLSX or the column tree to DOT/SVG.

xlsx writes the grouped header with merged cells, column widths and frozen
fixed columns. Body rows can be added from a JSON array of objects with
--rows; values are looked up by dataIndex, or by key when a column has none.

dot and svg draw the column tree including hidden columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], flags, format, output, rowsPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatXLSX, "output format: xlsx, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "JSON file with body rows (xlsx only)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, flags gridFlags, format, output, rowsPath string) error {
	rows, err := readRows(rowsPath)
	if err != nil {
		return err
	}

	s, err := c.openGrid(ctx, input, flags)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer s.close()

	res, err := c.layout(ctx, s, flags)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	path := outputPath(output, input, "."+format)
	w, err := create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer w.Close()

	switch format {
	case formatXLSX:
		spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Writing %d rows...", len(rows)))
		spin.start()
		err = export.WriteXLSX(w, res, rows)
		spin.stop()
	case formatDOT:
		_, err = w.Write([]byte(export.TreeDOT(s.grid.State())))
	case formatSVG:
		spin := newSpinner(ctx, os.Stderr, "Rendering SVG...")
		spin.start()
		var svg []byte
		svg, err = export.RenderSVG(export.TreeDOT(s.grid.State()))
		spin.stop()
		if spin.interrupted() {
			return ctx.Err()
		}
		if err == nil {
			_, err = w.Write(svg)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if path == stdoutPath {
		return s.close()
	}

	printSuccess("Exported %s", format)
	printFile(path)
	return s.close()
}

func readRows(path string) ([]export.Row, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows %s: %w", path, err)
	}
	var rows []export.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode rows %s", path)
	}
	return rows, nil
}
