package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// spanMark fills grid positions covered by a cell to their left or above.
const spanMark = "·"

// headerCommand creates the header command for previewing grouped headers.
func (c *CLI) headerCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "header [columns-file]",
		Short: "Preview the grouped header in the terminal",
		Long: `Preview the grouped header in the terminal.

Each header row is printed as a table row with one cell per leaf column.
Cells covered by a group or a row span to their left or above are marked
with a dot. The last row shows the computed leaf widths.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHeader(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runHeader(ctx context.Context, input string, flags gridFlags) error {
	s, err := c.openGrid(ctx, input, flags)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer s.close()

	res, err := c.layout(ctx, s, flags)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	fmt.Println(StyleTitle.Render(s.grid.ID()))
	fmt.Println(renderHeader(res))
	printLayoutStats(res, s.grid.Width())
	return s.close()
}

// renderHeader draws the header rows of res as a table.
func renderHeader(res *layout.Result) string {
	rows := headerGrid(res)
	widths := make([]string, len(res.Widths))
	for i, w := range res.Widths {
		widths[i] = formatPx(w)
		if f := res.Leaves[i].Fixed; f != column.FixedNone {
			widths[i] += " (" + string(f) + ")"
		}
	}
	rows = append(rows, widths)
	last := len(rows) - 1

	headerStyle := lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	dimStyle := cellStyle.Foreground(colorDim)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == last:
				return dimStyle
			case row >= 0 && row < len(rows) && col < len(rows[row]) && rows[row][col] == spanMark:
				return dimStyle
			default:
				return headerStyle
			}
		})
	return t.Render()
}

// headerGrid places every header cell at its start position. Positions
// covered by a span hold spanMark; positions no cell reaches stay empty.
func headerGrid(res *layout.Result) [][]string {
	n := len(res.Leaves)
	grid := make([][]string, len(res.HeaderRows))
	for r := range grid {
		grid[r] = make([]string, n)
	}
	for r, cells := range res.HeaderRows {
		for _, cell := range cells {
			if !cell.Visible() || cell.ColStart >= n {
				continue
			}
			for dr := 0; dr < cell.RowSpan && r+dr < len(grid); dr++ {
				for dc := 0; dc < cell.ColSpan && cell.ColStart+dc < n; dc++ {
					grid[r+dr][cell.ColStart+dc] = spanMark
				}
			}
			title := cell.Title
			if title == "" {
				title = string(cell.Key)
			}
			grid[r][cell.ColStart] = title
		}
	}
	return grid
}
