package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// resizeStep is the width change of one +/- key press.
const resizeStep = 10

var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tuiDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive editor command.
func (c *CLI) tuiCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "tui [columns-file]",
		Short: "Edit column widths, order and visibility interactively",
		Long: `Edit column widths, order and visibility interactively.

Every change goes through the same resize and reorder sessions as the other
commands and is saved when the editor exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runTUI(ctx context.Context, input string, flags gridFlags) error {
	s, err := c.openGrid(ctx, input, flags)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer s.close()

	res, err := c.layout(ctx, s, flags)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if _, err := tea.NewProgram(newGridModel(ctx, s.grid, res)).Run(); err != nil {
		return err
	}
	return s.close()
}

// =============================================================================
// GridModel - Interactive column editor
// =============================================================================

// GridModel is the bubbletea model of the column editor.
type GridModel struct {
	ctx    context.Context
	grid   *grid.Grid
	res    *layout.Result
	Cursor int
	Status string
}

func newGridModel(ctx context.Context, g *grid.Grid, res *layout.Result) GridModel {
	return GridModel{ctx: ctx, grid: g, res: res}
}

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "right", "l":
		if m.Cursor < len(m.res.Leaves)-1 {
			m.Cursor++
		}
	case "+", "=":
		m = m.resize(resizeStep)
	case "-":
		m = m.resize(-resizeStep)
	case "<", ",":
		m = m.move(-1)
	case ">", ".":
		m = m.move(1)
	case " ", "x":
		m = m.hide()
	case "s":
		m = m.showAll()
	case "f":
		m = m.apply("Filled the container", func() (*layout.Result, error) {
			return m.grid.AutoFill(m.ctx)
		})
	case "r":
		m = m.apply("Reset to defaults", func() (*layout.Result, error) {
			width := m.grid.Width()
			if err := m.grid.Reset(m.ctx); err != nil {
				return nil, err
			}
			return m.grid.Layout(m.ctx, width)
		})
	}
	return m, nil
}

// selected returns the leaf under the cursor.
func (m GridModel) selected() (column.State, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.res.Leaves) {
		return column.State{}, false
	}
	return m.res.Leaves[m.Cursor], true
}

// apply runs an edit and takes over its result, or keeps the old one and
// reports the error.
func (m GridModel) apply(status string, edit func() (*layout.Result, error)) GridModel {
	res, err := edit()
	if err != nil {
		m.Status = iconError + " " + err.Error()
		return m
	}
	m.res = res
	m.Status = status
	if m.Cursor >= len(res.Leaves) {
		m.Cursor = max(len(res.Leaves)-1, 0)
	}
	return m
}

func (m GridModel) resize(delta float64) GridModel {
	leaf, ok := m.selected()
	if !ok {
		return m
	}
	return m.apply(fmt.Sprintf("Resized %s by %+.0f", leaf.Key, delta), func() (*layout.Result, error) {
		sess, err := m.grid.BeginResize(m.ctx, []column.Key{leaf.Key})
		if err != nil {
			return nil, err
		}
		sess.Apply(delta)
		return sess.Commit(m.ctx)
	})
}

func (m GridModel) move(step int) GridModel {
	leaf, ok := m.selected()
	target := m.Cursor + step
	if !ok || target < 0 || target >= len(m.res.Leaves) {
		return m
	}
	over := m.res.Leaves[target]
	if over.ParentKey != leaf.ParentKey {
		m.Status = iconWarning + " columns under different groups cannot be swapped"
		return m
	}
	m = m.apply(fmt.Sprintf("Moved %s", leaf.Key), func() (*layout.Result, error) {
		sess, err := m.grid.BeginReorder(m.ctx, leaf.Key)
		if err != nil {
			return nil, err
		}
		return sess.Commit(m.ctx, over.Key)
	})
	if i := m.res.LeafIndex(leaf.Key); i >= 0 {
		m.Cursor = i
	}
	return m
}

func (m GridModel) hide() GridModel {
	leaf, ok := m.selected()
	if !ok {
		return m
	}
	if len(m.res.Leaves) == 1 {
		m.Status = iconWarning + " the last column cannot be hidden"
		return m
	}
	return m.apply(fmt.Sprintf("Hid %s", leaf.Key), func() (*layout.Result, error) {
		return m.grid.SetVisible(m.ctx, leaf.Key, false)
	})
}

func (m GridModel) showAll() GridModel {
	hidden := hiddenKeys(m.grid.State())
	if len(hidden) == 0 {
		m.Status = "No hidden columns"
		return m
	}
	return m.apply(fmt.Sprintf("Showed %d columns", len(hidden)), func() (*layout.Result, error) {
		var res *layout.Result
		for _, k := range hidden {
			var err error
			if res, err = m.grid.SetVisible(m.ctx, k, true); err != nil {
				return nil, err
			}
		}
		return res, nil
	})
}

// hiddenKeys lists the columns switched off by the user.
func hiddenKeys(state []column.State) []column.Key {
	var keys []column.Key
	column.Walk(state, func(s *column.State) {
		if !s.Visible && !s.Hidden {
			keys = append(keys, s.Key)
		}
	})
	return keys
}

func (m GridModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Columns of " + m.grid.ID()))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("←/→ select  +/- resize  </> move  space hide  s show all  f fill  r reset  q quit"))
	b.WriteString("\n\n")

	headers := make([]string, len(m.res.Leaves))
	widths := make([]string, len(m.res.Leaves))
	for i, l := range m.res.Leaves {
		headers[i] = l.Title
		if headers[i] == "" {
			headers[i] = string(l.Key)
		}
		widths[i] = formatPx(m.res.Widths[i])
		if l.Fixed != column.FixedNone {
			widths[i] += " " + string(l.Fixed)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Row(widths...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == m.Cursor {
				return tuiSelectedStyle
			}
			if row == -1 {
				return tuiHeaderStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  %s / %s px", formatPx(m.res.TotalWidth()), formatPx(m.grid.Width()))))
	if m.Status != "" {
		b.WriteString("\n  ")
		b.WriteString(m.Status)
	}
	b.WriteString("\n")

	return b.String()
}
