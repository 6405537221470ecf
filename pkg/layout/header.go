package layout

import "github.com/matzehuels/colgrid/pkg/column"

// HeaderRows builds the grouped header grid from a nested tree.
//
// A group spans the sum of its children's spans unless ColSpan overrides it;
// an override of 0 marks a position merged into a sibling. Cells without an
// explicit RowSpan stretch to the last header row when they are leaves, and
// span a single row when they are groups.
func HeaderRows(tree []column.State) [][]column.HeaderCell {
	if len(tree) == 0 {
		return nil
	}
	var rows [][]column.HeaderCell
	explicitRow := map[[2]int]bool{}

	var fill func(cols []column.State, colIndex, rowIndex int) int
	fill = func(cols []column.State, colIndex, rowIndex int) int {
		if len(rows) <= rowIndex {
			rows = append(rows, nil)
		}
		total := 0
		current := colIndex
		for i := range cols {
			c := &cols[i]
			cell := column.HeaderCell{
				Key:      c.Key,
				Title:    c.Title,
				Column:   c,
				ColStart: current,
			}

			span := 1
			if len(c.Children) > 0 {
				span = fill(c.Children, current, rowIndex+1)
				cell.HasSubColumns = true
			}
			if c.ColSpan != nil {
				span = *c.ColSpan
			}
			if c.RowSpan != nil {
				cell.RowSpan = *c.RowSpan
				explicitRow[[2]int{rowIndex, len(rows[rowIndex])}] = true
			}

			cell.ColSpan = span
			cell.ColEnd = cell.ColStart + span - 1
			rows[rowIndex] = append(rows[rowIndex], cell)

			current += span
			total += span
		}
		return total
	}
	fill(tree, 0, 0)

	rowCount := len(rows)
	for r := range rows {
		for i := range rows[r] {
			cell := &rows[r][i]
			if explicitRow[[2]int{r, i}] {
				continue
			}
			if cell.HasSubColumns {
				cell.RowSpan = 1
			} else {
				cell.RowSpan = rowCount - r
			}
		}
	}
	return rows
}
