package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// Sheet is the name of the worksheet written by [XLSX].
const Sheet = "Grid"

// pxPerChar converts pixel widths to spreadsheet character units.
const pxPerChar = 7.0

// Row is one body record, keyed by dataIndex or column key.
type Row map[string]any

// HeaderXLSX writes only the header matrix of res.
func HeaderXLSX(res *layout.Result) (*excelize.File, error) {
	return XLSX(res, nil)
}

// XLSX writes the header matrix of res followed by rows. The caller owns the
// returned file and must close it.
func XLSX(res *layout.Result, rows []Row) (*excelize.File, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to export")
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeHeader(f, res.HeaderRows); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeBody(f, res.Leaves, len(res.HeaderRows), rows); err != nil {
		f.Close()
		return nil, err
	}
	if err := sizeColumns(f, res.Widths); err != nil {
		f.Close()
		return nil, err
	}
	if err := freeze(f, res.Leaves, len(res.HeaderRows)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteXLSX writes the spreadsheet for res and rows to w.
func WriteXLSX(w io.Writer, res *layout.Result, rows []Row) error {
	f, err := XLSX(res, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, headerRows [][]column.HeaderCell) error {
	if len(headerRows) == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for r, cells := range headerRows {
		for _, c := range cells {
			if !c.Visible() {
				continue
			}
			start, err := excelize.CoordinatesToCellName(c.ColStart+1, r+1)
			if err != nil {
				return fmt.Errorf("header cell %s: %w", c.Key, err)
			}
			if err := f.SetCellValue(Sheet, start, headerTitle(c)); err != nil {
				return err
			}
			end := start
			if c.ColSpan > 1 || c.RowSpan > 1 {
				end, err = excelize.CoordinatesToCellName(c.ColStart+max(c.ColSpan, 1), r+max(c.RowSpan, 1))
				if err != nil {
					return fmt.Errorf("header cell %s: %w", c.Key, err)
				}
				if err := f.MergeCell(Sheet, start, end); err != nil {
					return fmt.Errorf("merge %s: %w", c.Key, err)
				}
			}
			if err := f.SetCellStyle(Sheet, start, end, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func headerTitle(c column.HeaderCell) string {
	if c.Title != "" {
		return c.Title
	}
	return string(c.Key)
}

func writeBody(f *excelize.File, leaves []column.State, offset int, rows []Row) error {
	for i, rec := range rows {
		excelRow := offset + i + 1
		for j := range leaves {
			leaf := &leaves[j]
			props := column.CellProps{}
			if leaf.OnCell != nil {
				props = leaf.OnCell(rec, i)
			}
			if !props.Visible() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, excelRow)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(Sheet, cell, cellValue(leaf, rec, i)); err != nil {
				return err
			}
			colSpan, rowSpan := spanOf(props.ColSpan), spanOf(props.RowSpan)
			if colSpan == 1 && rowSpan == 1 {
				continue
			}
			end, err := excelize.CoordinatesToCellName(j+colSpan, excelRow+rowSpan-1)
			if err != nil {
				return err
			}
			if err := f.MergeCell(Sheet, cell, end); err != nil {
				return fmt.Errorf("merge body cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func cellValue(leaf *column.State, rec Row, rowIndex int) any {
	field := leaf.DataIndex
	if field == "" {
		field = string(leaf.Key)
	}
	v := rec[field]
	if leaf.Render != nil {
		return leaf.Render(v, rec, rowIndex)
	}
	return v
}

func spanOf(span *int) int {
	if span == nil || *span < 1 {
		return 1
	}
	return *span
}

func sizeColumns(f *excelize.File, widths []float64) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(Sheet, name, name, CharWidth(w)); err != nil {
			return fmt.Errorf("column width %s: %w", name, err)
		}
	}
	return nil
}

// CharWidth converts a pixel width to spreadsheet character units.
func CharWidth(px float64) float64 {
	return math.Round(px/pxPerChar*100) / 100
}

// freeze pins the header rows and the leading run of start-fixed leaves.
func freeze(f *excelize.File, leaves []column.State, headerRows int) error {
	fixed := 0
	for _, l := range leaves {
		if l.Fixed != column.FixedStart {
			break
		}
		fixed++
	}
	if fixed == 0 && headerRows == 0 {
		return nil
	}
	topLeft, err := excelize.CoordinatesToCellName(fixed+1, headerRows+1)
	if err != nil {
		return err
	}
	return f.SetPanes(Sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      fixed,
		YSplit:      headerRows,
		TopLeftCell: topLeft,
		ActivePane:  activePane(fixed, headerRows),
	})
}

func activePane(cols, rows int) string {
	switch {
	case cols > 0 && rows > 0:
		return "bottomRight"
	case cols > 0:
		return "topRight"
	default:
		return "bottomLeft"
	}
}
