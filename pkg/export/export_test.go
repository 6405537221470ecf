package export

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/layout"
)

func groupedLayout(t *testing.T) *layout.Result {
	t.Helper()
	zero := 0
	specs := []column.Spec{
		{Title: "G", Key: "g", Fixed: column.FixedStart, Children: []column.Spec{
			{Title: "X", DataIndex: "x", Width: column.Px(140), Fixed: column.FixedStart},
			{Title: "Y", DataIndex: "y", Width: column.Px(140), Render: func(v, _ any, _ int) string {
				return strings.ToUpper(v.(string))
			}},
		}},
		{Title: "Z", DataIndex: "z", Width: column.Px(120), OnCell: func(_ any, row int) column.CellProps {
			if row == 0 {
				return column.CellProps{ColSpan: &zero}
			}
			return column.CellProps{}
		}},
	}
	res, err := layout.Build(specs, 400, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return res
}

func readCell(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(Sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s) error = %v", cell, err)
	}
	return v
}

func TestHeaderXLSX(t *testing.T) {
	f, err := HeaderXLSX(groupedLayout(t))
	if err != nil {
		t.Fatalf("HeaderXLSX() error = %v", err)
	}
	defer f.Close()

	for cell, want := range map[string]string{"A1": "G", "C1": "Z", "A2": "X", "B2": "Y"} {
		if got := readCell(t, f, cell); got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	merged, err := f.GetMergeCells(Sheet)
	if err != nil {
		t.Fatalf("GetMergeCells() error = %v", err)
	}
	var ranges []string
	for _, m := range merged {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	slices.Sort(ranges)
	if want := []string{"A1:B1", "C1:C2"}; !slices.Equal(ranges, want) {
		t.Errorf("merged ranges = %v, want %v", ranges, want)
	}

	got, err := f.GetColWidth(Sheet, "C")
	if err != nil {
		t.Fatalf("GetColWidth() error = %v", err)
	}
	if want := CharWidth(120); got != want {
		t.Errorf("column C width = %v, want %v", got, want)
	}
}

func TestXLSXBody(t *testing.T) {
	rows := []Row{
		{"x": 1, "y": "a", "z": "hidden"},
		{"x": 2, "y": "b", "z": "shown"},
	}
	f, err := XLSX(groupedLayout(t), rows)
	if err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}
	defer f.Close()

	tests := []struct {
		cell, want string
	}{
		{"A3", "1"},
		{"B3", "A"},
		{"C3", ""},
		{"A4", "2"},
		{"B4", "B"},
		{"C4", "shown"},
	}
	for _, tt := range tests {
		if got := readCell(t, f, tt.cell); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, groupedLayout(t), nil); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output is not a zip archive")
	}
}

func TestXLSXNilResult(t *testing.T) {
	if _, err := XLSX(nil, nil); err == nil {
		t.Error("XLSX(nil) should fail")
	}
}

func TestCharWidth(t *testing.T) {
	tests := []struct {
		px, want float64
	}{
		{70, 10},
		{100, 14.29},
		{0, 0},
	}
	for _, tt := range tests {
		if got := CharWidth(tt.px); got != tt.want {
			t.Errorf("CharWidth(%v) = %v, want %v", tt.px, got, tt.want)
		}
	}
}

func TestTreeDOT(t *testing.T) {
	res := groupedLayout(t)
	state := column.BatchUpdate(res.State, map[column.Key]func(*column.State){
		"z": func(s *column.State) { s.Visible = false },
	})

	dot := TreeDOT(state)
	for _, want := range []string{
		"digraph G {",
		"\"g\" -> \"x\";",
		"\"g\" -> \"y\";",
		"label=\"X\\n140\"",
		"style=\"filled,rounded\"",
		"style=\"filled,dashed\"",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "-> \"z\"") {
		t.Error("root column z should have no incoming edge")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(TreeDOT(groupedLayout(t).Tree))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output is not SVG")
	}
}
