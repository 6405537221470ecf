package layout

import (
	"testing"

	"github.com/matzehuels/colgrid/pkg/column"
)

func groupedSpecs() []column.Spec {
	return []column.Spec{
		{Title: "G", Key: "g", Children: []column.Spec{
			{Title: "X", DataIndex: "x"},
			{Title: "Y", DataIndex: "y"},
		}},
		{Title: "Z", DataIndex: "z"},
	}
}

func TestHeaderRows(t *testing.T) {
	res, err := Build(groupedSpecs(), 400, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rows := res.HeaderRows
	if len(rows) != 2 {
		t.Fatalf("got %d header rows, want 2", len(rows))
	}

	type span struct {
		key              column.Key
		colStart         int
		colSpan, rowSpan int
		sub              bool
	}
	want := [][]span{
		{{"g", 0, 2, 1, true}, {"z", 2, 1, 2, false}},
		{{"x", 0, 1, 1, false}, {"y", 1, 1, 1, false}},
	}
	for r := range want {
		if len(rows[r]) != len(want[r]) {
			t.Fatalf("row %d has %d cells, want %d", r, len(rows[r]), len(want[r]))
		}
		for i, w := range want[r] {
			c := rows[r][i]
			got := span{c.Key, c.ColStart, c.ColSpan, c.RowSpan, c.HasSubColumns}
			if got != w {
				t.Errorf("rows[%d][%d] = %+v, want %+v", r, i, got, w)
			}
			if c.ColEnd != c.ColStart+c.ColSpan-1 {
				t.Errorf("rows[%d][%d] ColEnd = %d, want %d", r, i, c.ColEnd, c.ColStart+c.ColSpan-1)
			}
			if c.Column == nil || c.Column.Key != c.Key {
				t.Errorf("rows[%d][%d] Column does not point at its node", r, i)
			}
		}
	}
}

func TestHeaderRowsExplicitSpans(t *testing.T) {
	two, zero, one := 2, 0, 1
	tree := []column.State{
		{Key: "a", ColSpan: &two},
		{Key: "b", ColSpan: &zero},
		{Key: "g", Children: []column.State{
			{Key: "c", RowSpan: &one},
			{Key: "d"},
		}},
	}
	rows := HeaderRows(tree)

	a, b, g := rows[0][0], rows[0][1], rows[0][2]
	if a.ColSpan != 2 || a.ColEnd != 1 || a.RowSpan != 2 {
		t.Errorf("a = %+v, want colSpan 2, colEnd 1, rowSpan 2", a)
	}
	if b.Visible() {
		t.Errorf("b = %+v, want hidden", b)
	}
	if g.ColStart != 2 || g.ColSpan != 2 {
		t.Errorf("g = %+v, want colStart 2, colSpan 2", g)
	}
	if c := rows[1][0]; c.RowSpan != 1 || c.ColStart != 2 {
		t.Errorf("c = %+v, want explicit rowSpan 1 at colStart 2", c)
	}
}

func TestHeaderRowsEmpty(t *testing.T) {
	if rows := HeaderRows(nil); rows != nil {
		t.Errorf("HeaderRows(nil) = %v, want nil", rows)
	}
}
