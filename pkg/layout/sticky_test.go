package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/colgrid/pkg/column"
)

func leavesOf(fixed ...column.Fixed) []column.State {
	out := make([]column.State, len(fixed))
	for i, f := range fixed {
		out[i] = column.State{Key: column.Key(rune('A' + i)), Fixed: f}
	}
	return out
}

func TestSticky(t *testing.T) {
	leaves := leavesOf(column.FixedStart, column.FixedStart, column.FixedNone, column.FixedEnd)
	got := Sticky(leaves, []float64{100, 80, 150, 90})

	if want := []float64{0, 100, 180, 180}; !slices.Equal(got.Start, want) {
		t.Errorf("Start = %v, want %v", got.Start, want)
	}
	if want := []float64{90, 90, 90, 0}; !slices.Equal(got.End, want) {
		t.Errorf("End = %v, want %v", got.End, want)
	}
	if !got.HasFixColumns {
		t.Error("HasFixColumns = false, want true")
	}
	if got.FixColumnsGapped {
		t.Error("FixColumnsGapped = true, want false")
	}
}

func TestStickyGapped(t *testing.T) {
	tests := []struct {
		name  string
		fixed []column.Fixed
		want  bool
	}{
		{"start after unfixed", []column.Fixed{column.FixedStart, column.FixedNone, column.FixedStart}, true},
		{"end before unfixed", []column.Fixed{column.FixedEnd, column.FixedNone, column.FixedEnd}, true},
		{"start and end edges around unfixed middle", []column.Fixed{column.FixedStart, column.FixedNone, column.FixedNone, column.FixedEnd}, false},
		{"no fixed columns", []column.Fixed{column.FixedNone, column.FixedNone}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves := leavesOf(tt.fixed...)
			widths := make([]float64, len(leaves))
			for i := range widths {
				widths[i] = 50
			}
			if got := Sticky(leaves, widths).FixColumnsGapped; got != tt.want {
				t.Errorf("FixColumnsGapped = %v, want %v", got, tt.want)
			}
		})
	}
}

// A start column, two unfixed columns and an end column are not gapped: each
// pass only looks for an edge-fixed column behind an unfixed one.
func TestStickyEdgesAroundUnfixedMiddle(t *testing.T) {
	leaves := leavesOf(column.FixedStart, column.FixedNone, column.FixedNone, column.FixedEnd)
	got := Sticky(leaves, []float64{100, 80, 150, 90})
	if got.FixColumnsGapped {
		t.Error("FixColumnsGapped = true, want false")
	}
	if !slices.Equal(got.Start, []float64{0, 100, 100, 100}) {
		t.Errorf("Start = %v, want [0 100 100 100]", got.Start)
	}
	if !slices.Equal(got.End, []float64{90, 90, 90, 0}) {
		t.Errorf("End = %v, want [90 90 90 0]", got.End)
	}
}

func TestStickyNoFixed(t *testing.T) {
	got := Sticky(leavesOf(column.FixedNone, column.FixedNone), []float64{10, 20})
	if got.HasFixColumns {
		t.Error("HasFixColumns = true, want false")
	}
	if !slices.Equal(got.Start, []float64{0, 0}) || !slices.Equal(got.End, []float64{0, 0}) {
		t.Errorf("offsets = %v / %v, want zeros", got.Start, got.End)
	}
}

func TestCellFixedInfo(t *testing.T) {
	leaves := leavesOf(column.FixedStart, column.FixedStart, column.FixedNone, column.FixedEnd)
	offsets := Sticky(leaves, []float64{100, 80, 150, 90})

	tests := []struct {
		name            string
		start, end      int
		wantStart       *float64
		wantEnd         *float64
		wantStartShadow bool
		wantEndShadow   bool
	}{
		{"first start-fixed", 0, 0, ptr(0), nil, false, false},
		{"last start-fixed", 1, 1, ptr(100), nil, true, false},
		{"start-fixed group", 0, 1, ptr(0), nil, true, false},
		{"unfixed", 2, 2, nil, nil, false, false},
		{"end-fixed", 3, 3, nil, ptr(0), false, true},
		{"out of range", 2, 7, nil, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellFixedInfo(offsets, tt.start, tt.end, leaves)
			if !equalPtr(got.FixStart, tt.wantStart) {
				t.Errorf("FixStart = %v, want %v", deref(got.FixStart), deref(tt.wantStart))
			}
			if !equalPtr(got.FixEnd, tt.wantEnd) {
				t.Errorf("FixEnd = %v, want %v", deref(got.FixEnd), deref(tt.wantEnd))
			}
			if got.StartShadow != tt.wantStartShadow || got.EndShadow != tt.wantEndShadow {
				t.Errorf("shadows = (%v, %v), want (%v, %v)", got.StartShadow, got.EndShadow, tt.wantStartShadow, tt.wantEndShadow)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func equalPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
