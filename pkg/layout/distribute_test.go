package layout

import (
	"testing"

	"github.com/matzehuels/colgrid/pkg/errors"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		total, n  int
		wantFirst int
		wantAvg   int
	}{
		{0, 1, 0, 0},
		{10, 1, 10, 0},
		{10, 3, 4, 3},
		{700, 3, 234, 233},
		{2, 5, 2, 0},
		{100, 4, 25, 25},
	}

	for _, tt := range tests {
		got, err := Distribute(tt.total, tt.n)
		if err != nil {
			t.Errorf("Distribute(%d, %d) error = %v", tt.total, tt.n, err)
			continue
		}
		if got.First != tt.wantFirst || got.Avg != tt.wantAvg {
			t.Errorf("Distribute(%d, %d) = %+v, want {%d %d}", tt.total, tt.n, got, tt.wantFirst, tt.wantAvg)
		}
		if sum := got.First + got.Avg*(tt.n-1); sum != tt.total {
			t.Errorf("Distribute(%d, %d) sums to %d", tt.total, tt.n, sum)
		}
	}
}

func TestDistributeInvalid(t *testing.T) {
	for _, in := range [][2]int{{-1, 3}, {10, 0}, {10, -2}} {
		_, err := Distribute(in[0], in[1])
		if !errors.Is(err, errors.ErrCodeInvalidDistribution) {
			t.Errorf("Distribute(%d, %d) error = %v, want %s", in[0], in[1], err, errors.ErrCodeInvalidDistribution)
		}
	}
}

func TestSpreadFraction(t *testing.T) {
	widths := []float64{10, 10, 10}
	spread(widths, []int{0, 2}, 5.5)
	if widths[0] != 13.5 || widths[1] != 10 || widths[2] != 12 {
		t.Errorf("spread() = %v, want [13.5 10 12]", widths)
	}
}

func TestFill(t *testing.T) {
	in := []float64{100, 100, 100}
	got := Fill(in, 100.5)
	if got[0] != 134.5 || got[1] != 133 || got[2] != 133 {
		t.Errorf("Fill() = %v, want [134.5 133 133]", got)
	}
	if in[0] != 100 {
		t.Error("Fill() modified its input")
	}
	if got := Fill(in, -5); got[0] != 100 {
		t.Errorf("Fill() with negative remaining = %v", got)
	}
}
