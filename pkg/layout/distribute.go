package layout

import (
	"math"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
)

// Share is the result of [Distribute]: the first slot gets First, every
// other slot gets Avg.
type Share struct {
	First int
	Avg   int
}

// Distribute splits total over n integer slots. The remainder goes to the
// first slot so that First + Avg*(n-1) == total.
func Distribute(total, n int) (Share, error) {
	if total < 0 || n < 1 {
		return Share{}, errors.New(errors.ErrCodeInvalidDistribution, "cannot distribute %d over %d slots", total, n)
	}
	avg := total / n
	return Share{First: avg + total%n, Avg: avg}, nil
}

// spread adds remaining to the widths at idx. The integer part is split with
// Distribute and the fractional part goes to the first slot, so the added
// amount is exactly remaining.
func spread(widths []float64, idx []int, remaining float64) {
	if len(idx) == 0 || remaining <= 0 {
		return
	}
	whole := math.Floor(remaining)
	share, err := Distribute(int(whole), len(idx))
	if err != nil {
		return
	}
	frac := remaining - whole
	for i, j := range idx {
		add := float64(share.Avg)
		if i == 0 {
			add = float64(share.First) + frac
		}
		widths[j] = column.Round2(widths[j] + add)
	}
}

// Fill returns a copy of widths with remaining spread over every slot the
// way [DistributeWidths] spreads it. A non-positive remaining is a no-op.
func Fill(widths []float64, remaining float64) []float64 {
	out := make([]float64, len(widths))
	copy(out, widths)
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	spread(out, idx, remaining)
	return out
}
