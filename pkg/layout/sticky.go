package layout

import "github.com/matzehuels/colgrid/pkg/column"

// Sticky computes offsets for fixed leaves. The forward pass sums widths of
// earlier start-fixed leaves, the backward pass widths of later end-fixed
// leaves.
//
// A fixed group is gapped when a leaf fixed to a pass's edge directly follows,
// in that pass, a leaf that is not fixed.
func Sticky(leaves []column.State, widths []float64) column.StickyOffsets {
	n := len(leaves)
	start := make([]float64, n)
	end := make([]float64, n)
	var startTotal, endTotal float64
	gapped := false

	for i := 0; i < n; i++ {
		start[i] = startTotal
		if leaves[i].Fixed == column.FixedStart {
			startTotal += widthAt(widths, i)
			if i > 0 && leaves[i-1].Fixed == column.FixedNone {
				gapped = true
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		end[i] = endTotal
		if leaves[i].Fixed == column.FixedEnd {
			endTotal += widthAt(widths, i)
			if i < n-1 && leaves[i+1].Fixed == column.FixedNone {
				gapped = true
			}
		}
	}

	return column.StickyOffsets{
		Start:            start,
		End:              end,
		Widths:           widths,
		HasFixColumns:    startTotal > 0 || endTotal > 0,
		FixColumnsGapped: gapped,
	}
}

func widthAt(widths []float64, i int) float64 {
	if i < len(widths) {
		return widths[i]
	}
	return 0
}

// FixedInfo positions a cell spanning leaves colStart..colEnd.
type FixedInfo struct {
	// FixStart is the start offset when the cell is start-fixed.
	FixStart *float64 `json:"fixStart,omitempty"`
	// FixEnd is the end offset when the cell is end-fixed.
	FixEnd *float64 `json:"fixEnd,omitempty"`
	// StartShadow marks the last cell of the start-fixed group.
	StartShadow bool `json:"startShadow,omitempty"`
	// EndShadow marks the first cell of the end-fixed group.
	EndShadow bool `json:"endShadow,omitempty"`
}

// CellFixedInfo resolves the fixed position of a header, body or summary
// cell covering leaves colStart..colEnd.
func CellFixedInfo(offsets column.StickyOffsets, colStart, colEnd int, leaves []column.State) FixedInfo {
	var info FixedInfo
	n := len(leaves)
	if colStart < 0 || colEnd >= n || colStart > colEnd {
		return info
	}

	if leaves[colStart].Fixed == column.FixedStart && colStart < len(offsets.Start) {
		v := offsets.Start[colStart]
		info.FixStart = &v
		info.StartShadow = colEnd+1 >= n || leaves[colEnd+1].Fixed != column.FixedStart
	}
	if leaves[colEnd].Fixed == column.FixedEnd && colEnd < len(offsets.End) {
		v := offsets.End[colEnd]
		info.FixEnd = &v
		info.EndShadow = colStart == 0 || leaves[colStart-1].Fixed != column.FixedEnd
	}
	return info
}
