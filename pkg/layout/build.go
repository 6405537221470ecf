package layout

import (
	"slices"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/reconcile"
)

// Result is the output of a layout pass.
type Result struct {
	// Tree is the rendered column tree: shown columns only, sorted, leaves
	// carrying final pixel widths.
	Tree []column.State `json:"tree"`

	// Leaves are the rendered leaves in display order.
	Leaves []column.State `json:"leaves"`

	// Widths holds the pixel width of each leaf, parallel to Leaves.
	Widths []float64 `json:"widths"`

	// Sticky holds the offsets of fixed leaves.
	Sticky column.StickyOffsets `json:"sticky"`

	// HeaderRows is the grouped header grid, one slice per header row.
	HeaderRows [][]column.HeaderCell `json:"headerRows"`

	// State is the new middle state, including invisible columns. Pass it
	// back as prior on the next pass.
	State []column.State `json:"state"`

	// Warnings lists degraded-but-valid input found during the pass.
	Warnings []errors.Warning `json:"warnings,omitempty"`
}

// TotalWidth returns the sum of leaf widths.
func (r *Result) TotalWidth() float64 {
	var total float64
	for _, w := range r.Widths {
		total += w
	}
	return column.Round2(total)
}

// LeafIndex returns the display index of key, or -1.
func (r *Result) LeafIndex(key column.Key) int {
	for i, l := range r.Leaves {
		if l.Key == key {
			return i
		}
	}
	return -1
}

// Build runs a complete layout pass for specs at containerWidth. prior is
// the State of an earlier Result, or nil on the first pass.
//
// Build fails on an invalid container width or on duplicate keys. It never
// mutates specs or prior.
func Build(specs []column.Spec, containerWidth float64, prior []column.State, opts ...Option) (*Result, error) {
	if err := errors.ValidateContainerWidth(containerWidth); err != nil {
		return nil, err
	}
	o := NewOptions(opts...)

	merged, warnings := reconcile.Reconcile(specs, prior)
	if err := reconcile.CheckKeys(merged); err != nil {
		return nil, err
	}

	flat := Flatten(merged, containerWidth, o)
	distributed := DistributeWidths(flat, containerWidth)
	tree := Rebuild(distributed)

	leaves := column.Leaves(tree)
	widths := make([]float64, len(leaves))
	for i, l := range leaves {
		widths[i] = l.PixelWidth()
	}

	return &Result{
		Tree:       tree,
		Leaves:     leaves,
		Widths:     widths,
		Sticky:     Sticky(leaves, widths),
		HeaderRows: HeaderRows(tree),
		State:      writeBack(merged, distributed),
		Warnings:   append(warnings, flat.Warnings...),
	}, nil
}

// writeBack copies the settled width fields of every rendered node into a
// copy of the merged tree. Invisible nodes keep what they had, and so do
// percentage widths the pass left untouched, so they keep tracking the
// container. Once any leaf is UpdatedWidth the pass is frozen and
// percentage widths are written as pixels.
func writeBack(merged, distributed []column.State) []column.State {
	byKey := make(map[column.Key]column.State, len(distributed))
	for _, d := range distributed {
		byKey[d.Key] = d
	}
	frozen := slices.ContainsFunc(distributed, func(d column.State) bool { return d.UpdatedWidth })
	out := column.Clone(merged)
	column.Walk(out, func(s *column.State) {
		d, ok := byKey[s.Key]
		if !ok {
			return
		}
		s.HasChildren = d.HasChildren
		s.Distribute = d.Distribute
		s.UpdatedWidth = d.UpdatedWidth
		if d.HasChildren {
			s.Width = nil
			return
		}
		if s.Width != nil && s.Width.Percent && !frozen && !d.Distribute && !d.UpdatedWidth {
			return
		}
		if d.Width != nil {
			w := *d.Width
			s.Width = &w
		}
	})
	return out
}
