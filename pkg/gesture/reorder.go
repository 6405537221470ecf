package gesture

import (
	"slices"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// Reorder is an open drag-to-reorder session.
type Reorder struct {
	tree    []column.State
	state   []column.State
	dragged column.State
	closed  bool
}

// BeginReorder opens a reorder session for the rendered column draggedKey.
func BeginReorder(res *layout.Result, draggedKey column.Key) (*Reorder, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reorder needs a layout result")
	}
	node := column.Find(res.Tree, draggedKey)
	if node == nil {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "column %q is not rendered", draggedKey)
	}
	return &Reorder{
		tree:    res.Tree,
		state:   column.Clone(res.State),
		dragged: *node,
	}, nil
}

// Dragged returns the key of the dragged column.
func (r *Reorder) Dragged() column.Key {
	return r.dragged.Key
}

// Preview returns the keys of every column that moves to the dragged
// column's place when it is dropped on overKey: the over unit and all
// columns nested below it. It returns nil when the drop would be a no-op.
func (r *Reorder) Preview(overKey column.Key) []column.Key {
	if r.closed {
		return nil
	}
	over := column.Find(r.tree, overKey)
	if over == nil || !r.accepts(over) {
		return nil
	}
	siblings := column.Siblings(r.tree, over.ParentKey)
	start, size := unit(siblings, overKey)
	if start < 0 {
		return nil
	}
	return column.Keys(siblings[start : start+size])
}

func (r *Reorder) accepts(over *column.State) bool {
	return over.Key != r.dragged.Key && over.ParentKey == r.dragged.ParentKey
}

// Commit swaps the dragged unit with the unit under overKey and returns the
// new state. Siblings between the two shift by the size difference; siblings
// outside the affected run keep their order values. Drops on a different
// parent, on the dragged column itself or on an overlapping unit are no-ops.
//
// An unknown overKey fails with KEY_NOT_FOUND and leaves the session open.
func (r *Reorder) Commit(overKey column.Key) ([]column.State, error) {
	if r.closed {
		return nil, errors.New(errors.ErrCodeSessionClosed, "reorder session already closed")
	}
	over := column.Find(r.tree, overKey)
	if over == nil {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "column %q is not rendered", overKey)
	}
	r.closed = true
	if !r.accepts(over) {
		return column.Clone(r.state), nil
	}

	rendered := column.Siblings(r.tree, r.dragged.ParentKey)
	dStart, dSize := unit(rendered, r.dragged.Key)
	oStart, oSize := unit(rendered, overKey)
	if dStart < 0 || oStart < 0 || dStart < oStart+oSize && oStart < dStart+dSize {
		return column.Clone(r.state), nil
	}

	full := slices.Clone(column.Siblings(r.state, r.dragged.ParentKey))
	slices.SortStableFunc(full, func(a, b column.State) int { return a.Order - b.Order })
	pos := make(map[column.Key]int, len(full))
	for i, s := range full {
		pos[s.Key] = i
	}

	dFirst, dLast := bounds(pos, rendered[dStart:dStart+dSize])
	oFirst, oLast := bounds(pos, rendered[oStart:oStart+oSize])
	if dFirst < 0 || oFirst < 0 {
		return column.Clone(r.state), nil
	}
	first, firstEnd, second, secondEnd := dFirst, dLast, oFirst, oLast
	if oFirst < dFirst {
		first, firstEnd, second, secondEnd = oFirst, oLast, dFirst, dLast
	}
	if firstEnd >= second {
		return column.Clone(r.state), nil
	}

	span := full[first : secondEnd+1]
	seq := slices.Concat(full[second:secondEnd+1], full[firstEnd+1:second], full[first:firstEnd+1])

	orders := make(map[column.Key]int, len(seq))
	for i, s := range seq {
		orders[s.Key] = span[i].Order
	}
	updates := make(map[column.Key]func(*column.State), len(orders))
	for key, order := range orders {
		updates[key] = func(s *column.State) { s.Order = order }
	}
	return column.Sort(column.BatchUpdate(r.state, updates)), nil
}

// Cancel closes the session without committing.
func (r *Reorder) Cancel() error {
	if r.closed {
		return errors.New(errors.ErrCodeSessionClosed, "reorder session already closed")
	}
	r.closed = true
	return nil
}

// unit locates key among rendered siblings and returns the run it moves as:
// the node itself plus the siblings a leaf colSpan merges into it.
func unit(siblings []column.State, key column.Key) (start, size int) {
	start = slices.IndexFunc(siblings, func(s column.State) bool { return s.Key == key })
	if start < 0 {
		return -1, 0
	}
	size = 1
	if s := siblings[start]; len(s.Children) == 0 && s.ColSpan != nil && *s.ColSpan > 1 {
		size = min(*s.ColSpan, len(siblings)-start)
	}
	return start, size
}

// bounds returns the first and last position of nodes in the full sibling
// list, or -1 when none is present.
func bounds(pos map[column.Key]int, nodes []column.State) (first, last int) {
	first, last = -1, -1
	for _, n := range nodes {
		p, ok := pos[n.Key]
		if !ok {
			continue
		}
		if first < 0 || p < first {
			first = p
		}
		if p > last {
			last = p
		}
	}
	return first, last
}
