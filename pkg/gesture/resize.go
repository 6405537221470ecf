package gesture

import (
	"slices"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// DefaultMinWidth is the narrowest a leaf can be resized to.
const DefaultMinWidth = 50

// resizeEpsilon is below the two-decimal precision widths are kept at.
const resizeEpsilon = 0.005

type resizeConfig struct {
	neighbors []column.Key
	minWidth  float64
}

// ResizeOption configures [BeginResize].
type ResizeOption func(*resizeConfig)

// WithNeighbors makes the drag move a shared boundary: the neighbor columns
// absorb whatever the resized columns gain or lose, so the total stays put.
func WithNeighbors(keys ...column.Key) ResizeOption {
	return func(c *resizeConfig) {
		c.neighbors = append(c.neighbors, keys...)
	}
}

// WithMinWidth overrides [DefaultMinWidth]. Non-positive values are ignored.
func WithMinWidth(px float64) ResizeOption {
	return func(c *resizeConfig) {
		if px > 0 {
			c.minWidth = px
		}
	}
}

// Resize is an open resize session.
type Resize struct {
	state     []column.State
	leaves    []column.State
	widths    []float64
	primary   []int
	neighbors []int
	minWidth  float64
	applied   bool
	closed    bool
}

// BeginResize opens a resize session on res. Each key may name a leaf or a
// group; a group resizes every leaf it spans.
func BeginResize(res *layout.Result, keys []column.Key, opts ...ResizeOption) (*Resize, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resize needs a layout result")
	}
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resize needs at least one column key")
	}
	cfg := resizeConfig{minWidth: DefaultMinWidth}
	for _, opt := range opts {
		opt(&cfg)
	}

	primary, err := leafIndexes(res, keys)
	if err != nil {
		return nil, err
	}
	neighbors, err := leafIndexes(res, cfg.neighbors)
	if err != nil {
		return nil, err
	}
	for _, n := range neighbors {
		if slices.Contains(primary, n) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %q is both resized and a neighbor", res.Leaves[n].Key)
		}
	}

	return &Resize{
		state:     column.Clone(res.State),
		leaves:    res.Leaves,
		widths:    slices.Clone(res.Widths),
		primary:   primary,
		neighbors: neighbors,
		minWidth:  cfg.minWidth,
	}, nil
}

// leafIndexes expands keys to the display indexes of the leaves they span.
func leafIndexes(res *layout.Result, keys []column.Key) ([]int, error) {
	var out []int
	for _, key := range keys {
		node := column.Find(res.Tree, key)
		if node == nil {
			return nil, errors.New(errors.ErrCodeKeyNotFound, "column %q is not rendered", key)
		}
		for _, k := range column.SpanKeys(node, res.Leaves) {
			if i := res.LeafIndex(k); i >= 0 && !slices.Contains(out, i) {
				out = append(out, i)
			}
		}
	}
	return out, nil
}

// Keys returns the leaves the session writes on commit.
func (r *Resize) Keys() []column.Key {
	var keys []column.Key
	for _, i := range slices.Concat(r.primary, r.neighbors) {
		keys = append(keys, r.leaves[i].Key)
	}
	return keys
}

// Widths returns the previewed widths of every leaf in display order.
func (r *Resize) Widths() []float64 {
	return slices.Clone(r.widths)
}

// Apply moves the boundary by delta pixels on top of earlier calls and
// returns the previewed leaf widths. Nothing is committed.
func (r *Resize) Apply(delta float64) []float64 {
	if r.closed || delta == 0 {
		return r.Widths()
	}
	switch {
	case len(r.neighbors) == 0:
		r.shift(r.primary, delta)
	case delta < 0:
		actual := r.shift(r.primary, delta)
		r.shift(r.neighbors, -actual)
	default:
		absorbed := r.shift(r.neighbors, -delta)
		r.shift(r.primary, -absorbed)
	}
	r.applied = true
	return r.Widths()
}

// shift changes the widths at idx by delta in total and returns the amount
// actually applied. Growth is split evenly. Shrinking stops at the minimum
// width and the shortfall is re-split over the leaves that still have room.
func (r *Resize) shift(idx []int, delta float64) float64 {
	if len(idx) == 0 || delta == 0 {
		return 0
	}
	if delta > 0 {
		per := column.Round2(delta / float64(len(idx)))
		for _, i := range idx {
			r.widths[i] = column.Round2(r.widths[i] + per)
		}
		first := idx[0]
		r.widths[first] = column.Round2(r.widths[first] + delta - per*float64(len(idx)))
		return delta
	}

	remaining := -delta
	var shrunk float64
	active := slices.DeleteFunc(slices.Clone(idx), func(i int) bool { return r.widths[i] <= r.minWidth })
	for remaining > resizeEpsilon && len(active) > 0 {
		per := remaining / float64(len(active))
		var next []int
		for _, i := range active {
			take := min(per, r.widths[i]-r.minWidth)
			before := r.widths[i]
			r.widths[i] = column.Round2(before - take)
			shrunk += before - r.widths[i]
			remaining -= take
			if r.widths[i] > r.minWidth {
				next = append(next, i)
			}
		}
		active = next
	}
	return -column.Round2(shrunk)
}

// Commit writes the previewed widths into a copy of the state and marks the
// affected leaves UpdatedWidth. Rendered percentage leaves are pinned to
// their pixel width. A session without any applied delta returns the
// state unchanged.
func (r *Resize) Commit() ([]column.State, error) {
	if r.closed {
		return nil, errors.New(errors.ErrCodeSessionClosed, "resize session already closed")
	}
	r.closed = true
	if !r.applied {
		return column.Clone(r.state), nil
	}

	updates := make(map[column.Key]func(*column.State))
	// The commit freezes the grid, so percentage leaves keep the pixel width
	// they were rendered at.
	for i, l := range r.leaves {
		st := column.Find(r.state, l.Key)
		if st == nil || st.Width == nil || !st.Width.Percent {
			continue
		}
		w := r.widths[i]
		updates[l.Key] = func(s *column.State) { s.Width = column.Px(w) }
	}
	for _, i := range slices.Concat(r.primary, r.neighbors) {
		w := r.widths[i]
		updates[r.leaves[i].Key] = func(s *column.State) {
			s.Width = column.Px(w)
			s.UpdatedWidth = true
			s.Distribute = false
		}
	}
	return column.BatchUpdate(r.state, updates), nil
}

// Cancel closes the session without committing.
func (r *Resize) Cancel() error {
	if r.closed {
		return errors.New(errors.ErrCodeSessionClosed, "resize session already closed")
	}
	r.closed = true
	return nil
}
