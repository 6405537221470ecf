package column

import (
	"slices"
)

// Walk visits every node depth-first, parents before children. Nodes are
// passed by pointer into cols, so fn may modify them in place.
func Walk(cols []State, fn func(*State)) {
	for i := range cols {
		fn(&cols[i])
		Walk(cols[i].Children, fn)
	}
}

// Find returns the node with the given key, or nil.
func Find(cols []State, key Key) *State {
	for i := range cols {
		if cols[i].Key == key {
			return &cols[i]
		}
		if found := Find(cols[i].Children, key); found != nil {
			return found
		}
	}
	return nil
}

// Index maps every key in the tree to its node.
func Index(cols []State) map[Key]*State {
	idx := make(map[Key]*State)
	Walk(cols, func(s *State) { idx[s.Key] = s })
	return idx
}

// Clone deep-copies a state tree. Callbacks are shared.
func Clone(cols []State) []State {
	if cols == nil {
		return nil
	}
	out := make([]State, len(cols))
	for i, c := range cols {
		out[i] = cloneNode(c)
	}
	return out
}

func cloneNode(c State) State {
	if c.Width != nil {
		w := *c.Width
		c.Width = &w
	}
	c.ColSpan = cloneInt(c.ColSpan)
	c.RowSpan = cloneInt(c.RowSpan)
	c.Children = Clone(c.Children)
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// BatchUpdate returns a copy of the tree with each update applied to the
// node carrying its key. Unknown keys are ignored.
func BatchUpdate(cols []State, updates map[Key]func(*State)) []State {
	out := Clone(cols)
	Walk(out, func(s *State) {
		if fn, ok := updates[s.Key]; ok {
			fn(s)
		}
	})
	return out
}

// ReplaceChildren returns a copy of the tree with the sibling group under
// parentKey replaced. An empty parentKey replaces the root list.
func ReplaceChildren(cols []State, parentKey Key, children []State) []State {
	if parentKey == "" {
		return Clone(children)
	}
	out := Clone(cols)
	if parent := Find(out, parentKey); parent != nil {
		parent.Children = Clone(children)
	}
	return out
}

// Siblings returns the sibling group under parentKey, or the roots.
func Siblings(cols []State, parentKey Key) []State {
	if parentKey == "" {
		return cols
	}
	if parent := Find(cols, parentKey); parent != nil {
		return parent.Children
	}
	return nil
}

// Leaves returns the leaf nodes in document order.
func Leaves(cols []State) []State {
	var out []State
	var walk func([]State)
	walk = func(cs []State) {
		for _, c := range cs {
			if len(c.Children) > 0 {
				walk(c.Children)
				continue
			}
			out = append(out, c)
		}
	}
	walk(cols)
	return out
}

// LeafKeys returns the keys of [Leaves].
func LeafKeys(cols []State) []Key {
	leaves := Leaves(cols)
	keys := make([]Key, len(leaves))
	for i, l := range leaves {
		keys[i] = l.Key
	}
	return keys
}

// Keys returns every key in the tree, parents before children.
func Keys(cols []State) []Key {
	var keys []Key
	Walk(cols, func(s *State) { keys = append(keys, s.Key) })
	return keys
}

// SpanKeys returns the leaf keys a header node claims. A group claims every
// leaf below it; a leaf claims itself plus the next ColSpan-1 leaves.
func SpanKeys(node *State, leaves []State) []Key {
	if node == nil {
		return nil
	}
	if len(node.Children) > 0 {
		return LeafKeys(node.Children)
	}
	i := slices.IndexFunc(leaves, func(l State) bool { return l.Key == node.Key })
	if i < 0 {
		return []Key{node.Key}
	}
	span := 1
	if node.ColSpan != nil && *node.ColSpan > 1 {
		span = *node.ColSpan
	}
	end := min(i+span, len(leaves))
	keys := make([]Key, 0, end-i)
	for _, l := range leaves[i:end] {
		keys = append(keys, l.Key)
	}
	return keys
}

// Sort returns a copy of the tree with every sibling group stably sorted by
// Order.
func Sort(cols []State) []State {
	out := Clone(cols)
	sortInPlace(out)
	return out
}

func sortInPlace(cols []State) {
	slices.SortStableFunc(cols, func(a, b State) int { return a.Order - b.Order })
	for i := range cols {
		sortInPlace(cols[i].Children)
	}
}
