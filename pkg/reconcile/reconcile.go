// Package reconcile merges a freshly supplied column specification with the
// persisted column-state tree without losing user customizations.
//
// The specification is always the source of truth for which columns exist
// and for their content (titles, callbacks, alignment, nesting). The
// persisted state is the source of truth for what the user did to them:
// width, order, visibility and the two width flags. Columns that only exist
// in the persisted state are dropped.
//
//	state, warnings := reconcile.Reconcile(specs, prior)
//
// Reconcile is idempotent: reconciling the same specification against its
// own output yields the same tree.
package reconcile

import (
	"slices"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
)

// Filter projects specs to keyed, depth-tagged states. Hidden specs and
// groups whose children are all hidden are dropped. Widths are copied as
// written; resolution happens during layout.
func Filter(specs []column.Spec) ([]column.State, []errors.Warning) {
	var warnings []errors.Warning
	var walk func(specs []column.Spec, parent column.Key, depth int) []column.State
	walk = func(specs []column.Spec, parent column.Key, depth int) []column.State {
		var out []column.State
		for i, s := range specs {
			if s.Hidden {
				continue
			}
			if len(s.Children) > 0 && !slices.ContainsFunc(s.Children, func(c column.Spec) bool { return !c.Hidden }) {
				continue
			}

			key, src := column.ResolveKey(s.Key, s.DataIndex, parent, i)
			if src == column.KeyFromPosition {
				warnings = append(warnings, errors.NewWarning(errors.ErrCodeKeyFallback, string(key),
					"column %q has neither key nor dataIndex; using its position, which changes when siblings are added or reordered", s.Title))
			}

			st := fromSpec(s)
			st.Key = key
			st.ParentKey = parent
			st.Depth = depth
			st.Order = i
			st.Visible = true
			if len(s.Children) > 0 {
				st.Children = walk(s.Children, key, depth+1)
				st.HasChildren = len(st.Children) > 0
			}
			out = append(out, st)
		}
		return out
	}
	return walk(specs, "", 0), warnings
}

func fromSpec(s column.Spec) column.State {
	st := column.State{
		DataIndex: s.DataIndex,
		Title:     s.Title,
		Fixed:     s.Fixed,
		Align:     s.Align,
		Ellipsis:  s.Ellipsis,
		ClassName: s.ClassName,
		OnCell:    s.OnCell,
		Render:    s.Render,
	}
	if s.Width != nil {
		w := *s.Width
		st.Width = &w
	}
	if s.ColSpan != nil {
		v := *s.ColSpan
		st.ColSpan = &v
	}
	if s.RowSpan != nil {
		v := *s.RowSpan
		st.RowSpan = &v
	}
	return st
}

// CheckKeys fails with DUPLICATE_KEY when a key occurs twice in the tree.
func CheckKeys(cols []column.State) error {
	seen := make(map[column.Key]bool)
	var dup column.Key
	column.Walk(cols, func(s *column.State) {
		if dup == "" && seen[s.Key] {
			dup = s.Key
		}
		seen[s.Key] = true
	})
	if dup != "" {
		return errors.New(errors.ErrCodeDuplicateKey, "column key %q is used more than once", dup)
	}
	return nil
}

// Merge folds persisted values into the fresh tree. Nodes are matched by key
// anywhere in the persisted tree. Width, Order, Visible, UpdatedWidth and
// Distribute come from the persisted node; everything else from the fresh one.
func Merge(fresh, persisted []column.State) []column.State {
	return mergeLevel(fresh, column.Index(persisted))
}

func mergeLevel(fresh []column.State, idx map[column.Key]*column.State) []column.State {
	if fresh == nil {
		return nil
	}
	out := make([]column.State, len(fresh))
	for i, f := range fresh {
		m := f
		m.Children = nil
		if p, ok := idx[f.Key]; ok {
			if p.Width != nil {
				w := *p.Width
				m.Width = &w
			}
			m.Order = p.Order
			m.Visible = p.Visible
			m.UpdatedWidth = p.UpdatedWidth
			m.Distribute = p.Distribute
		}
		if len(f.Children) > 0 {
			m.Children = mergeLevel(f.Children, idx)
		}
		out[i] = m
	}
	return out
}

// Sort returns a copy with every sibling group stably sorted by Order and
// renumbered 0..n-1. Ties keep document order.
func Sort(cols []column.State) []column.State {
	out := column.Clone(cols)
	sortLevel(out)
	return out
}

func sortLevel(cols []column.State) {
	slices.SortStableFunc(cols, func(a, b column.State) int { return a.Order - b.Order })
	for i := range cols {
		cols[i].Order = i
		sortLevel(cols[i].Children)
	}
}

// Reconcile runs Filter, Merge and Sort. A nil persisted tree yields the
// initial middle state for specs.
func Reconcile(specs []column.Spec, persisted []column.State) ([]column.State, []errors.Warning) {
	fresh, warnings := Filter(specs)
	if persisted == nil {
		return Sort(fresh), warnings
	}
	return Sort(Merge(fresh, persisted)), warnings
}
