package layout

import (
	"slices"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
)

// FlatColumn is one node of the flattened tree. Children is always nil;
// nesting is recovered through ParentKey.
type FlatColumn struct {
	column.State

	// Prior is the width a distributable leaf was given by an earlier pass.
	// The distributor restores it while redistribution is frozen.
	Prior *float64
}

// Flattened is the output of [Flatten].
type Flattened struct {
	Columns        []FlatColumn
	UsedWidthTotal float64
	Warnings       []errors.Warning
}

// Flatten converts a state tree into a depth-first list. Children are appended
// before their parent; leaves keep document order. Hidden and invisible
// nodes, and groups without a single shown child, are skipped.
//
// Leaves without a width, or still flagged Distribute from an earlier pass,
// are distributable and get a placeholder width. Every shown leaf adds its
// width to UsedWidthTotal.
func Flatten(cols []column.State, containerWidth float64, opts Options) Flattened {
	var out Flattened
	var walk func(cs []column.State, parent column.Key, depth int)
	walk = func(cs []column.State, parent column.Key, depth int) {
		for i, c := range cs {
			if !shown(c) {
				continue
			}
			if len(c.Children) > 0 && !slices.ContainsFunc(c.Children, shown) {
				continue
			}

			key, src := column.ResolveKey(c.Key, c.DataIndex, parent, i)
			if src == column.KeyFromPosition {
				out.Warnings = append(out.Warnings, positionalWarning(key, c.Title))
			}

			if len(c.Children) > 0 {
				walk(c.Children, key, depth+1)
			}

			fc := FlatColumn{State: c}
			fc.Children = nil
			fc.Key = key
			fc.ParentKey = parent
			fc.Depth = depth

			if len(c.Children) > 0 {
				fc.HasChildren = true
				fc.Width = nil
				fc.Distribute = false
				out.Columns = append(out.Columns, fc)
				continue
			}

			fc.HasChildren = false
			if distributable(c) {
				if c.Width != nil && !c.Width.Percent {
					prior := c.Width.Value
					fc.Prior = &prior
				}
				fc.Distribute = true
				fc.Width = column.Px(opts.placeholder(depth))
			} else {
				fc.Distribute = false
				fc.Width = column.Px(c.Width.Resolve(containerWidth))
			}
			out.UsedWidthTotal += fc.Width.Value
			out.Columns = append(out.Columns, fc)
		}
	}
	walk(cols, "", 0)
	return out
}

func shown(c column.State) bool {
	return !c.Hidden && c.Visible
}

func distributable(c column.State) bool {
	if c.Width == nil {
		return true
	}
	return c.Distribute && !c.UpdatedWidth
}

func positionalWarning(key column.Key, title string) errors.Warning {
	return errors.NewWarning(errors.ErrCodeKeyFallback, string(key),
		"column %q has neither key nor dataIndex; using its position, which changes when siblings are added or reordered", title)
}

// DistributeWidths assigns final leaf widths and returns the flat list with
// the Width, Distribute and UpdatedWidth fields settled.
//
// Policy, first match wins:
//  1. any leaf UpdatedWidth: frozen; distributable leaves get their prior
//     width back when they have one
//  2. no remaining width: placeholders stand
//  3. every leaf distributable: remaining is split over all of them
//  4. no leaf distributable: remaining is split over all leaves, which are
//     then marked UpdatedWidth
//  5. otherwise remaining is split over the distributable leaves
func DistributeWidths(flat Flattened, containerWidth float64) []column.State {
	out := make([]column.State, len(flat.Columns))
	widths := make([]float64, len(flat.Columns))
	var leaves, dist []int
	frozen := false
	for i, fc := range flat.Columns {
		out[i] = fc.State
		if fc.HasChildren {
			continue
		}
		widths[i] = fc.Width.Value
		leaves = append(leaves, i)
		if fc.Distribute {
			dist = append(dist, i)
		}
		if fc.UpdatedWidth {
			frozen = true
		}
	}

	remaining := containerWidth - flat.UsedWidthTotal
	switch {
	case frozen:
		for _, i := range dist {
			if p := flat.Columns[i].Prior; p != nil {
				widths[i] = *p
			}
		}
	case remaining <= 0:
	case len(dist) == len(leaves):
		spread(widths, dist, remaining)
	case len(dist) == 0:
		spread(widths, leaves, remaining)
		for _, i := range leaves {
			out[i].UpdatedWidth = true
		}
	default:
		spread(widths, dist, remaining)
	}

	for _, i := range leaves {
		out[i].Width = column.Px(widths[i])
		if out[i].UpdatedWidth {
			out[i].Distribute = false
		}
	}
	return out
}

// Rebuild regroups a flat list under ParentKey. Parents are attached before
// children by sorting on depth; siblings keep list order.
func Rebuild(flat []column.State) []column.State {
	type node struct {
		state    column.State
		children []*node
	}

	ordered := slices.Clone(flat)
	slices.SortStableFunc(ordered, func(a, b column.State) int { return a.Depth - b.Depth })

	byKey := make(map[column.Key]*node, len(ordered))
	var roots []*node
	for _, s := range ordered {
		n := &node{state: s}
		n.state.Children = nil
		byKey[s.Key] = n
		if s.Depth == 0 {
			roots = append(roots, n)
			continue
		}
		if parent, ok := byKey[s.ParentKey]; ok {
			parent.children = append(parent.children, n)
		}
	}

	var build func([]*node) []column.State
	build = func(ns []*node) []column.State {
		if len(ns) == 0 {
			return nil
		}
		out := make([]column.State, len(ns))
		for i, n := range ns {
			out[i] = n.state
			out[i].Children = build(n.children)
		}
		return out
	}
	return build(roots)
}
