// Package column defines the data model shared by the layout engine:
// caller-authored column specifications, the persisted column-state tree
// ("middle state"), header cells and sticky offsets.
//
// # Specifications and State
//
// A [Spec] is immutable input supplied on every layout pass. A [State] is
// the engine-owned, JSON-safe projection of a spec node plus everything the
// user changed interactively: widths, order, visibility and the two width
// flags [State.Distribute] and [State.UpdatedWidth].
//
//	specs := []column.Spec{
//	    {Title: "Name", DataIndex: "name", Width: column.Px(120), Fixed: column.FixedStart},
//	    {Title: "Address", Children: []column.Spec{
//	        {Title: "City", DataIndex: "city"},
//	        {Title: "Street", DataIndex: "street", Width: column.Pct(20)},
//	    }},
//	}
//
// # Identity
//
// Columns are correlated across passes by [Key]. The key is resolved with a
// fixed priority: the explicit key, then the data index, then the position
// within the sibling list. The positional fallback is only stable while the
// sibling order and count never change, so [ResolveKey] reports it and the
// layout engine surfaces it as a warning.
//
// # Widths
//
// [Width] is either an absolute pixel value or a percentage of the container
// width. It encodes as a plain number or as the string "<number>%" in JSON,
// YAML and TOML documents.
//
// # Tree Helpers
//
// State trees are plain nested slices. [Walk], [Find], [Clone],
// [BatchUpdate], [ReplaceChildren], [Leaves], [LeafKeys], [SpanKeys] and
// [Sort] operate on them without keeping back-pointers: parents are looked
// up through [State.ParentKey].
package column
