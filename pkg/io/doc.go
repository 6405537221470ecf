// Package io reads column specifications and writes layout results.
//
// # Specification Formats
//
// Specifications can be written as JSON, YAML or TOML. JSON and YAML accept
// either a bare list of columns or an object with a "columns" list; TOML
// always uses an array of tables:
//
//	[
//	  {"key": "name", "title": "Name", "width": 200, "fixed": "start"},
//	  {"title": "Address", "children": [
//	    {"dataIndex": "city", "title": "City", "width": "30%"},
//	    {"dataIndex": "zip", "title": "Zip"}
//	  ]}
//	]
//
//	[[columns]]
//	key = "name"
//	title = "Name"
//	width = 200
//
// # Column Fields
//
//   - key, dataIndex: identity; one of them should be set
//   - title: header text
//   - width: pixels (120) or a percentage of the container ("20%")
//   - fixed: "start" or "end"
//   - hidden: drop the column entirely
//   - colSpan, rowSpan: header span overrides (0 merges the cell away)
//   - align, ellipsis, className: passed through to renderers
//   - children: nested columns
//
// # Import
//
// Use [ImportSpecs] to read a file, choosing the format from its extension,
// or [ReadSpecs] to read from any io.Reader:
//
//	specs, err := io.ImportSpecs("columns.yaml")
//
// # State and Layout Export
//
// [WriteState] and [ReadState] move the middle state as JSON; it round-trips
// exactly. [WriteLayout] writes a full layout result for external renderers.
package io
