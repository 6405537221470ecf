// Package pkg provides the core libraries for Colgrid column layout.
//
// # Overview
//
// Colgrid computes the column layout of a data grid and keeps what the user
// did to the columns (resizes, reorders, hidden columns) in a persisted
// column-state tree that survives changes to the column specification. The
// pkg directory is organized into four areas:
//
//  1. [column], [reconcile], [layout] - The layout engine
//  2. [gesture] - Resize, reorder and visibility edits
//  3. [grid], [store] - Per-grid state holder and persistence
//  4. [io], [export], [config] - Formats and configuration
//
// # Architecture
//
// The data flow of one layout pass:
//
//	Column specification + prior state
//	         ↓
//	    [reconcile] (merge user customizations into the fresh tree)
//	         ↓
//	    [layout] (flatten, distribute widths, rebuild, sticky offsets, header rows)
//	         ↓
//	    Result (leaf widths, header grid, new state)
//	         ↓
//	    [gesture] edits feed a new state back into the next pass
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/colgrid/pkg/column"
//	    "github.com/matzehuels/colgrid/pkg/layout"
//	)
//
//	specs := []column.Spec{
//	    {Key: "id", Title: "ID", Width: column.Px(80), Fixed: column.FixedStart},
//	    {Key: "name", Title: "Name"},
//	    {Key: "price", Title: "Price", Width: column.Pct(20)},
//	}
//	res, _ := layout.Build(specs, 1200, nil)
//	// res.Widths: [80 880 240]
//
// # Main Packages
//
// [column] - Spec, State and Width types plus tree helpers.
//
// [reconcile] - Filter, Merge and Sort of a specification against the
// persisted state.
//
// [layout] - The layout pass: width distribution, sticky offsets and the
// grouped header grid.
//
// [gesture] - Resize and reorder sessions, visibility toggles and fill.
//
// [grid] - A grid's state holder. It runs layout passes, guards the gesture
// lock and saves state through a [store.Store].
//
// [store] - State backends: none, memory, file, Redis, MongoDB and Postgres.
//
// [io] - JSON, YAML and TOML import of column files; JSON state export.
//
// [export] - XLSX header export and DOT/SVG drawings of the column tree.
//
// [observability] - Hooks for layout, gesture, store and HTTP events.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [column]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/column
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/reconcile
// [layout]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/layout
// [gesture]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/gesture
// [grid]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/grid
// [store]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/store
// [io]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/io
// [export]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/export
// [config]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/colgrid/pkg/observability
package pkg
