// Package layout turns a column specification and a container width into a
// concrete rendering layout.
//
// # Pipeline
//
// [Build] runs the full pass:
//
//  1. Reconcile the specification with the prior middle state (see package
//     reconcile). A nil prior starts from the specification.
//  2. [Flatten] the merged tree into a depth-tagged, parent-linked list,
//     skipping hidden and invisible columns and resolving percentage widths.
//  3. [DistributeWidths] spreads the remaining container width over the
//     distributable leaves.
//  4. [Rebuild] regroups the flat list into a nested tree.
//  5. [Sticky] computes offsets for fixed columns and [HeaderRows] the
//     grouped header grid.
//
// The returned [Result] carries the new middle state, which the caller owns
// and passes back as prior on the next pass.
//
// # Width Policy
//
// Distribution is frozen once any leaf carries UpdatedWidth: a user resize
// is never undone by re-fitting. Otherwise leftover width goes to the
// distributable leaves, or, when every leaf has an explicit width, to all
// leaves at once (after which all of them are marked UpdatedWidth).
//
// # Purity
//
// Everything in this package is synchronous and side-effect free. Degraded
// input (a column keyed by position) is reported in [Result.Warnings], never
// logged.
package layout
