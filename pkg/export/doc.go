// Package export writes a computed layout to formats outside the grid.
//
// [XLSX] renders the grouped header matrix into a spreadsheet, merging the
// cells that span several columns or rows, sizing columns from the leaf
// widths and freezing the header rows and start-fixed columns. Body rows are
// optional and go through each leaf's Render and OnCell callbacks.
//
// [TreeDOT] describes the column tree as a Graphviz digraph, and
// [RenderSVG] renders such a description.
package export
