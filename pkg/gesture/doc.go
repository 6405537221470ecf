// Package gesture applies interactive edits to a column-state tree.
//
// Resize and reorder are modeled as sessions: a Begin call captures the
// current layout, preview calls compute intermediate values in memory, and
// Commit writes the final values into a copy of the middle state exactly
// once. Abandoning a session, or calling Cancel, leaves the state untouched.
//
//	rs, err := gesture.BeginResize(res, []column.Key{"name"})
//	rs.Apply(-12) // pointer moved
//	rs.Apply(-3)  // pointer moved again
//	state, err := rs.Commit()
//
// [SetVisible] and [AutoFill] are single-step edits with no session.
//
// Nothing here talks to storage or holds a lock; see package grid for an
// owner that serializes gestures and container resizes.
package gesture
