package gesture

import (
	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// SetVisible returns a copy of state with the column's Visible flag set.
// Hiding a group hides everything below it; the children keep their own
// flags for when the group is shown again.
func SetVisible(state []column.State, key column.Key, visible bool) ([]column.State, error) {
	if column.Find(state, key) == nil {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "column %q is not in the state", key)
	}
	return column.BatchUpdate(state, map[column.Key]func(*column.State){
		key: func(s *column.State) { s.Visible = visible },
	}), nil
}

// AutoFill spreads the container width left over by res across every
// rendered leaf and pins the result as if the user had resized them. It is
// a no-op when the leaves already fill or overflow the container.
func AutoFill(res *layout.Result, containerWidth float64) ([]column.State, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "auto-fill needs a layout result")
	}
	if err := errors.ValidateContainerWidth(containerWidth); err != nil {
		return nil, err
	}
	remaining := containerWidth - res.TotalWidth()
	if remaining <= 0 || len(res.Leaves) == 0 {
		return column.Clone(res.State), nil
	}

	widths := layout.Fill(res.Widths, remaining)
	updates := make(map[column.Key]func(*column.State), len(res.Leaves))
	for i, l := range res.Leaves {
		w := widths[i]
		updates[l.Key] = func(s *column.State) {
			s.Width = column.Px(w)
			s.UpdatedWidth = true
			s.Distribute = false
		}
	}
	return column.BatchUpdate(res.State, updates), nil
}
