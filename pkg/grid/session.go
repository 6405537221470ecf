package grid

import (
	"context"
	"sync"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/gesture"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// ResizeSession is a resize gesture registered with a grid. Its methods are
// safe for concurrent use.
type ResizeSession struct {
	mu sync.Mutex
	g  *Grid
	r  *gesture.Resize
}

// BeginResize opens a resize session over keys. The grid's minimum resize
// width applies unless opts override it.
func (g *Grid) BeginResize(ctx context.Context, keys []column.Key, opts ...gesture.ResizeOption) (*ResizeSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.acquire(ctx, KindResize)
	if err != nil {
		return nil, err
	}
	opts = append([]gesture.ResizeOption{gesture.WithMinWidth(g.resizeMin)}, opts...)
	r, err := gesture.BeginResize(res, keys, opts...)
	if err != nil {
		g.active = ""
		return nil, err
	}
	return &ResizeSession{g: g, r: r}, nil
}

// Keys returns the resized leaves.
func (s *ResizeSession) Keys() []column.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Keys()
}

// Apply previews a drag delta and returns the widths of Keys.
func (s *ResizeSession) Apply(delta float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Apply(delta)
}

// Commit writes the previewed widths into the grid, lays it out again and
// releases the gesture lock.
func (s *ResizeSession) Commit(ctx context.Context) (*layout.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.r.Commit()
	if err != nil {
		return nil, err
	}
	return s.g.release(ctx, KindResize, state)
}

// Cancel discards the session and releases the gesture lock.
func (s *ResizeSession) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Cancel(); err != nil {
		return err
	}
	_, err := s.g.release(ctx, KindResize, nil)
	return err
}

// ReorderSession is a reorder gesture registered with a grid. Its methods
// are safe for concurrent use.
type ReorderSession struct {
	mu sync.Mutex
	g  *Grid
	r  *gesture.Reorder
}

// BeginReorder opens a reorder session dragging key.
func (g *Grid) BeginReorder(ctx context.Context, key column.Key) (*ReorderSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.acquire(ctx, KindReorder)
	if err != nil {
		return nil, err
	}
	r, err := gesture.BeginReorder(res, key)
	if err != nil {
		g.active = ""
		return nil, err
	}
	return &ReorderSession{g: g, r: r}, nil
}

// Dragged returns the dragged column key.
func (s *ReorderSession) Dragged() column.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Dragged()
}

// Preview returns the keys highlighted when hovering over overKey.
func (s *ReorderSession) Preview(overKey column.Key) []column.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Preview(overKey)
}

// Commit drops the dragged column on overKey. An unknown key leaves the
// session open.
func (s *ReorderSession) Commit(ctx context.Context, overKey column.Key) (*layout.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.r.Commit(overKey)
	if err != nil {
		return nil, err
	}
	return s.g.release(ctx, KindReorder, state)
}

// Cancel discards the session and releases the gesture lock.
func (s *ReorderSession) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Cancel(); err != nil {
		return err
	}
	_, err := s.g.release(ctx, KindReorder, nil)
	return err
}
