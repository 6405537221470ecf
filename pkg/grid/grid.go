// Package grid owns the middle state of one data grid.
//
// A [Grid] holds the column specification, the persisted column-state tree
// and the last layout result behind a mutex. Every mutation (a committed
// gesture, a visibility toggle, auto-fill, a new specification) replaces the
// owned state exactly once, re-runs the layout and saves a snapshot to the
// configured store.
//
// While a resize or reorder session is open the grid is locked: container
// resizes passed to [Grid.Relayout] are skipped so the layout does not shift
// under the pointer, and other mutations fail with GESTURE_ACTIVE. The lock
// is released when the session commits or cancels.
//
//	g, err := grid.New("orders", specs, grid.WithStore(s), grid.WithLogger(logger))
//	if _, err := g.Load(ctx); err != nil { ... }
//	res, err := g.Layout(ctx, 1200)
//
//	sess, err := g.BeginResize(ctx, []column.Key{"name"})
//	sess.Apply(-30)
//	res, err = sess.Commit(ctx)
package grid

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/gesture"
	"github.com/matzehuels/colgrid/pkg/layout"
	"github.com/matzehuels/colgrid/pkg/observability"
	"github.com/matzehuels/colgrid/pkg/store"
)

// Gesture kinds reported to hooks and logs.
const (
	KindResize  = "resize"
	KindReorder = "reorder"
)

// Grid is the owner of one grid's middle state. It is safe for concurrent
// use; the sessions it hands out are not.
type Grid struct {
	mu sync.Mutex

	id      string
	specs   []column.Spec
	hash    string
	width   float64
	state   []column.State
	last    *layout.Result
	active  string
	started time.Time

	layoutOpts []layout.Option
	resizeMin  float64
	store      store.Store
	scope      string
	ttl        time.Duration
	logger     *log.Logger
}

// Option configures a [Grid].
type Option func(*Grid)

// WithStore persists snapshots to s. Without it nothing is saved.
func WithStore(s store.Store) Option {
	return func(g *Grid) { g.store = s }
}

// WithScope namespaces the storage key, for example by user id.
func WithScope(scope string) Option {
	return func(g *Grid) { g.scope = scope }
}

// WithTTL expires saved snapshots after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(g *Grid) { g.ttl = ttl }
}

// WithLogger sets the logger for warnings and store events.
func WithLogger(l *log.Logger) Option {
	return func(g *Grid) { g.logger = l }
}

// WithLayoutOptions passes opts to every layout pass.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(g *Grid) { g.layoutOpts = append(g.layoutOpts, opts...) }
}

// WithState seeds the middle state, for example from an exported file. A
// later [Grid.Load] replaces it when a snapshot exists.
func WithState(state []column.State) Option {
	return func(g *Grid) { g.state = column.Clone(state) }
}

// WithResizeMinWidth sets the minimum leaf width of resize sessions.
func WithResizeMinWidth(px float64) Option {
	return func(g *Grid) { g.resizeMin = px }
}

// New creates a grid for specs. The id is validated because it becomes part
// of a storage key.
func New(id string, specs []column.Spec, opts ...Option) (*Grid, error) {
	if err := errors.ValidateGridID(id); err != nil {
		return nil, err
	}
	g := &Grid{
		id:        id,
		specs:     specs,
		hash:      store.SpecHash(specs),
		resizeMin: gesture.DefaultMinWidth,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = store.NewNullStore()
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	return g, nil
}

// ID returns the grid id.
func (g *Grid) ID() string { return g.id }

// StoreKey returns the key snapshots are saved under.
func (g *Grid) StoreKey() string { return store.Key(g.id, g.scope) }

// Load restores the saved middle state, if any. It reports whether a
// snapshot was found. A snapshot taken for a different specification is
// still used; reconciliation drops what no longer exists.
func (g *Grid) Load(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap, err := store.Load(ctx, g.store, g.StoreKey())
	if err != nil {
		return false, err
	}
	if snap == nil {
		g.logger.Debug("no saved state", "grid", g.id)
		return false, nil
	}
	if snap.SpecHash != g.hash {
		g.logger.Debug("saved state was taken for another spec, reconciling", "grid", g.id)
	}
	g.state = snap.State
	g.last = nil
	g.logger.Debug("loaded state", "grid", g.id, "updated", snap.UpdatedAt)
	return true, nil
}

// Layout runs a layout pass at width and saves the new middle state. It
// fails with GESTURE_ACTIVE while a session is open.
func (g *Grid) Layout(ctx context.Context, width float64) (*layout.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkIdle(); err != nil {
		return nil, err
	}
	return g.layoutLocked(ctx, width)
}

// Relayout is Layout for container resizes. While a session is open the pass
// is skipped and the previous result is returned with ran set to false.
func (g *Grid) Relayout(ctx context.Context, width float64) (res *layout.Result, ran bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != "" {
		observability.Layout().OnLayoutSkipped(ctx, g.id, width)
		g.logger.Debug("relayout skipped during gesture", "grid", g.id, "gesture", g.active, "width", width)
		return g.last, false, nil
	}
	res, err = g.layoutLocked(ctx, width)
	return res, err == nil, err
}

// UpdateSpecs replaces the column specification. When the grid has been laid
// out before, it is laid out again at the same width and the result
// returned; otherwise the result is nil.
func (g *Grid) UpdateSpecs(ctx context.Context, specs []column.Spec) (*layout.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkIdle(); err != nil {
		return nil, err
	}
	g.specs = specs
	g.hash = store.SpecHash(specs)
	if g.last == nil {
		return nil, nil
	}
	return g.layoutLocked(ctx, g.width)
}

// SetVisible shows or hides a column and lays the grid out again.
func (g *Grid) SetVisible(ctx context.Context, key column.Key, visible bool) (*layout.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkReady(); err != nil {
		return nil, err
	}
	state, err := gesture.SetVisible(g.last.State, key, visible)
	if err != nil {
		return nil, err
	}
	g.state = state
	return g.layoutLocked(ctx, g.width)
}

// AutoFill spreads leftover container space over the visible leaves.
func (g *Grid) AutoFill(ctx context.Context) (*layout.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkReady(); err != nil {
		return nil, err
	}
	state, err := gesture.AutoFill(g.last, g.width)
	if err != nil {
		return nil, err
	}
	g.state = state
	return g.layoutLocked(ctx, g.width)
}

// Reset forgets every customization and deletes the saved snapshot. The next
// layout starts from the specification alone.
func (g *Grid) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkIdle(); err != nil {
		return err
	}
	g.state = nil
	g.last = nil
	if err := store.Remove(ctx, g.store, g.StoreKey()); err != nil {
		return err
	}
	g.logger.Debug("reset state", "grid", g.id)
	return nil
}

// State returns a copy of the owned middle state.
func (g *Grid) State() []column.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last != nil {
		return column.Clone(g.last.State)
	}
	return column.Clone(g.state)
}

// Result returns the last layout result, or nil.
func (g *Grid) Result() *layout.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Width returns the container width of the last layout pass.
func (g *Grid) Width() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width
}

// Active returns the kind of the open session, or "".
func (g *Grid) Active() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *Grid) checkIdle() error {
	if g.active != "" {
		return errors.New(errors.ErrCodeGestureActive, "a %s gesture is in progress on grid %q", g.active, g.id)
	}
	return nil
}

func (g *Grid) checkReady() error {
	if err := g.checkIdle(); err != nil {
		return err
	}
	if g.last == nil {
		return errors.New(errors.ErrCodeInvalidInput, "grid %q has not been laid out", g.id)
	}
	return nil
}

func (g *Grid) layoutLocked(ctx context.Context, width float64) (*layout.Result, error) {
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, g.id, width)

	res, err := layout.Build(g.specs, width, g.state, g.layoutOpts...)
	if err != nil {
		observability.Layout().OnLayoutComplete(ctx, g.id, 0, time.Since(start), err)
		return nil, err
	}
	for _, w := range res.Warnings {
		observability.Layout().OnWarning(ctx, g.id, string(w.Code), w.Key)
		g.logger.Warn(w.Message, "grid", g.id, "code", w.Code, "key", w.Key)
	}
	observability.Layout().OnLayoutComplete(ctx, g.id, len(res.Leaves), time.Since(start), nil)

	g.state = res.State
	g.last = res
	g.width = width

	// The in-memory state stays updated when the save fails.
	snap := store.Snapshot{GridID: g.id, State: res.State, SpecHash: g.hash}
	if err := store.Save(ctx, g.store, g.StoreKey(), snap, g.ttl); err != nil {
		g.logger.Error("save state", "grid", g.id, "backend", store.Backend(g.store), "error", err)
		return nil, err
	}
	return res, nil
}

// acquire opens a session of kind. It requires a prior layout.
func (g *Grid) acquire(ctx context.Context, kind string) (*layout.Result, error) {
	if err := g.checkReady(); err != nil {
		return nil, err
	}
	g.active = kind
	g.started = time.Now()
	observability.Gesture().OnGestureStart(ctx, g.id, kind)
	return g.last, nil
}

// release closes the open session. A non-nil state is committed and laid out
// at the current width.
func (g *Grid) release(ctx context.Context, kind string, state []column.State) (*layout.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = ""
	if state == nil {
		observability.Gesture().OnGestureCancel(ctx, g.id, kind)
		g.logger.Debug("gesture cancelled", "grid", g.id, "gesture", kind)
		return g.last, nil
	}
	observability.Gesture().OnGestureCommit(ctx, g.id, kind, time.Since(g.started))
	g.logger.Debug("gesture committed", "grid", g.id, "gesture", kind)
	g.state = state
	return g.layoutLocked(ctx, g.width)
}
