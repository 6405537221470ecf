package grid_test

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/gesture"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/store"
)

func fixed(keys ...column.Key) []column.Spec {
	out := make([]column.Spec, len(keys))
	for i, k := range keys {
		out[i] = column.Spec{Key: k, Width: column.Px(100)}
	}
	return out
}

func newGrid(t *testing.T, specs []column.Spec, opts ...grid.Option) *grid.Grid {
	t.Helper()
	opts = append([]grid.Option{grid.WithLogger(log.New(io.Discard))}, opts...)
	g, err := grid.New("orders", specs, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func leafKeys(t *testing.T, g *grid.Grid) []column.Key {
	t.Helper()
	res := g.Result()
	if res == nil {
		t.Fatal("grid has no layout")
	}
	return column.Keys(res.Leaves)
}

func TestNewRejectsBadID(t *testing.T) {
	for _, id := range []string{"", "../etc", "a/b"} {
		if _, err := grid.New(id, nil); !errors.Is(err, errors.ErrCodeInvalidGridID) {
			t.Errorf("New(%q) error = %v, want INVALID_GRID_ID", id, err)
		}
	}
}

func TestLayoutPersistsState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	g := newGrid(t, fixed("a", "b"), grid.WithStore(mem), grid.WithScope("alice"))

	if _, err := g.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if mem.Len() != 1 {
		t.Fatalf("store holds %d entries, want 1", mem.Len())
	}
	if got, want := g.StoreKey(), "colgrid:state:alice:orders"; got != want {
		t.Errorf("StoreKey() = %q, want %q", got, want)
	}

	restored := newGrid(t, fixed("a", "b"), grid.WithStore(mem), grid.WithScope("alice"))
	found, err := restored.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v; want true, nil", found, err)
	}
	if got := column.LeafKeys(restored.State()); !slices.Equal(got, []column.Key{"a", "b"}) {
		t.Errorf("restored leaves = %v", got)
	}

	other := newGrid(t, fixed("a", "b"), grid.WithStore(mem), grid.WithScope("bob"))
	if found, _ := other.Load(ctx); found {
		t.Error("scopes should not share state")
	}
}

func TestResizeSession(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, []column.Spec{{Key: "a", Width: column.Px(60)}, {Key: "b", Width: column.Px(60)}})
	if _, err := g.Layout(ctx, 120); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	sess, err := g.BeginResize(ctx, []column.Key{"a"}, gesture.WithNeighbors("b"))
	if err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	if g.Active() != grid.KindResize {
		t.Errorf("Active() = %q, want %q", g.Active(), grid.KindResize)
	}
	sess.Apply(-30)
	res, err := sess.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !slices.Equal(res.Widths, []float64{50, 70}) {
		t.Errorf("widths = %v, want [50 70]", res.Widths)
	}
	if g.Active() != "" {
		t.Error("commit should release the gesture lock")
	}
	if _, err := sess.Commit(ctx); !errors.Is(err, errors.ErrCodeSessionClosed) {
		t.Errorf("second Commit() error = %v, want SESSION_CLOSED", err)
	}
}

func TestResizeSessionConcurrentApply(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, fixed("a", "b"))
	if _, err := g.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	sess, err := g.BeginResize(ctx, []column.Key{"a"}, gesture.WithNeighbors("b"))
	if err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Apply(1)
		}()
	}
	wg.Wait()

	res, err := sess.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !slices.Equal(res.Widths, []float64{120, 80}) {
		t.Errorf("widths = %v, want [120 80]", res.Widths)
	}
}

func TestRelayoutSkippedDuringGesture(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, []column.Spec{{Key: "a"}, {Key: "b"}})
	before, err := g.Layout(ctx, 400)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	sess, err := g.BeginReorder(ctx, "a")
	if err != nil {
		t.Fatalf("BeginReorder() error = %v", err)
	}
	res, ran, err := g.Relayout(ctx, 800)
	if err != nil || ran {
		t.Fatalf("Relayout() ran = %v, err = %v; want skipped", ran, err)
	}
	if res != before || g.Width() != 400 {
		t.Error("skipped relayout should keep the previous result")
	}

	if err := sess.Cancel(ctx); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	res, ran, err = g.Relayout(ctx, 800)
	if err != nil || !ran {
		t.Fatalf("Relayout() ran = %v, err = %v; want ran", ran, err)
	}
	if res.TotalWidth() != 800 {
		t.Errorf("total width = %v, want 800", res.TotalWidth())
	}
}

func TestGestureLock(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, fixed("a", "b", "c"))

	if _, err := g.BeginResize(ctx, []column.Key{"a"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("BeginResize() before layout error = %v, want INVALID_INPUT", err)
	}
	if _, err := g.Layout(ctx, 300); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if _, err := g.BeginResize(ctx, []column.Key{"missing"}); !errors.Is(err, errors.ErrCodeKeyNotFound) {
		t.Errorf("BeginResize(missing) error = %v, want KEY_NOT_FOUND", err)
	}
	if g.Active() != "" {
		t.Fatal("a failed begin should not hold the lock")
	}

	sess, err := g.BeginResize(ctx, []column.Key{"a"})
	if err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	tests := map[string]func() error{
		"BeginResize":  func() error { _, err := g.BeginResize(ctx, []column.Key{"b"}); return err },
		"BeginReorder": func() error { _, err := g.BeginReorder(ctx, "b"); return err },
		"Layout":       func() error { _, err := g.Layout(ctx, 300); return err },
		"SetVisible":   func() error { _, err := g.SetVisible(ctx, "b", false); return err },
		"AutoFill":     func() error { _, err := g.AutoFill(ctx); return err },
		"UpdateSpecs":  func() error { _, err := g.UpdateSpecs(ctx, fixed("a")); return err },
		"Reset":        func() error { return g.Reset(ctx) },
	}
	for name, fn := range tests {
		if err := fn(); !errors.Is(err, errors.ErrCodeGestureActive) {
			t.Errorf("%s during gesture error = %v, want GESTURE_ACTIVE", name, err)
		}
	}

	if err := sess.Cancel(ctx); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := sess.Cancel(ctx); !errors.Is(err, errors.ErrCodeSessionClosed) {
		t.Errorf("second Cancel() error = %v, want SESSION_CLOSED", err)
	}
	if _, err := g.SetVisible(ctx, "b", false); err != nil {
		t.Errorf("SetVisible() after cancel error = %v", err)
	}
}

func TestReorderSession(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, fixed("a", "b", "c", "d"))
	if _, err := g.Layout(ctx, 400); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	sess, err := g.BeginReorder(ctx, "a")
	if err != nil {
		t.Fatalf("BeginReorder() error = %v", err)
	}
	if got := sess.Preview("c"); !slices.Equal(got, []column.Key{"c"}) {
		t.Errorf("Preview(c) = %v, want [c]", got)
	}
	if _, err := sess.Commit(ctx, "nope"); !errors.Is(err, errors.ErrCodeKeyNotFound) {
		t.Errorf("Commit(nope) error = %v, want KEY_NOT_FOUND", err)
	}
	if g.Active() != grid.KindReorder {
		t.Fatal("unknown drop target should keep the session open")
	}
	if _, err := sess.Commit(ctx, "c"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if got := leafKeys(t, g); !slices.Equal(got, []column.Key{"c", "b", "a", "d"}) {
		t.Errorf("leaves = %v, want [c b a d]", got)
	}
}

func TestSetVisible(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, fixed("a", "b", "c"))
	if _, err := g.Layout(ctx, 300); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if _, err := g.SetVisible(ctx, "b", false); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}
	if got := leafKeys(t, g); !slices.Equal(got, []column.Key{"a", "c"}) {
		t.Errorf("leaves = %v, want [a c]", got)
	}
	if s := column.Find(g.State(), "b"); s == nil || s.Visible {
		t.Error("hidden column should stay in the state")
	}

	if _, err := g.SetVisible(ctx, "b", true); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}
	if got := leafKeys(t, g); !slices.Equal(got, []column.Key{"a", "b", "c"}) {
		t.Errorf("leaves = %v, want [a b c]", got)
	}
	if _, err := g.SetVisible(ctx, "zzz", true); !errors.Is(err, errors.ErrCodeKeyNotFound) {
		t.Errorf("SetVisible(zzz) error = %v, want KEY_NOT_FOUND", err)
	}
}

func TestAutoFill(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, []column.Spec{{Key: "a", Width: column.Px(50)}, {Key: "b", Width: column.Px(60)}})

	// A forced fill pins the widths, so a wider container leaves space.
	if _, err := g.Layout(ctx, 120); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	res, _, err := g.Relayout(ctx, 200)
	if err != nil {
		t.Fatalf("Relayout() error = %v", err)
	}
	if !slices.Equal(res.Widths, []float64{55, 65}) {
		t.Fatalf("widths = %v, want [55 65]", res.Widths)
	}

	res, err = g.AutoFill(ctx)
	if err != nil {
		t.Fatalf("AutoFill() error = %v", err)
	}
	if !slices.Equal(res.Widths, []float64{95, 105}) {
		t.Errorf("widths = %v, want [95 105]", res.Widths)
	}
}

func TestUpdateSpecs(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, fixed("a", "b"))

	res, err := g.UpdateSpecs(ctx, fixed("a", "b", "c"))
	if err != nil || res != nil {
		t.Fatalf("UpdateSpecs() before layout = %v, %v; want nil, nil", res, err)
	}
	if _, err := g.Layout(ctx, 300); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if _, err := g.UpdateSpecs(ctx, fixed("c", "a")); err != nil {
		t.Fatalf("UpdateSpecs() error = %v", err)
	}
	if got := leafKeys(t, g); !slices.Equal(got, []column.Key{"a", "c"}) {
		t.Errorf("leaves = %v, want [a c]", got)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	g := newGrid(t, fixed("a", "b"), grid.WithStore(mem))
	if _, err := g.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if _, err := g.SetVisible(ctx, "a", false); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}

	if err := g.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if mem.Len() != 0 || g.Result() != nil {
		t.Error("Reset() should clear the store and the last result")
	}
	if _, err := g.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got := leafKeys(t, g); !slices.Equal(got, []column.Key{"a", "b"}) {
		t.Errorf("leaves after reset = %v, want [a b]", got)
	}
}

func TestWithState(t *testing.T) {
	ctx := context.Background()
	first := newGrid(t, fixed("a", "b"))
	if _, err := first.SetVisible(ctx, "a", false); err == nil {
		t.Fatal("SetVisible() before layout should fail")
	}
	if _, err := first.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if _, err := first.SetVisible(ctx, "a", false); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}

	second := newGrid(t, fixed("a", "b"), grid.WithState(first.State()))
	if _, err := second.Layout(ctx, 200); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got := leafKeys(t, second); !slices.Equal(got, []column.Key{"b"}) {
		t.Errorf("leaves = %v, want [b]", got)
	}
}
