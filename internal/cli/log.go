// Package cli implements the colgrid command-line interface.
//
// This package provides commands for laying out grid columns from a column
// file, applying resizes, reorders and visibility changes to the saved column
// state, previewing and exporting the header, and serving the HTTP API. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute leaf widths, sticky offsets and header rows
//   - resize, reorder, visible, autofill: Apply one user edit to the state
//   - header: Preview the grouped header in the terminal
//   - export: Write the header to XLSX, or the column tree to DOT or SVG
//   - state: Inspect or clear saved state
//   - serve: Run the HTTP API
//   - tui: Edit a grid interactively
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs layout, gesture and store events.
//
// # Example
//
//	import "github.com/matzehuels/colgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colgrid/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Laid out 12 columns (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Logging Hooks
// =============================================================================

// logHooks reports engine events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetGestureHooks(h)
	observability.SetStoreHooks(h)
}

func (h *logHooks) OnLayoutStart(_ context.Context, gridID string, width float64) {
	h.logger.Debug("layout start", "grid", gridID, "width", width)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, gridID string, leaves int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "grid", gridID, "error", err)
		return
	}
	h.logger.Debug("layout complete", "grid", gridID, "leaves", leaves, "duration", dur)
}

func (h *logHooks) OnLayoutSkipped(_ context.Context, gridID string, width float64) {
	h.logger.Debug("layout skipped", "grid", gridID, "width", width)
}

func (h *logHooks) OnWarning(context.Context, string, string, string) {}

func (h *logHooks) OnGestureStart(_ context.Context, gridID, kind string) {
	h.logger.Debug("gesture start", "grid", gridID, "gesture", kind)
}

func (h *logHooks) OnGestureCommit(_ context.Context, gridID, kind string, dur time.Duration) {
	h.logger.Debug("gesture commit", "grid", gridID, "gesture", kind, "duration", dur)
}

func (h *logHooks) OnGestureCancel(_ context.Context, gridID, kind string) {
	h.logger.Debug("gesture cancel", "grid", gridID, "gesture", kind)
}

func (h *logHooks) OnStoreHit(_ context.Context, backend string) {
	h.logger.Debug("store hit", "backend", backend)
}

func (h *logHooks) OnStoreMiss(_ context.Context, backend string) {
	h.logger.Debug("store miss", "backend", backend)
}

func (h *logHooks) OnStoreSet(_ context.Context, backend string, size int) {
	h.logger.Debug("store set", "backend", backend, "bytes", size)
}

func (h *logHooks) OnStoreError(_ context.Context, backend, op string, err error) {
	h.logger.Debug("store error", "backend", backend, "op", op, "error", err)
}
