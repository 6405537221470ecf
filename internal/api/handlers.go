package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/colgrid/pkg/buildinfo"
	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/export"
	"github.com/matzehuels/colgrid/pkg/gesture"
	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/layout"
	"github.com/matzehuels/colgrid/pkg/store"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type layoutRequest struct {
	Columns []column.Spec `json:"columns"`
	Width   float64       `json:"width"`
}

type layoutResponse struct {
	*layout.Result
	GridID  string `json:"gridId"`
	Skipped bool   `json:"skipped,omitempty"`
}

type resizeRequest struct {
	Keys      []column.Key `json:"keys"`
	Neighbors []column.Key `json:"neighbors,omitempty"`
	MinWidth  float64      `json:"minWidth,omitempty"`
}

type deltaRequest struct {
	Delta float64 `json:"delta"`
}

type reorderRequest struct {
	Key column.Key `json:"key"`
}

type overRequest struct {
	Over column.Key `json:"over"`
}

type visibilityRequest struct {
	Key     column.Key `json:"key"`
	Visible bool       `json:"visible"`
}

type sessionResponse struct {
	Session string       `json:"session"`
	Keys    []column.Key `json:"keys,omitempty"`
	Widths  []float64    `json:"widths,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Grids
// =============================================================================

func gridKey(r *http.Request) string {
	return store.Key(chi.URLParam(r, "id"), r.Header.Get(ScopeHeader))
}

// lookupGrid returns the grid of the request, or NOT_FOUND when it was never laid
// out by this server.
func (s *Server) lookupGrid(r *http.Request) (*grid.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[gridKey(r)]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "grid %q has not been laid out", chi.URLParam(r, "id"))
	}
	return g, nil
}

// openGrid returns the grid of the request, creating it from specs and any
// saved state on first use.
func (s *Server) openGrid(ctx context.Context, r *http.Request, specs []column.Spec) (*grid.Grid, bool, error) {
	key := gridKey(r)
	s.mu.Lock()
	g, ok := s.grids[key]
	s.mu.Unlock()
	if ok {
		return g, false, nil
	}

	g, err := grid.New(chi.URLParam(r, "id"), specs,
		grid.WithStore(s.cfg.Store),
		grid.WithScope(r.Header.Get(ScopeHeader)),
		grid.WithTTL(s.cfg.StateTTL),
		grid.WithLogger(s.logger),
		grid.WithLayoutOptions(s.cfg.LayoutOptions...),
		grid.WithResizeMinWidth(s.cfg.ResizeMinWidth),
	)
	if err != nil {
		return nil, false, err
	}
	if _, err := g.Load(ctx); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.grids[key]; ok {
		return existing, false, nil
	}
	s.grids[key] = g
	return g, true, nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	width := req.Width
	if width == 0 {
		width = s.cfg.ContainerWidth
	}

	ctx := r.Context()
	g, created, err := s.openGrid(ctx, r, req.Columns)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !created && req.Columns != nil {
		if _, err := g.UpdateSpecs(ctx, req.Columns); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	res, ran, err := g.Relayout(ctx, width)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Result: res, GridID: g.ID(), Skipped: !ran})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if g, err := s.lookupGrid(r); err == nil {
		writeJSON(w, http.StatusOK, store.Snapshot{GridID: g.ID(), State: g.State()})
		return
	}

	snap, err := store.Load(r.Context(), s.cfg.Store, gridKey(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if snap == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no saved state for grid %q", chi.URLParam(r, "id")))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if g, err := s.lookupGrid(r); err == nil {
		if err := g.Reset(ctx); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.mu.Lock()
		delete(s.grids, gridKey(r))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := store.Remove(ctx, s.cfg.Store, gridKey(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := g.SetVisible(r.Context(), req.Key, req.Visible)
	s.writeResult(w, r, g, res, err)
}

func (s *Server) handleAutoFill(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := g.AutoFill(r.Context())
	s.writeResult(w, r, g, res, err)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := g.Result()
	if res == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "grid %q has no layout", g.ID()))
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+g.ID()+".xlsx")
		if err := export.WriteXLSX(w, res, nil); err != nil {
			s.logger.Error("export xlsx", "grid", g.ID(), "error", err)
		}
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(export.TreeDOT(g.State())))
	case "svg":
		svg, err := export.RenderSVG(export.TreeDOT(g.State()))
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render tree"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format))
	}
}

func (s *Server) handleBeginResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var opts []gesture.ResizeOption
	if len(req.Neighbors) > 0 {
		opts = append(opts, gesture.WithNeighbors(req.Neighbors...))
	}
	if req.MinWidth > 0 {
		opts = append(opts, gesture.WithMinWidth(req.MinWidth))
	}
	rs, err := g.BeginResize(r.Context(), req.Keys, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.register(&session{gridKey: gridKey(r), kind: grid.KindResize, resize: rs})
	writeJSON(w, http.StatusCreated, sessionResponse{Session: id, Keys: rs.Keys()})
}

func (s *Server) handleResizeDelta(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.lookupSession(r, grid.KindResize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	widths := sess.resize.Apply(req.Delta)
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess.id, Keys: sess.resize.Keys(), Widths: widths})
}

func (s *Server) handleResizeCommit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r, grid.KindResize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.release(sess)
	res, err := sess.resize.Commit(r.Context())
	s.writeResult(w, r, g, res, err)
}

func (s *Server) handleBeginReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ro, err := g.BeginReorder(r.Context(), req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.register(&session{gridKey: gridKey(r), kind: grid.KindReorder, reorder: ro})
	writeJSON(w, http.StatusCreated, sessionResponse{Session: id, Keys: []column.Key{ro.Dragged()}})
}

func (s *Server) handleReorderPreview(w http.ResponseWriter, r *http.Request) {
	var req overRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.lookupSession(r, grid.KindReorder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	keys := sess.reorder.Preview(req.Over)
	if keys == nil {
		keys = []column.Key{}
	}
	writeJSON(w, http.StatusOK, map[string][]column.Key{"keys": keys})
}

func (s *Server) handleReorderCommit(w http.ResponseWriter, r *http.Request) {
	var req overRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.lookupSession(r, grid.KindReorder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.lookupGrid(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sess.reorder.Commit(r.Context(), req.Over)
	if errors.Is(err, errors.ErrCodeKeyNotFound) {
		// The session stays open for another drop target.
		s.writeError(w, r, err)
		return
	}
	s.release(sess)
	s.writeResult(w, r, g, res, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.release(sess)
	sess.cancel(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Encoding
// =============================================================================

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, g *grid.Grid, res *layout.Result, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Result: res, GridID: g.ID()})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWidth, errors.ErrCodeInvalidDistribution,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGridID, errors.ErrCodeDuplicateKey:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeKeyNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionClosed, errors.ErrCodeGestureActive:
		return http.StatusConflict
	case errors.ErrCodeStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
