package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/grid"
)

// session is an open gesture handed out to a client.
type session struct {
	id      string
	gridKey string
	kind    string
	resize  *grid.ResizeSession
	reorder *grid.ReorderSession
	expires time.Time
}

func (s *session) cancel(ctx context.Context) {
	switch {
	case s.resize != nil:
		_ = s.resize.Cancel(ctx)
	case s.reorder != nil:
		_ = s.reorder.Cancel(ctx)
	}
}

// register stores sess under a fresh UUID.
func (s *Server) register(sess *session) string {
	sess.id = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.expires = s.now().Add(s.cfg.SessionTTL)
	s.sessions[sess.id] = sess
	return sess.id
}

// lookupSession returns the open session named in the URL. It must belong to the
// request's grid and be of kind, or of any kind when kind is empty.
func (s *Server) lookupSession(r *http.Request, kind string) (*session, error) {
	s.sweep(r.Context())

	id := chi.URLParam(r, "session")
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.gridKey != gridKey(r) || (kind != "" && sess.kind != kind) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no open session %q", id)
	}
	sess.expires = s.now().Add(s.cfg.SessionTTL)
	return sess, nil
}

// release forgets a session after it committed or was cancelled.
func (s *Server) release(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
}

// sweep cancels sessions left open past their expiry, which releases the
// gesture lock of their grids.
func (s *Server) sweep(ctx context.Context) {
	now := s.now()
	var expired []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.expires) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.logger.Debug("session expired", "session", sess.id, "gesture", sess.kind)
		sess.cancel(ctx)
	}
}
