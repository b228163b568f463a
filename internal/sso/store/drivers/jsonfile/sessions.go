package jsonfile

import (
	"context"
	"maps"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
)

type sessionsRepo struct {
	s *Store
}

func (r *sessionsRepo) ListSessions(ctx context.Context) (map[string]domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadSessions(); err != nil {
		return nil, err
	}
	return maps.Clone(r.s.sessions), nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, sess domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadSessions(); err != nil {
		return err
	}
	if _, ok := r.s.sessions[sess.ID]; ok {
		return store.ErrAlreadyExists
	}

	next := maps.Clone(r.s.sessions)
	next[sess.ID] = sess
	return r.commit(next)
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadSessions(); err != nil {
		return err
	}
	if _, ok := r.s.sessions[id]; !ok {
		return nil
	}

	next := maps.Clone(r.s.sessions)
	delete(next, id)
	return r.commit(next)
}

func (r *sessionsRepo) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadSessions(); err != nil {
		return 0, err
	}

	next := maps.Clone(r.s.sessions)
	maps.DeleteFunc(next, func(_ string, sess domain.Session) bool {
		return !sess.CreatedAt.After(cutoff)
	})

	removed := len(r.s.sessions) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := r.commit(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// commit writes next to disk and only then makes it the current view. Must
// be called with mu held.
func (r *sessionsRepo) commit(next map[string]domain.Session) error {
	if err := r.s.writeDocument(SessionsFile, next); err != nil {
		return err
	}
	r.s.sessions = next
	return nil
}
