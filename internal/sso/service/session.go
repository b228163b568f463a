package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/cryptox"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
	"github.com/google/uuid"
)

// SessionService owns the live session set. Reads are served from an
// in-memory copy that is loaded from the store on first use. Writes go to the
// store first and are applied to the copy only once they succeed, one at a
// time, so the two never disagree after a call returns.
type SessionService struct {
	Store   store.Store
	Length  time.Duration
	Metrics *observability.Metrics
	Now     func() time.Time

	writeMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]domain.Session // nil until loaded
}

// NewSessionService creates a session service whose sessions live for length.
func NewSessionService(st store.Store, length time.Duration, metrics *observability.Metrics) *SessionService {
	return &SessionService{
		Store:   st,
		Length:  length,
		Metrics: metrics,
		Now:     time.Now,
	}
}

func (s *SessionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Load reads the durable session set into memory if it has not been read yet.
func (s *SessionService) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.cache != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil {
		return nil
	}

	sessions, err := s.Store.Sessions().ListSessions(ctx)
	if err != nil {
		return persistenceError("load sessions", err)
	}
	if sessions == nil {
		sessions = make(map[string]domain.Session)
	}
	s.cache = sessions
	return nil
}

// CreateSession starts a session for username and returns it. The identifier
// is a time-ordered UUIDv7.
func (s *SessionService) CreateSession(ctx context.Context, username, ip string) (domain.Session, error) {
	if err := s.Load(ctx); err != nil {
		return domain.Session{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{
		ID:        id.String(),
		Username:  username,
		IP:        ip,
		CreatedAt: s.now().UTC(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err = s.Store.Sessions().CreateSession(ctx, sess)
	s.Metrics.RecordSessionWrite("create", err)
	if err != nil {
		return domain.Session{}, persistenceError("create session", err)
	}

	s.mu.Lock()
	s.cache[sess.ID] = sess
	s.mu.Unlock()

	slogx.FromContext(ctx).Info("session created",
		slog.String("username", username),
		slog.String("session", cryptox.FingerprintToken(sess.ID)),
	)
	return sess, nil
}

// GetSession returns the live session for id. Unknown and expired sessions
// both yield ErrSessionNotFound.
func (s *SessionService) GetSession(ctx context.Context, id string) (domain.Session, error) {
	if err := s.Load(ctx); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	sess, ok := s.cache[id]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.now(), s.Length) {
		return domain.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession ends the session for id. Unknown ids are ignored.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	_, ok := s.cache[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	err := s.Store.Sessions().DeleteSession(ctx, id)
	s.Metrics.RecordSessionWrite("delete", err)
	if err != nil {
		return persistenceError("delete session", err)
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	slogx.FromContext(ctx).Info("session deleted", slog.String("session", cryptox.FingerprintToken(id)))
	return nil
}

// PruneExpired removes every expired session from the store and from memory
// and returns how many the store removed.
func (s *SessionService) PruneExpired(ctx context.Context) (int, error) {
	if err := s.Load(ctx); err != nil {
		return 0, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cutoff := s.now().Add(-s.Length)
	removed, err := s.Store.Sessions().DeleteSessionsCreatedBefore(ctx, cutoff)
	s.Metrics.RecordSessionWrite("prune", err)
	if err != nil {
		return 0, persistenceError("prune sessions", err)
	}

	s.mu.Lock()
	maps.DeleteFunc(s.cache, func(_ string, sess domain.Session) bool {
		return !sess.CreatedAt.After(cutoff)
	})
	s.mu.Unlock()

	s.Metrics.RecordSessionsPruned(removed)
	return removed, nil
}

// ListActive returns the live sessions, oldest first.
func (s *SessionService) ListActive(ctx context.Context) ([]domain.Session, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	now := s.now()

	s.mu.RLock()
	out := make([]domain.Session, 0, len(s.cache))
	for _, sess := range s.cache {
		if !sess.Expired(now, s.Length) {
			out = append(out, sess)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Session) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ActiveCount returns the number of live sessions in memory. It does not
// touch the store and reports 0 before the first load.
func (s *SessionService) ActiveCount() int {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, sess := range s.cache {
		if !sess.Expired(now, s.Length) {
			n++
		}
	}
	return n
}

// isSessionNotFound is a small helper for callers that treat a missing
// session as a normal outcome.
func isSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
