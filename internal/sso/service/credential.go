package service

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/cryptox"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
	"golang.org/x/sync/semaphore"
)

// dummyCredential is verified against when the username is unknown so the
// response takes as long as for a real user.
var dummyCredential = cryptox.PasswordRecord{
	Salt:       strings.Repeat("00", cryptox.PasswordSaltLength),
	Hash:       strings.Repeat("00", cryptox.PasswordKeyLength),
	Iterations: cryptox.PasswordIterations,
}

// CredentialService verifies passwords against the credential store and
// manages credential records for offline provisioning.
type CredentialService struct {
	Store   store.Store
	Metrics *observability.Metrics

	// sem bounds how many PBKDF2 derivations run at once.
	sem *semaphore.Weighted
}

// NewCredentialService creates a credential service allowing up to workers
// concurrent derivations. If workers is 0 or negative, GOMAXPROCS is used.
func NewCredentialService(st store.Store, workers int, metrics *observability.Metrics) *CredentialService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CredentialService{
		Store:   st,
		Metrics: metrics,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// Authenticate reports whether password is correct for username. An unknown
// user or a wrong password both yield false with a nil error; the error is
// reserved for cancellation and storage failures.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	record := dummyCredential
	known := false

	cred, err := s.Store.Credentials().GetCredential(ctx, username)
	switch {
	case err == nil:
		record = cred.PasswordRecord
		known = true
	case errors.Is(err, store.ErrNotFound):
	default:
		return false, persistenceError("get credential", err)
	}

	err = s.verify(ctx, password, record)
	switch {
	case err == nil:
		return known, nil
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return false, nil
	case errors.Is(err, cryptox.ErrInvalidPasswordRecord):
		l.Error("stored credential is unusable", slog.String("username", username), slog.Any("error", err))
		return false, nil
	default:
		return false, err
	}
}

func (s *CredentialService) verify(ctx context.Context, password string, record cryptox.PasswordRecord) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	start := time.Now()
	err := cryptox.VerifyPassword(password, record)
	s.Metrics.ObserveHashDuration(time.Since(start))
	return err
}

// SetPassword hashes password and stores it for username, replacing any
// existing record.
func (s *CredentialService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	if password == "" {
		return errors.New("password is required")
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	record, err := cryptox.HashPassword(password)
	s.sem.Release(1)
	if err != nil {
		return err
	}

	if err := s.Store.Credentials().PutCredential(ctx, domain.Credential{
		Username:       username,
		PasswordRecord: record,
	}); err != nil {
		return persistenceError("put credential", err)
	}
	return nil
}

// RemoveUser deletes the credential for username. Returns store.ErrNotFound
// if there is none.
func (s *CredentialService) RemoveUser(ctx context.Context, username string) error {
	err := s.Store.Credentials().DeleteCredential(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return persistenceError("delete credential", err)
	}
	return err
}

// ListUsers returns every known username in ascending order.
func (s *CredentialService) ListUsers(ctx context.Context) ([]string, error) {
	names, err := s.Store.Credentials().ListUsernames(ctx)
	if err != nil {
		return nil, persistenceError("list credentials", err)
	}
	return names, nil
}
