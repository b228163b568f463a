package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (jsonfile, sqlite)
// implement this and expose sub-repositories per record kind.
type Store interface {
	Credentials() Credentials
	Sessions() Sessions

	// ApplyMigrations prepares the backing storage (schema, data directory).
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the storage is still reachable.
	Ping(ctx context.Context) error
}

type Credentials interface {
	// GetCredential returns the record for username or ErrNotFound.
	GetCredential(ctx context.Context, username string) (domain.Credential, error)

	// PutCredential inserts or replaces the record for c.Username.
	PutCredential(ctx context.Context, c domain.Credential) error

	// DeleteCredential removes a user. Returns ErrNotFound if absent.
	DeleteCredential(ctx context.Context, username string) error

	// ListUsernames returns every username in ascending order.
	ListUsernames(ctx context.Context) ([]string, error)
}

type Sessions interface {
	// ListSessions returns every stored session keyed by id, expired ones included.
	ListSessions(ctx context.Context) (map[string]domain.Session, error)

	// CreateSession stores a new session. Returns ErrAlreadyExists on id reuse.
	CreateSession(ctx context.Context, s domain.Session) error

	// DeleteSession removes a session. Deleting an unknown id is not an error.
	DeleteSession(ctx context.Context, id string) error

	// DeleteSessionsCreatedBefore removes every session created at or before
	// cutoff and returns how many were removed.
	DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
