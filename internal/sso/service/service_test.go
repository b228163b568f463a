package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store/drivers/jsonfile"
	"github.com/aussiebroadwan/bartab-sso/pkg/cryptox"
	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testOrigin   = "https://app.example.com"
	testCallback = "https://app.example.com/"
	testAudience = "app"
	testSSOURL   = "https://sso.example.com"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func testSettings() *domain.Settings {
	return &domain.Settings{
		ServiceName:       "Test SSO",
		SSOURL:            testSSOURL,
		ValidOrigins:      []string{testOrigin},
		ValidCallbackURLs: []string{testCallback},
		ValidAudiences:    []string{testAudience},
		SessionLength:     3600,
		TokenExpiresIn:    300,
		Secret:            testSecret,
	}
}

// clock is a settable time source shared by the services under test.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	dir      string
	settings *domain.Settings
	store    store.Store
	clock    *clock
	metrics  *observability.Metrics

	policy      *PolicyGuard
	credentials *CredentialService
	sessions    *SessionService
	tokens      *TokenService
	login       *LoginService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	st := jsonfile.NewStore(dir)
	require.NoError(t, st.ApplyMigrations())

	record, err := cryptox.HashPassword("correct-horse")
	require.NoError(t, err)
	require.NoError(t, st.Credentials().PutCredential(context.Background(), domain.Credential{
		Username:       "alice",
		PasswordRecord: record,
	}))

	return newTestEnvWithStore(t, dir, st)
}

func newTestEnvWithStore(t *testing.T, dir string, st store.Store) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:      dir,
		settings: testSettings(),
		store:    st,
		clock:    &clock{t: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)},
		metrics:  observability.NewMetrics(),
	}

	env.policy = &PolicyGuard{Settings: env.settings}
	env.credentials = NewCredentialService(st, 2, env.metrics)
	env.sessions = NewSessionService(st, env.settings.SessionDuration(), env.metrics)
	env.sessions.Now = env.clock.Now

	signer, err := jwtx.NewSignerHS256([]byte(env.settings.Secret))
	require.NoError(t, err)

	env.tokens = &TokenService{
		Settings: env.settings,
		Policy:   env.policy,
		Sessions: env.sessions,
		Signer:   signer,
		Metrics:  env.metrics,
		Now:      env.clock.Now,
	}
	env.login = &LoginService{
		Policy:      env.policy,
		Credentials: env.credentials,
		Sessions:    env.sessions,
		Metrics:     env.metrics,
	}
	return env
}

// failingSessions wraps a real repository and fails selected writes.
type failingSessions struct {
	store.Sessions
	failCreate bool
	failDelete bool
}

var errDiskFull = errors.New("disk full")

func (f *failingSessions) CreateSession(ctx context.Context, s domain.Session) error {
	if f.failCreate {
		return errDiskFull
	}
	return f.Sessions.CreateSession(ctx, s)
}

func (f *failingSessions) DeleteSession(ctx context.Context, id string) error {
	if f.failDelete {
		return errDiskFull
	}
	return f.Sessions.DeleteSession(ctx, id)
}

type failingStore struct {
	store.Store
	sessions *failingSessions
	credErr  error
}

func (f *failingStore) Sessions() store.Sessions { return f.sessions }

func (f *failingStore) Credentials() store.Credentials {
	if f.credErr != nil {
		return failingCredentials{Credentials: f.Store.Credentials(), err: f.credErr}
	}
	return f.Store.Credentials()
}

type failingCredentials struct {
	store.Credentials
	err error
}

func (f failingCredentials) GetCredential(context.Context, string) (domain.Credential, error) {
	return domain.Credential{}, f.err
}
