package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// LoginRequest is a submitted login form plus the caller's address.
type LoginRequest struct {
	Username    string
	Password    string
	CallbackURL string
	IP          string
}

// LoginService moves a browser between the anonymous and authenticated
// states.
type LoginService struct {
	Policy      *PolicyGuard
	Credentials *CredentialService
	Sessions    *SessionService
	Metrics     *observability.Metrics
}

// Login checks the callback URL, then the credentials, and on success starts
// a session. It returns ErrCallbackNotAllowed or ErrAuthenticationFailed for
// the two rejection cases.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	if err := s.Policy.CheckCallbackURL(req.CallbackURL); err != nil {
		s.Metrics.RecordLogin(observability.LoginCallbackRejected)
		l.Info("login rejected", slog.String("callback_url", req.CallbackURL), slog.String("reason", "callback"))
		return domain.Session{}, err
	}

	ok, err := s.Credentials.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.Metrics.RecordLogin(observability.LoginError)
		return domain.Session{}, err
	}
	if !ok {
		s.Metrics.RecordLogin(observability.LoginFailure)
		l.Info("login failed", slog.String("username", req.Username), slog.String("ip", req.IP))
		return domain.Session{}, ErrAuthenticationFailed
	}

	sess, err := s.Sessions.CreateSession(ctx, req.Username, req.IP)
	if err != nil {
		s.Metrics.RecordLogin(observability.LoginError)
		return domain.Session{}, err
	}

	s.Metrics.RecordLogin(observability.LoginSuccess)
	return sess, nil
}

// Logout ends the session if there is one. An empty or unknown id is not an
// error.
func (s *LoginService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.DeleteSession(ctx, sessionID)
}
