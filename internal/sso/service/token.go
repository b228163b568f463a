package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// TokenService exchanges live sessions for signed identity assertions.
type TokenService struct {
	Settings *domain.Settings
	Policy   *PolicyGuard
	Sessions *SessionService
	Signer   jwtx.Signer
	Metrics  *observability.Metrics
	Now      func() time.Time
}

// IssueToken returns an HS256 token for the user behind sessionID, addressed
// to audience. The audience and origin must both be allow-listed and the
// session must be live. Issuing a token changes no state.
func (s *TokenService) IssueToken(ctx context.Context, sessionID, audience, origin string) (string, error) {
	l := slogx.FromContext(ctx)

	if err := s.Policy.CheckTokenRequest(audience, origin); err != nil {
		reason := "origin"
		if errors.Is(err, ErrAudienceNotAllowed) {
			reason = "audience"
		}
		s.Metrics.RecordTokenRejected(reason)
		l.Info("token request rejected", slog.String("aud", audience), slog.String("origin", origin), slog.String("reason", reason))
		return "", err
	}

	if sessionID == "" {
		s.Metrics.RecordTokenRejected("session")
		return "", ErrSessionNotFound
	}

	sess, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		if isSessionNotFound(err) {
			s.Metrics.RecordTokenRejected("session")
		}
		return "", err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	claims := jwtx.NewAssertionClaims(s.Settings.SSOURL, audience, sess.Username, s.Settings.TokenDuration(), now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.Metrics.RecordTokenIssued()
	l.Debug("token issued", slog.String("username", sess.Username), slog.String("aud", audience), slog.String("jti", claims.ID))
	return token, nil
}
