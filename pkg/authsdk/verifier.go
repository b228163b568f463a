package authsdk

import (
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
)

// Verifier checks tokens minted by the SSO service on behalf of a downstream
// application. It shares the service's HMAC secret.
type Verifier struct {
	inner *jwtx.HS256Verifier
}

// Identity is what a verified token says about its holder.
type Identity struct {
	Username  string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// NewVerifier creates a verifier that accepts tokens issued by issuer (the
// service's ssoUrl) for audience.
func NewVerifier(secret []byte, issuer, audience string) (*Verifier, error) {
	v, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Issuer:   issuer,
		Audience: []string{audience},
		Leeway:   30 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Verifier{inner: v}, nil
}

// Verify validates the token and returns the identity it carries.
func (v *Verifier) Verify(token string) (*Identity, error) {
	claims, err := v.inner.Verify(token)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		Username: claims.Subject,
		Audience: claims.Audience,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
