package jwtx

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAssertionTTL is used when no token lifetime is configured.
const DefaultAssertionTTL = 5 * time.Minute

// Claims is the identity assertion handed to downstream applications. It
// carries only registered claims: iss is the SSO URL, aud the requesting
// application and sub the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
}

// NewAssertionClaims builds the claims for a freshly issued assertion.
func NewAssertionClaims(issuer, audience, subject string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultAssertionTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// MarshalJSON writes a single audience as a plain string, the form
// downstream applications compare against, and several as an array.
func (c Claims) MarshalJSON() ([]byte, error) {
	type registered jwt.RegisteredClaims
	out := struct {
		registered
		Audience any `json:"aud,omitempty"`
	}{registered: registered(c.RegisteredClaims)}

	switch len(c.Audience) {
	case 0:
	case 1:
		out.Audience = c.Audience[0]
	default:
		out.Audience = []string(c.Audience)
	}
	return json.Marshal(out)
}

// NewJTI returns a ULID for the "jti" claim.
func NewJTI() string {
	return idx.New().String()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiryWithLeeway checks exp and nbf against now, allowing a small
// grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
