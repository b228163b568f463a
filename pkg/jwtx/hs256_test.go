package jwtx_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "https://sso.example.com"
	testSecret = "a-shared-secret-that-is-long-enough"
)

func newSignerAndVerifier(t *testing.T, opts jwtx.VerifyOptions) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHS256([]byte(testSecret), opts)
	require.NoError(t, err)

	return signer, verifier
}

func TestHS256_SignAndVerify(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerAndVerifier(t, jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: []string{"app"},
	})
	require.Equal(t, "HS256", signer.Alg())

	claims := jwtx.NewAssertionClaims(testIssuer, "app", "alice", time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
	require.Equal(t, jwt.ClaimStrings{"app"}, got.Audience)
	require.Equal(t, claims.ID, got.ID)
}

func TestHS256_AudienceEncoding(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerAndVerifier(t, jwtx.VerifyOptions{Audience: []string{"app"}})

	payload := func(claims jwtx.Claims) map[string]any {
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		raw, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.Unmarshal(raw, &out))
		return out
	}

	single := payload(jwtx.NewAssertionClaims(testIssuer, "app", "alice", time.Minute, time.Now()))
	require.Equal(t, "app", single["aud"])
	require.Equal(t, "alice", single["sub"])
	require.Equal(t, testIssuer, single["iss"])
	require.Contains(t, single, "exp")
	require.Contains(t, single, "jti")

	multi := jwtx.NewAssertionClaims(testIssuer, "app", "alice", time.Minute, time.Now())
	multi.Audience = jwt.ClaimStrings{"app", "admin"}
	require.Equal(t, []any{"app", "admin"}, payload(multi)["aud"])
}

func TestHS256_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256(nil)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256([]byte{}, jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256_VerifyRejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	signer, _ := newSignerAndVerifier(t, jwtx.VerifyOptions{})
	valid, err := signer.Sign(jwtx.NewAssertionClaims(testIssuer, "app", "alice", time.Minute, now))
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewVerifierHS256([]byte("another-secret"), jwtx.VerifyOptions{})
		require.NoError(t, err)

		_, err = other.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{Issuer: "https://other.example.com"})
		_, err := v.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{Audience: []string{"admin"}})
		_, err := v.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("expired", func(t *testing.T) {
		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{
			Now: func() time.Time { return now.Add(2 * time.Minute) },
		})
		_, err := v.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired within leeway", func(t *testing.T) {
		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{
			Leeway: 5 * time.Minute,
			Now:    func() time.Time { return now.Add(2 * time.Minute) },
		})
		_, err := v.Verify(valid)
		require.NoError(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := jwtx.NewAssertionClaims(testIssuer, "app", "alice", time.Minute, now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{})
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("malformed", func(t *testing.T) {
		_, v := newSignerAndVerifier(t, jwtx.VerifyOptions{})
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
