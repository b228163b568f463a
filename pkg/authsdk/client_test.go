package authsdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/authsdk"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newFakeSSO(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("callbackUrl") != "https://app.example.com/" {
			httpx.WriteText(w, http.StatusBadRequest, "callback url not allowed")
			return
		}
		if r.PostForm.Get("password") != "correct-horse" {
			http.Redirect(w, r, "/?error=wrongUsernameOrPassword", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "sess-1", HttpOnly: true})
		http.Redirect(w, r, r.PostForm.Get("callbackUrl"), http.StatusFound)
	})
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil || c.Value != "sess-1" || r.URL.Query().Get("aud") != "app" {
			httpx.WriteStatus(w, http.StatusUnauthorized)
			return
		}
		httpx.WriteText(w, http.StatusOK, "the-token")
	})
	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteText(w, http.StatusOK, "")
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{Status: "ok", Version: "test"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSDKClient_LoginTokenLogout(t *testing.T) {
	srv := newFakeSSO(t)
	client := authsdk.NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	login, err := client.Login(ctx, "alice", "correct-horse", "https://app.example.com/")
	require.NoError(t, err)
	require.Equal(t, "sess-1", login.SessionID)
	require.Equal(t, "https://app.example.com/", login.Location)

	token, err := client.Token(ctx, login.SessionID, "app", "https://app.example.com")
	require.NoError(t, err)
	require.Equal(t, "the-token", token)

	require.NoError(t, client.Logout(ctx, login.SessionID))
}

func TestSDKClient_Errors(t *testing.T) {
	srv := newFakeSSO(t)
	client := authsdk.NewSDKClient(srv.URL)
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		login, err := client.Login(ctx, "alice", "nope", "https://app.example.com/")
		require.ErrorIs(t, err, authsdk.ErrLoginFailed)
		require.Contains(t, login.Location, "wrongUsernameOrPassword")
	})

	t.Run("callback rejected", func(t *testing.T) {
		_, err := client.Login(ctx, "alice", "correct-horse", "https://evil.example.com/")
		require.ErrorIs(t, err, authsdk.ErrCallbackRejected)
	})

	t.Run("token without session", func(t *testing.T) {
		_, err := client.Token(ctx, "", "app", "https://app.example.com")
		require.ErrorIs(t, err, authsdk.ErrUnauthorized)
	})

	t.Run("unexpected status", func(t *testing.T) {
		_, err := client.GetReadiness(ctx)
		var statusErr *authsdk.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})
}

func TestSDKClient_GetLiveness(t *testing.T) {
	srv := newFakeSSO(t)
	client := authsdk.NewSDKClient(srv.URL)

	health, err := client.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
}

func TestVerifier(t *testing.T) {
	secret := []byte("super-secret-value")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)

	now := time.Now()
	token, err := signer.Sign(jwtx.NewAssertionClaims("https://sso.example.com", "app", "alice", time.Minute, now))
	require.NoError(t, err)

	v, err := authsdk.NewVerifier(secret, "https://sso.example.com", "app")
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", id.Username)
	require.Equal(t, []string{"app"}, id.Audience)
	require.NotEmpty(t, id.TokenID)
	require.WithinDuration(t, now.Add(time.Minute), id.ExpiresAt, time.Second)

	other, err := authsdk.NewVerifier(secret, "https://sso.example.com", "other-app")
	require.NoError(t, err)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrAudience)

	_, err = authsdk.NewVerifier(nil, "https://sso.example.com", "app")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}
