package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:5555", nil, false, "10.0.0.1"},
		{"remote addr without port", "10.0.0.1", nil, false, "10.0.0.1"},
		{"forwarded ignored when untrusted", "10.0.0.1:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.1"},
		{"first forwarded hop", "10.0.0.1:5555", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, true, "1.2.3.4"},
		{"real ip", "10.0.0.1:5555", map[string]string{"X-Real-IP": " 9.9.9.9 "}, true, "9.9.9.9"},
		{"trusted without headers", "[::1]:4000", nil, true, "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.ClientIP(req, tt.trustProxy))
		})
	}
}

func TestWriteText(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteText(rec, http.StatusOK, "token")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "token", rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
