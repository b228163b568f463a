package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// TokenHandler exchanges the session cookie for a signed token.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles GET /token?aud=&origin=. Every refusal is a bare 401 so
// callers cannot tell which check failed.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	token, err := h.TokenService.IssueToken(r.Context(),
		sessionIDFromRequest(r),
		query.Get("aud"),
		query.Get("origin"),
	)
	switch {
	case err == nil:
		httpx.WriteText(w, http.StatusOK, token)

	case errors.Is(err, service.ErrValidationRejected), errors.Is(err, service.ErrSessionNotFound):
		httpx.WriteStatus(w, http.StatusUnauthorized)

	default:
		slogx.FromContext(r.Context()).Error("issue token", slog.Any("error", err))
		httpx.WriteStatus(w, http.StatusInternalServerError)
	}
}
