package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// LogoutHandler ends the session named by the cookie and clears the cookie.
type LogoutHandler struct {
	LoginService *service.LoginService
	CookieSecure bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.LoginService.Logout(r.Context(), sessionIDFromRequest(r)); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", slog.Any("error", err))
		httpx.WriteStatus(w, http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w, h.CookieSecure)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
