package http

import (
	"net/http"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
)

// IframeHandler serves the postMessage bridge that embedding applications
// load in a hidden iframe to obtain tokens.
func IframeHandler(settings *domain.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "iframe.html", iframePage{
			ServiceName:  settings.ServiceName,
			ValidOrigins: settings.ValidOrigins,
		})
	}
}
