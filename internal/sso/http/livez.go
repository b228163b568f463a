package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/authsdk"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
)

// LivezHandler is the liveness probe. It always returns 200 OK while the
// process is serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
