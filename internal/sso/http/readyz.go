package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/authsdk"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/jwtx"
)

// ReadyzHandler is the readiness probe. It reports 503 when the store is
// unreachable or no token signer is configured.
func ReadyzHandler(startTime time.Time, version string, st store.Store, signer jwtx.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := &authsdk.HealthChecks{
			Store:  "ok",
			Signer: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(ctx); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if signer == nil {
			checks.Signer = "error: no signer configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
