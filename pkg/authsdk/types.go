package authsdk

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains the status of individual dependencies (readyz only)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Store indicates the credential and session storage status
	Store string `json:"store"`

	// Signer indicates the token signing capability status
	Signer string `json:"signer"`
}

// LoginResult describes the outcome of a form login.
type LoginResult struct {
	// SessionID is the value of the session cookie, empty on failure.
	SessionID string

	// Location is the redirect target returned by the service.
	Location string
}
