package domain

import (
	"slices"
	"time"
)

// Settings is the service configuration document. It is loaded once at
// startup and shared read-only by every component.
type Settings struct {
	ServiceName       string   `json:"serviceName"`
	SSOURL            string   `json:"ssoUrl"`
	ValidOrigins      []string `json:"validOrigins"`
	ValidCallbackURLs []string `json:"validCallbackUrls"`
	ValidAudiences    []string `json:"validAuds"`
	SessionLength     int64    `json:"sessionLength"`  // seconds
	TokenExpiresIn    int64    `json:"tokenExpiresIn"` // seconds
	Secret            string   `json:"secret"`
}

func (s *Settings) SessionDuration() time.Duration {
	return time.Duration(s.SessionLength) * time.Second
}

func (s *Settings) TokenDuration() time.Duration {
	return time.Duration(s.TokenExpiresIn) * time.Second
}

// IsValidOrigin, IsValidCallbackURL and IsValidAudience do exact,
// case-sensitive membership checks. An empty list allows nothing.

func (s *Settings) IsValidOrigin(origin string) bool {
	return origin != "" && slices.Contains(s.ValidOrigins, origin)
}

func (s *Settings) IsValidCallbackURL(url string) bool {
	return url != "" && slices.Contains(s.ValidCallbackURLs, url)
}

func (s *Settings) IsValidAudience(aud string) bool {
	return aud != "" && slices.Contains(s.ValidAudiences, aud)
}
