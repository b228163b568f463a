package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Session is an authenticated browser session. It is created on a successful
// login, never mutated, and removed on logout or once it expires.
type Session struct {
	ID        string    `json:"-"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"timestamp"`
}

// ExpiresAt returns the instant the session stops being valid for the given
// session length.
func (s Session) ExpiresAt(length time.Duration) time.Time {
	return s.CreatedAt.Add(length)
}

// Expired reports whether the session is no longer valid at now. A session is
// live while now is strictly before CreatedAt+length.
func (s Session) Expired(now time.Time, length time.Duration) bool {
	return !now.Before(s.ExpiresAt(length))
}

// legacyTimestampLayout is the JavaScript Date.prototype.toString format,
// minus the trailing "(Zone Name)" part, written by older session files.
const legacyTimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// UnmarshalJSON accepts RFC 3339 timestamps as well as the legacy format.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw struct {
		Username  string `json:"username"`
		IP        string `json:"ip"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	createdAt, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}

	s.Username = raw.Username
	s.IP = raw.IP
	s.CreatedAt = createdAt
	return nil
}

// ParseTimestamp parses a session timestamp in either RFC 3339 or the legacy
// JavaScript Date string form.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}

	legacy := v
	if i := strings.Index(legacy, " ("); i >= 0 {
		legacy = legacy[:i]
	}
	if t, err := time.Parse(legacyTimestampLayout, legacy); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("domain: unrecognised session timestamp %q", v)
}
