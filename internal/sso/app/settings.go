package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
)

// minSecretLength is the shortest HS256 secret accepted without a warning.
const minSecretLength = 32

// LoadSettings reads and validates the settings document at path. Unknown
// fields are rejected so a typo cannot silently disable an allow-list.
func LoadSettings(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes and validates a settings document.
func ParseSettings(data []byte) (*domain.Settings, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var s domain.Settings
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("settings: decode: %w", err)
	}
	if err := ValidateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ValidateSettings checks the fields the service cannot run without.
func ValidateSettings(s *domain.Settings) error {
	var errs []error

	if s.SSOURL == "" {
		errs = append(errs, errors.New("ssoUrl is required"))
	} else if u, err := url.Parse(s.SSOURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ssoUrl %q is not an absolute URL", s.SSOURL))
	}
	if s.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}
	if s.SessionLength <= 0 {
		errs = append(errs, errors.New("sessionLength must be positive"))
	}
	if s.TokenExpiresIn <= 0 {
		errs = append(errs, errors.New("tokenExpiresIn must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// SettingsWarnings lists settings that are valid but almost certainly not
// what the operator wants.
func SettingsWarnings(s *domain.Settings) []string {
	var warnings []string
	if len(s.ValidCallbackURLs) == 0 {
		warnings = append(warnings, "validCallbackUrls is empty, every login will be rejected")
	}
	if len(s.ValidAudiences) == 0 {
		warnings = append(warnings, "validAuds is empty, every token request will be rejected")
	}
	if len(s.ValidOrigins) == 0 {
		warnings = append(warnings, "validOrigins is empty, every token request will be rejected")
	}
	if len(s.Secret) < minSecretLength {
		warnings = append(warnings, fmt.Sprintf("secret is shorter than %d bytes", minSecretLength))
	}
	return warnings
}
