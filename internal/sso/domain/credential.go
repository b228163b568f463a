package domain

import "github.com/aussiebroadwan/bartab-sso/pkg/cryptox"

// Credential is the stored password record for a username. Salt and Hash are
// hex encoded; see cryptox.PasswordRecord for the derivation parameters.
type Credential struct {
	Username string `json:"-"`
	cryptox.PasswordRecord
}
