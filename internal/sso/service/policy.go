package service

import "github.com/aussiebroadwan/bartab-sso/internal/sso/domain"

// PolicyGuard answers allow-list questions against the loaded settings. It
// holds no state of its own and is safe for concurrent use.
type PolicyGuard struct {
	Settings *domain.Settings
}

func (g *PolicyGuard) CallbackURLAllowed(url string) bool {
	return g.Settings.IsValidCallbackURL(url)
}

func (g *PolicyGuard) AudienceAllowed(aud string) bool {
	return g.Settings.IsValidAudience(aud)
}

func (g *PolicyGuard) OriginAllowed(origin string) bool {
	return g.Settings.IsValidOrigin(origin)
}

// CheckCallbackURL returns ErrCallbackNotAllowed unless url is allow-listed.
func (g *PolicyGuard) CheckCallbackURL(url string) error {
	if !g.CallbackURLAllowed(url) {
		return ErrCallbackNotAllowed
	}
	return nil
}

// CheckTokenRequest validates the audience and then the origin of a token
// request.
func (g *PolicyGuard) CheckTokenRequest(aud, origin string) error {
	if !g.AudienceAllowed(aud) {
		return ErrAudienceNotAllowed
	}
	if !g.OriginAllowed(origin) {
		return ErrOriginNotAllowed
	}
	return nil
}
