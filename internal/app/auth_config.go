package app

import "github.com/ehomehq/ehome/internal/auth"

// SessionConfig maps the auth section onto auth.Config. The clock is left to
// the auth package.
func (c AuthConfig) SessionConfig() auth.Config {
	return auth.Config{
		Secret: c.JWT.Secret,
		Issuer: c.JWT.Issuer,
		TTL:    c.JWT.TTL,
	}
}
