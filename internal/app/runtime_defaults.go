package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const jwtSecretBytes = 48

// ApplyRuntimeDefaults fills settings the service cannot start without. It
// returns the keys it changed so callers can log them without exposing values.
//
// A missing JWT secret is generated, which invalidates tokens on restart. A
// network cache driver without endpoints falls back to the database tier.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	applied := make(map[string]bool)

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := generateToken(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		applied["auth.jwt.secret"] = true
	}

	var missingEndpoint bool
	switch cfg.Cache.DriverName() {
	case CacheDriverRedis:
		missingEndpoint = strings.TrimSpace(cfg.Cache.Redis.Address) == ""
	case CacheDriverMemcached:
		missingEndpoint = len(cfg.Cache.MemcachedClientConfig().Servers) == 0
	}
	if missingEndpoint {
		cfg.Cache.Driver = CacheDriverDatabase
		applied["cache.driver"] = true
	}

	return applied, nil
}

func generateToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
