package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read for API token signing.
const (
	EnvJWTSecret          = "JWT_SECRET"
	EnvJWTExpirationHours = "JWT_EXPIRATION_HOURS"

	DefaultJWTExpirationHours = 24
)

// ErrJWTSecretMissing is returned when a token must be signed but no secret is set.
var ErrJWTSecretMissing = errors.New("JWT_SECRET is required but not set")

// JWTConfig holds the signing secret and lifetime of session tokens
// accepted by the HTTP API.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// Expiration returns the default token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// Validate checks the secret and lifetime.
func (c *JWTConfig) Validate() error {
	if strings.TrimSpace(c.Secret) == "" {
		return ErrJWTSecretMissing
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("%s must be at least 1 hour, got: %d", EnvJWTExpirationHours, c.ExpirationHours)
	}
	return nil
}

// NewJWTConfig reads the token config for commands that mint tokens, where
// a secret is mandatory.
func NewJWTConfig() (*JWTConfig, error) {
	cfg, err := jwtConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrJWTSecretMissing
	}
	return cfg, nil
}

// OptionalJWTConfig reads the token config for the API server. It returns
// nil, nil when JWT_SECRET is unset, which leaves the API unauthenticated.
func OptionalJWTConfig() (*JWTConfig, error) {
	return jwtConfigFromEnv()
}

func jwtConfigFromEnv() (*JWTConfig, error) {
	secret := strings.TrimSpace(os.Getenv(EnvJWTSecret))
	if secret == "" {
		return nil, nil
	}

	cfg := &JWTConfig{Secret: secret, ExpirationHours: DefaultJWTExpirationHours}
	if v := strings.TrimSpace(os.Getenv(EnvJWTExpirationHours)); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvJWTExpirationHours, v, err)
		}
		cfg.ExpirationHours = hours
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
