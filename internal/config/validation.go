package config

import (
	"fmt"
	"log/slog"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// PostgreSQL configuration
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	if c.PostgresPassword == "taskhive_dev_password" {
		slog.Warn("Using default development password for PostgreSQL",
			"warning", "Change postgres_password in config.yaml for production deployments")
	}

	// Modern SSL modes only - exclude deprecated allow/prefer (MITM vulnerable).
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	// Cache TTL: zero disables expiry-based caching, negative is a mistake
	if c.CacheTTLSecs < 0 || c.CacheTTLSecs > 86400 {
		return fmt.Errorf("%w: must be between 0 and 86400 seconds, got %d", ErrInvalidCacheTTL, c.CacheTTLSecs)
	}

	if c.TokenTTLMins < 1 || c.TokenTTLMins > 7*24*60 {
		return fmt.Errorf("%w: must be between 1 minute and 7 days, got %d minutes", ErrInvalidTokenTTL, c.TokenTTLMins)
	}

	if c.RateBurst < 1 || c.RateBurst > 10000 {
		return fmt.Errorf("%w: must be between 1 and 10000, got %d", ErrInvalidRateBurst, c.RateBurst)
	}

	return nil
}

// ValidateServe performs the additional checks required before starting
// the HTTP server. Secrets that only the API needs are validated here so
// the migrate subcommand works without them.
func (c *Config) ValidateServe() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("%w: set the JWT_SECRET environment variable", ErrMissingJWTSecret)
	}

	// HS256 secrets shorter than 32 bytes are brute-forceable.
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("%w: must be at least 32 bytes, got %d", ErrInvalidJWTSecret, len(c.JWTSecret))
	}

	return nil
}
