// Package config holds environment-driven configuration for the TrustGigs
// ledger service, loaded with github.com/caarlos0/env. See the individual
// domain config files:
//   - database.go: Postgres and Redis configuration
//   - http.go: HTTP server configuration
//   - ledger.go: event store, fan-out, and sweeper configuration
package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct.
type AppConfig struct {
	// IsDev controls development mode behavior (in-memory store default,
	// optional Redis). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Ledger configuration
	Ledger LedgerConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Ledger.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV. NODE_ENV is a fallback for
// setups shared with frontend tooling.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
