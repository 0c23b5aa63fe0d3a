package config

import "time"

// StoreBackend selects the event store implementation.
type StoreBackend string

const (
	// StoreBackendPostgres persists the event log in PostgreSQL.
	StoreBackendPostgres StoreBackend = "postgres"
	// StoreBackendMemory keeps the event log in memory (dev/test only).
	StoreBackendMemory StoreBackend = "memory"
)

// Valid returns true if the StoreBackend is valid.
func (b StoreBackend) Valid() bool {
	return b == StoreBackendPostgres || b == StoreBackendMemory
}

// LedgerConfig contains event store, fan-out, and sweeper configuration.
type LedgerConfig struct {
	// StoreBackend selects where the event log is persisted.
	StoreBackend StoreBackend `env:"LEDGER_STORE" envDefault:"postgres"`

	// PublishChannel is the Redis pub/sub channel for committed events.
	PublishChannel string `env:"LEDGER_PUBLISH_CHANNEL" envDefault:"ledger:events"`

	// SweepInterval is how often the expiry sweeper runs.
	SweepInterval time.Duration `env:"LEDGER_SWEEP_INTERVAL" envDefault:"30s"`

	// SweepEnabled toggles the expiry sweeper.
	SweepEnabled bool `env:"LEDGER_SWEEP_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to ledger configuration values.
func (l *LedgerConfig) Sanitize() {
	if !l.StoreBackend.Valid() {
		l.StoreBackend = StoreBackendPostgres
	}
	if l.PublishChannel == "" {
		l.PublishChannel = "ledger:events"
	}
	if l.SweepInterval <= 0 {
		l.SweepInterval = 30 * time.Second
	}
}
