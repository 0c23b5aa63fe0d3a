package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"trustgigs"`
	Password string `env:"PASSWORD" envDefault:"trustgigs"`
	Name     string `env:"NAME"     envDefault:"trustgigs"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the service applies migrations
	// during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for event fan-out.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	// Enabled toggles the Redis event publisher. The ledger is fully
	// functional without it; observers fall back to polling the event feed.
	Enabled bool `env:"ENABLED" envDefault:"true"`
}
