package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverJSONFile = "jsonfile"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration, read from the environment. The
// service's own policy (allow-lists, lifetimes, secret) lives in the settings
// document named by SettingsFile.
type Config struct {
	SettingsFile string `env:"SSO_SETTINGS_FILE" envDefault:"settings.json"`  // settings document path
	StoreDriver  string `env:"SSO_STORE_DRIVER"  envDefault:"jsonfile"`       // jsonfile or sqlite
	DataDir      string `env:"SSO_DATA_DIR"      envDefault:"data"`           // jsonfile: holds secrets.json and sessions.json
	DatabaseFile string `env:"SSO_DATABASE_FILE" envDefault:"sso.db"`         // sqlite: database path
	HashWorkers  int    `env:"SSO_HASH_WORKERS"  envDefault:"0"`              // concurrent password derivations, 0 = GOMAXPROCS
	TrustProxy   bool   `env:"SSO_TRUST_PROXY"   envDefault:"false"`          // honour X-Forwarded-For
	CookieSecure bool   `env:"SSO_COOKIE_SECURE" envDefault:"false"`          // set Secure on the session cookie

	Env                  string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                 int           `env:"PORT"                  envDefault:"4000"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverJSONFile, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown SSO_STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverJSONFile, DriverSQLite)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.HashWorkers < 0 {
		return fmt.Errorf("config: SSO_HASH_WORKERS must not be negative")
	}
	return nil
}
