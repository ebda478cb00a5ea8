package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "scrow"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	Ledger LedgerConfig
	Redis  RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Ledger.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCROW_APP_ENV" default:"dev"`
	Port         string `envconfig:"SCROW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SCROW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCROW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LedgerConfig points the client at the JSON-RPC provider fronting the ledger.
type LedgerConfig struct {
	ProviderURL    string        `envconfig:"SCROW_LEDGER_PROVIDER_URL" required:"true"`
	ContractAddr   string        `envconfig:"SCROW_LEDGER_CONTRACT_ADDRESS" required:"true"`
	ReadTimeout    time.Duration `envconfig:"SCROW_LEDGER_READ_TIMEOUT" default:"10s"`
	ConfirmTimeout time.Duration `envconfig:"SCROW_LEDGER_CONFIRM_TIMEOUT" default:"2m"`
	ConfirmPoll    time.Duration `envconfig:"SCROW_LEDGER_CONFIRM_POLL" default:"2s"`
}

func (l *LedgerConfig) validate() error {
	if strings.TrimSpace(l.ProviderURL) == "" {
		return fmt.Errorf("SCROW_LEDGER_PROVIDER_URL is required")
	}
	if strings.TrimSpace(l.ContractAddr) == "" {
		return fmt.Errorf("SCROW_LEDGER_CONTRACT_ADDRESS is required")
	}
	if l.ReadTimeout <= 0 {
		return fmt.Errorf("ledger read timeout must be positive")
	}
	if l.ConfirmTimeout <= 0 {
		return fmt.Errorf("ledger confirm timeout must be positive")
	}
	if l.ConfirmPoll <= 0 {
		return fmt.Errorf("ledger confirm poll interval must be positive")
	}
	return nil
}

// RedisConfig backs the optional idempotency store. Leave URL and Address
// empty to run without one.
type RedisConfig struct {
	URL          string        `envconfig:"SCROW_REDIS_URL"`
	Address      string        `envconfig:"SCROW_REDIS_ADDR"`
	Password     string        `envconfig:"SCROW_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCROW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCROW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCROW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCROW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCROW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCROW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}
