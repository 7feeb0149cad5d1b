package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// Empty means every user's opening position is zero.
	BaselineFile string `env:"BASELINE_FILE"`

	// 0 requires an exact match.
	Tolerance         decimal.Decimal `env:"RECONCILE_TOLERANCE" envDefault:"0.01"`
	Concurrency       int             `env:"RECONCILE_CONCURRENCY" envDefault:"16"`
	RunTimeoutS       int             `env:"RECONCILE_TIMEOUT_S" envDefault:"60"`
	ScheduleInterval  time.Duration   `env:"RECONCILE_INTERVAL" envDefault:"0s"`
	OperatorJWTSecret string          `env:"OPERATOR_JWT_SECRET"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutS) * time.Second
}

func (c *Config) validate() error {
	if c.Tolerance.IsNegative() {
		return fmt.Errorf("RECONCILE_TOLERANCE must not be negative, got %s", c.Tolerance)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("RECONCILE_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if c.RunTimeoutS < 1 {
		return fmt.Errorf("RECONCILE_TIMEOUT_S must be at least 1, got %d", c.RunTimeoutS)
	}
	if c.ScheduleInterval < 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must not be negative, got %s", c.ScheduleInterval)
	}
	return nil
}
