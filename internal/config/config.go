// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/currency"
	"github.com/arpithpm/expense-manager-sub001/internal/models"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// DatabaseURL selects the Postgres record store. When empty, records
	// live in memory for the lifetime of the process.
	DatabaseURL string
	// GeminiAPIKey enables the scan command. Parsing and import work
	// without it.
	GeminiAPIKey string
	LogLevel     string

	DefaultCurrency string

	// Tolerances are reasonable defaults, not hard-coded law.
	BreakdownAbsoluteTolerance decimal.Decimal
	BreakdownRelativeTolerance decimal.Decimal
	DuplicateAmountEpsilon     decimal.Decimal

	AllowDuplicateImports bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	cfg.DefaultCurrency = currency.Normalize(os.Getenv("DEFAULT_CURRENCY"))
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = models.DefaultCurrency
	}

	cfg.BreakdownAbsoluteTolerance = decimalEnv("BREAKDOWN_ABSOLUTE_TOLERANCE", decimal.NewFromFloat(0.02))
	cfg.BreakdownRelativeTolerance = decimalEnv("BREAKDOWN_RELATIVE_TOLERANCE", decimal.NewFromFloat(0.01))
	cfg.DuplicateAmountEpsilon = decimalEnv("DUPLICATE_AMOUNT_EPSILON", decimal.NewFromFloat(0.01))

	if v := os.Getenv("ALLOW_DUPLICATE_IMPORTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowDuplicateImports = b
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return fallback
	}
	return d
}

// validate checks that the configuration is internally consistent.
func (c *Config) validate() error {
	var errs []string

	if !currency.IsSupported(c.DefaultCurrency) {
		errs = append(errs, fmt.Sprintf("DEFAULT_CURRENCY %q is not a supported currency", c.DefaultCurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
