// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/money"
)

// Front end modes
const (
	ModeConsole = "console"
	ModeHTTP    = "http"
)

// DefaultAcceptedCash is the accepted denomination list when none is configured
const DefaultAcceptedCash = "2,1,0.5,0.2,0.1,0.05"

// Config holds application configuration
type Config struct {
	LogLevel             string
	LogPretty            bool
	Mode                 string // console or http
	Port                 int
	SupplierKey          string
	AcceptedCash         []decimal.Decimal
	FloatPerDenomination int    // units of every accepted denomination in the initial float
	AuditSchedule        string // cron spec, empty disables the audit job
	AuditOnStart         bool   // audit once right after startup
	DevMode              bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	accepted, err := money.ParseList(getEnv("VENDING_ACCEPTED_CASH", DefaultAcceptedCash))
	if err != nil {
		return nil, fmt.Errorf("failed to parse VENDING_ACCEPTED_CASH: %w", err)
	}

	cfg := &Config{
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", true),
		Mode:                 getEnv("VENDING_MODE", ModeConsole),
		Port:                 getEnvAsInt("VENDING_PORT", 8080),
		SupplierKey:          getEnv("VENDING_SUPPLIER_KEY", "Test123!"),
		AcceptedCash:         accepted,
		FloatPerDenomination: getEnvAsInt("VENDING_FLOAT_PER_DENOMINATION", 10),
		AuditSchedule:        os.Getenv("VENDING_AUDIT_SCHEDULE"),
		AuditOnStart:         getEnvAsBool("VENDING_AUDIT_ON_START", true),
		DevMode:              getEnvAsBool("DEV_MODE", false),
	}
	if _, set := os.LookupEnv("VENDING_AUDIT_SCHEDULE"); !set {
		cfg.AuditSchedule = "@every 1h"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Mode != ModeConsole && c.Mode != ModeHTTP {
		return fmt.Errorf("invalid VENDING_MODE %q: expected %s or %s", c.Mode, ModeConsole, ModeHTTP)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid VENDING_PORT %d: must be positive", c.Port)
	}
	if len(c.AcceptedCash) == 0 {
		return fmt.Errorf("VENDING_ACCEPTED_CASH must list at least one denomination")
	}
	if c.FloatPerDenomination < 0 {
		return fmt.Errorf("invalid VENDING_FLOAT_PER_DENOMINATION %d: must not be negative", c.FloatPerDenomination)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
