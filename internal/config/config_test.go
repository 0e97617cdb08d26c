package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, ModeConsole, cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Test123!", cfg.SupplierKey)
	assert.Equal(t, 10, cfg.FloatPerDenomination)
	assert.Equal(t, "@every 1h", cfg.AuditSchedule)
	assert.True(t, cfg.AuditOnStart)
	assert.False(t, cfg.DevMode)

	require.Len(t, cfg.AcceptedCash, 6)
	assert.Equal(t, "2", cfg.AcceptedCash[0].String())
	assert.Equal(t, "0.05", cfg.AcceptedCash[5].String())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("VENDING_MODE", "http")
	t.Setenv("VENDING_PORT", "9090")
	t.Setenv("VENDING_SUPPLIER_KEY", "s3cret!!")
	t.Setenv("VENDING_ACCEPTED_CASH", "1, 0.5")
	t.Setenv("VENDING_FLOAT_PER_DENOMINATION", "3")
	t.Setenv("VENDING_AUDIT_SCHEDULE", "0 */5 * * * *")
	t.Setenv("VENDING_AUDIT_ON_START", "false")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, ModeHTTP, cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret!!", cfg.SupplierKey)
	assert.Equal(t, 3, cfg.FloatPerDenomination)
	assert.Equal(t, "0 */5 * * * *", cfg.AuditSchedule)
	assert.False(t, cfg.AuditOnStart)
	assert.True(t, cfg.DevMode)
	require.Len(t, cfg.AcceptedCash, 2)
	assert.Equal(t, "0.5", cfg.AcceptedCash[1].String())
}

func TestLoad_EmptyAuditScheduleDisablesJob(t *testing.T) {
	t.Setenv("VENDING_AUDIT_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.AuditSchedule)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("VENDING_PORT", "eighty")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		contains string
	}{
		{name: "unknown mode", key: "VENDING_MODE", value: "gui", contains: "invalid VENDING_MODE"},
		{name: "zero port", key: "VENDING_PORT", value: "0", contains: "invalid VENDING_PORT"},
		{name: "negative port", key: "VENDING_PORT", value: "-1", contains: "invalid VENDING_PORT"},
		{name: "unparsable cash", key: "VENDING_ACCEPTED_CASH", value: "2,one", contains: "failed to parse VENDING_ACCEPTED_CASH"},
		{name: "no cash", key: "VENDING_ACCEPTED_CASH", value: " , ", contains: "at least one denomination"},
		{name: "negative float", key: "VENDING_FLOAT_PER_DENOMINATION", value: "-4", contains: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
