package di

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/vending/internal/config"
	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/money"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	accepted, err := money.ParseList(config.DefaultAcceptedCash)
	require.NoError(t, err)

	return &config.Config{
		Mode:                 config.ModeConsole,
		Port:                 8080,
		SupplierKey:          "Test123!",
		AcceptedCash:         accepted,
		FloatPerDenomination: 10,
		AuditSchedule:        "@every 1h",
		AuditOnStart:         true,
	}
}

func TestWire(t *testing.T) {
	container, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	require.NotNil(t, container.LedgerDB)
	require.NotNil(t, container.Sales)
	require.NotNil(t, container.Machine)
	require.NotNil(t, container.Scheduler)
	require.NotNil(t, container.AuditJob)

	assert.Equal(t, []string{"Coke", "Pepsi", "Water"}, container.Machine.ProductNames())
	assert.Equal(t, "38.5", container.Machine.Audit().Wallet.Total.String())
	assert.NoError(t, container.AuditJob.Run())
}

func TestWire_RecordsSales(t *testing.T) {
	container, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	m := container.Machine
	_, err = m.Select("Coke", 2)
	require.NoError(t, err)
	_, err = m.Pay(money.MustParse("2"), 2)
	require.NoError(t, err)

	summary, err := container.Sales.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sales)
	assert.Equal(t, "3", summary.Revenue.String())
}

func TestWire_InvalidSupplierKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.SupplierKey = "short"

	_, err := Wire(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, machine.ErrValidation))
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuditSchedule = "not a schedule"

	_, err := Wire(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register audit job")
}

func TestWire_AuditDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuditSchedule = ""

	container, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.AuditJob)
}

func TestStartJobs(t *testing.T) {
	container, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	require.NoError(t, StartJobs(container, testConfig(t)))
	defer container.Scheduler.Stop()

	entries := container.Scheduler.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].Name)
	assert.False(t, entries[0].Next.IsZero())
}

func TestStartJobs_StartupAuditFailure(t *testing.T) {
	cfg := testConfig(t)
	container, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, container.LedgerDB.Close())

	err = StartJobs(container, cfg)
	defer container.Scheduler.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run startup audit")

	cfg.AuditOnStart = false
	other, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer other.Close()
	assert.NoError(t, StartJobs(other, cfg))
	other.Scheduler.Stop()
}

func TestInitialFloat(t *testing.T) {
	accepted, err := money.ParseList("1,0.5")
	require.NoError(t, err)

	wallet := InitialFloat(accepted, 3)
	require.Len(t, wallet, 2)
	assert.Equal(t, 3, wallet[1].Amount)
	assert.Equal(t, "0.5", wallet[1].Cash.String())

	assert.Nil(t, InitialFloat(accepted, 0))
}
