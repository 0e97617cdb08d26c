package scheduler

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/vending/internal/ledger"
	"github.com/aristath/vending/internal/machine"
)

type fakeAuditor struct {
	report machine.AuditReport
}

func (f fakeAuditor) Audit() machine.AuditReport { return f.report }

type fakeSummarizer struct {
	summary ledger.Summary
	err     error
}

func (f fakeSummarizer) Summary() (ledger.Summary, error) { return f.summary, f.err }

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestAuditJob_Run(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	report := machine.AuditReport{
		Wallet:      machine.CashPool{Total: decimal.RequireFromString("8.6")},
		Restock:     []machine.ProductDelta{{Name: "Water", Quantity: 2}, {Name: "Coke", Quantity: 1}},
		AddTotal:    decimal.RequireFromString("0.1"),
		RemoveTotal: decimal.RequireFromString("1"),
		CashToAdd:   []machine.CashCount{{Cash: decimal.RequireFromString("0.1"), Count: 1}},
	}
	sales := fakeSummarizer{summary: ledger.Summary{Sales: 3, Units: 4, Revenue: decimal.RequireFromString("4.2")}}

	job := NewAuditJob(fakeAuditor{report: report}, sales, log)
	assert.Equal(t, "audit", job.Name())
	require.NoError(t, job.Run())

	entry := decodeLine(t, &buf)
	assert.Equal(t, "Machine audit", entry["message"])
	assert.Equal(t, "audit", entry["job"])
	assert.Equal(t, true, entry["needs_updates"])
	assert.Equal(t, "8.6", entry["float"])
	assert.Equal(t, float64(3), entry["restock_units"])
	assert.Equal(t, map[string]any{"Water": float64(2), "Coke": float64(1)}, entry["restock"])
	assert.Equal(t, "0.1", entry["cash_to_add"])
	assert.Equal(t, "1", entry["cash_to_remove"])
	assert.Equal(t, float64(3), entry["sales"])
	assert.Equal(t, "4.2", entry["revenue"])
}

func TestAuditJob_WithoutLedger(t *testing.T) {
	var buf bytes.Buffer
	report := machine.AuditReport{Wallet: machine.CashPool{Total: decimal.RequireFromString("7.7")}}

	require.NoError(t, NewAuditJob(fakeAuditor{report: report}, nil, zerolog.New(&buf)).Run())

	entry := decodeLine(t, &buf)
	assert.Equal(t, false, entry["needs_updates"])
	assert.NotContains(t, entry, "sales")
}

func TestAuditJob_LedgerError(t *testing.T) {
	var buf bytes.Buffer
	sales := fakeSummarizer{err: errors.New("closed")}

	err := NewAuditJob(fakeAuditor{}, sales, zerolog.New(&buf)).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to summarize sales")
	assert.Empty(t, buf.String())
}
