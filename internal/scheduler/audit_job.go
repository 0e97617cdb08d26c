package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/ledger"
	"github.com/aristath/vending/internal/machine"
)

// Auditor is the part of the machine the audit job reads
type Auditor interface {
	Audit() machine.AuditReport
}

// SalesSummarizer is the part of the ledger the audit job reads
type SalesSummarizer interface {
	Summary() (ledger.Summary, error)
}

// AuditJob logs what the supplier has to refill and collect, and the sales
// recorded so far
type AuditJob struct {
	machine Auditor
	sales   SalesSummarizer
	log     zerolog.Logger
}

// NewAuditJob creates a new audit job. sales may be nil.
func NewAuditJob(m Auditor, sales SalesSummarizer, log zerolog.Logger) *AuditJob {
	return &AuditJob{
		machine: m,
		sales:   sales,
		log:     log.With().Str("job", "audit").Logger(),
	}
}

// Name returns the job name
func (j *AuditJob) Name() string {
	return "audit"
}

// Run executes the audit
func (j *AuditJob) Run() error {
	report := j.machine.Audit()

	restock := zerolog.Dict()
	units := 0
	for _, p := range report.Restock {
		restock.Int(p.Name, p.Quantity)
		units += p.Quantity
	}

	event := j.log.Info().
		Bool("needs_updates", report.NeedsUpdates()).
		Str("float", report.Wallet.Total.String()).
		Int("restock_units", units).
		Dict("restock", restock).
		Str("cash_to_add", report.AddTotal.String()).
		Str("cash_to_remove", report.RemoveTotal.String())

	if j.sales != nil {
		summary, err := j.sales.Summary()
		if err != nil {
			event.Discard()
			return fmt.Errorf("failed to summarize sales: %w", err)
		}
		event = event.
			Int("sales", summary.Sales).
			Int("units_sold", summary.Units).
			Str("revenue", summary.Revenue.String())
	}

	event.Msg("Machine audit")
	return nil
}
