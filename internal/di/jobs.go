package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/config"
	"github.com/aristath/vending/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers the audit job.
// An empty AuditSchedule leaves the scheduler without jobs.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Scheduler = scheduler.New(log)
	container.AuditJob = scheduler.NewAuditJob(container.Machine, container.Sales, log)

	if cfg.AuditSchedule == "" {
		log.Info().Msg("Audit job disabled")
		return nil
	}

	if err := container.Scheduler.AddJob(cfg.AuditSchedule, container.AuditJob); err != nil {
		return fmt.Errorf("failed to register audit job: %w", err)
	}

	return nil
}

// StartJobs starts the scheduler and, with AuditOnStart, audits the machine
// once before the first scheduled run
func StartJobs(container *Container, cfg *config.Config) error {
	container.Scheduler.Start()

	if !cfg.AuditOnStart {
		return nil
	}
	if err := container.Scheduler.Run(container.AuditJob); err != nil {
		return fmt.Errorf("failed to run startup audit: %w", err)
	}

	return nil
}
