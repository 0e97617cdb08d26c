// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/vending/internal/database"
	"github.com/aristath/vending/internal/ledger"
	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/scheduler"
)

// Container holds every wired dependency
type Container struct {
	// Databases
	LedgerDB *database.DB

	// Repositories
	Sales *ledger.Repository

	// Services
	Machine *machine.Machine

	// Jobs
	Scheduler *scheduler.Scheduler
	AuditJob  *scheduler.AuditJob
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c.LedgerDB == nil {
		return nil
	}
	return c.LedgerDB.Close()
}
