package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/database"
)

// InitializeDatabases opens the databases. The sales ledger lives in memory
// for the lifetime of the process.
func InitializeDatabases(log zerolog.Logger) (*Container, error) {
	ledgerDB, err := database.New(database.Config{Name: "ledger"})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}

	log.Info().
		Str("database", ledgerDB.Name()).
		Msg("Database initialized")

	return &Container{LedgerDB: ledgerDB}, nil
}
