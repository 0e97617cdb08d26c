package di

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/config"
	"github.com/aristath/vending/internal/ledger"
	"github.com/aristath/vending/internal/machine"
)

// DefaultStock is the number of units of every product the machine starts with
const DefaultStock = 10

// DefaultProducts returns the products the machine is loaded with
func DefaultProducts() machine.Inventory {
	return machine.Inventory{
		"Coke":  {Quantity: DefaultStock, Value: decimal.RequireFromString("1.5")},
		"Pepsi": {Quantity: DefaultStock, Value: decimal.RequireFromString("1.45")},
		"Water": {Quantity: DefaultStock, Value: decimal.RequireFromString("0.9")},
	}
}

// InitialFloat seeds perDenomination units of every accepted denomination
func InitialFloat(accepted []decimal.Decimal, perDenomination int) []machine.CashSeed {
	if perDenomination <= 0 {
		return nil
	}

	wallet := make([]machine.CashSeed, len(accepted))
	for i, cash := range accepted {
		wallet[i] = machine.CashSeed{Cash: cash, Amount: perDenomination}
	}
	return wallet
}

// InitializeServices creates the sales ledger and the vending machine
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	sales, err := ledger.NewRepository(container.LedgerDB, log)
	if err != nil {
		return fmt.Errorf("failed to create sales ledger: %w", err)
	}
	container.Sales = sales

	m, err := machine.New(machine.Config{
		Products:     DefaultProducts(),
		Wallet:       InitialFloat(cfg.AcceptedCash, cfg.FloatPerDenomination),
		AcceptedCash: cfg.AcceptedCash,
		SupplierKey:  cfg.SupplierKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create vending machine: %w", err)
	}
	m.SetSaleRecorder(sales)
	container.Machine = m

	return nil
}
