package machine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/money"
)

// MinSupplierKeyLength is the shortest supplier key accepted at construction
const MinSupplierKeyLength = 6

var centsMessage = fmt.Sprintf("value should have at most %d decimal places", money.Places)

// validate checks cfg rule by rule and returns the first failing rule wrapped
// in a construction error
func validate(cfg Config) error {
	if err := firstFailure(cfg); err != nil {
		return &Error{
			Kind:    ErrValidation,
			Message: "failed to create vending machine",
			Cause:   err,
		}
	}
	return nil
}

func firstFailure(cfg Config) *Error {
	if len(cfg.Products) == 0 {
		return newError(ErrValidation, "expected products to sell")
	}

	for _, name := range cfg.Products.names() {
		if issues := productIssues(name, cfg.Products[name]); len(issues) > 0 {
			return validationError("failed to add product", fmt.Sprintf("products[%s]", name), issues)
		}
	}

	if len(cfg.AcceptedCash) == 0 {
		return newError(ErrValidation, "expected a list of accepted coins/bills")
	}

	for i, cash := range cfg.AcceptedCash {
		if issues := acceptedCashIssues(i, cash, cfg.AcceptedCash); len(issues) > 0 {
			return validationError("failed to add accepted cash", fmt.Sprintf("acceptedCash[%d]", i), issues)
		}
	}

	for i, seed := range cfg.Wallet {
		if issues := cashSeedIssues(seed, cfg.AcceptedCash); len(issues) > 0 {
			return validationError("failed to add cash to wallet", fmt.Sprintf("wallet[%d]", i), issues)
		}
	}

	if len(strings.TrimSpace(cfg.SupplierKey)) < MinSupplierKeyLength {
		return validationError("failed to add supplier key", "supplierKey", []Issue{{
			Property: "supplierKey",
			Message:  fmt.Sprintf("supplier key should be a string of min %d characters", MinSupplierKeyLength),
		}})
	}

	return nil
}

func productIssues(name string, product Product) []Issue {
	var issues []Issue
	if strings.TrimSpace(name) == "" {
		issues = append(issues, Issue{Property: "name", Value: name, Message: "product name should not be empty"})
	}
	if product.Quantity <= 0 {
		issues = append(issues, Issue{Property: "quantity", Value: product.Quantity, Message: "quantity of product should be higher than 0"})
	}
	if !product.Value.IsPositive() {
		issues = append(issues, Issue{Property: "value", Value: product.Value.String(), Message: "value of product should be higher than 0"})
	} else if !money.IsCents(product.Value) {
		issues = append(issues, Issue{Property: "value", Value: product.Value.String(), Message: centsMessage})
	}
	return issues
}

func acceptedCashIssues(index int, cash decimal.Decimal, accepted []decimal.Decimal) []Issue {
	var issues []Issue
	if !cash.IsPositive() {
		issues = append(issues, Issue{Property: "cash", Value: cash.String(), Message: "money value should be higher than 0"})
	} else if !money.IsCents(cash) {
		issues = append(issues, Issue{Property: "cash", Value: cash.String(), Message: centsMessage})
	}
	for _, other := range accepted[:index] {
		if other.Equal(cash) {
			issues = append(issues, Issue{Property: "cash", Value: cash.String(), Message: "money value is listed more than once"})
			break
		}
	}
	return issues
}

func cashSeedIssues(seed CashSeed, accepted []decimal.Decimal) []Issue {
	var issues []Issue
	if !containsCash(accepted, seed.Cash) {
		issues = append(issues, Issue{
			Property: "cash",
			Value:    seed.Cash.String(),
			Message:  fmt.Sprintf("the coin is not in the accepted list: %s", joinCash(accepted)),
		})
	}
	if seed.Amount <= 0 {
		issues = append(issues, Issue{Property: "amount", Value: seed.Amount, Message: "expected more than 0 for cash amount"})
	}
	return issues
}

func containsCash(accepted []decimal.Decimal, cash decimal.Decimal) bool {
	for _, c := range accepted {
		if c.Equal(cash) {
			return true
		}
	}
	return false
}

func joinCash(accepted []decimal.Decimal) string {
	parts := make([]string, len(accepted))
	for i, c := range accepted {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
