// Package money provides exact-to-the-cent arithmetic for currency amounts.
//
// Every amount the vending machine keeps (prices, denominations, pool totals,
// amounts due) flows through Add, Subtract and Multiply. Add and Subtract scale
// each operand to cents, combine them as whole numbers and round to the
// nearest cent before scaling back, so results stay exact for cent-aligned
// inputs. Multiply returns the raw product; it is exact for the
// amount-times-count products the machine computes.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/utils"
)

// centsPerUnit is the scale applied before combining operands.
const centsPerUnit = 100

// Places is the number of decimal places an amount may carry
const Places = 2

var hundred = decimal.NewFromInt(centsPerUnit)

// Add returns the sum of items rounded to the cent.
//
// Example:
//
//	total := money.Add(wallet.Total, money.Multiply(cash, money.FromInt(count)))
func Add(items ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Mul(hundred))
	}

	return sum.Round(0).Div(hundred)
}

// Subtract returns items[0] minus every following item, rounded to the cent.
// An empty call returns zero.
func Subtract(items ...decimal.Decimal) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}

	result := items[0].Mul(hundred)
	for _, item := range items[1:] {
		result = result.Sub(item.Mul(hundred))
	}

	return result.Round(0).Div(hundred)
}

// Multiply returns the product of items without cent scaling.
// An empty call returns zero.
func Multiply(items ...decimal.Decimal) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}

	result := items[0]
	for _, item := range items[1:] {
		result = result.Mul(item)
	}

	return result
}

// IsCents reports whether amount has at most Places decimal places, so that
// Add and Subtract never round it.
func IsCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(Places))
}

// FromInt converts a count into a decimal operand.
func FromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// Parse reads a decimal amount such as "0.5" or "2".
func Parse(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}

	return amount, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(value string) decimal.Decimal {
	amount, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return amount
}

// ParseList reads a comma separated list of amounts, e.g. "2,1,0.5".
func ParseList(value string) ([]decimal.Decimal, error) {
	parts := utils.ParseCSV(value)
	amounts := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		amount, err := Parse(part)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}

	return amounts, nil
}
