package machine

import (
	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/money"
)

// CashCount is the number of units held of one denomination
type CashCount struct {
	Cash  decimal.Decimal `json:"cash"`
	Count int             `json:"count"`
}

// CashPool holds a count per accepted denomination, ordered from the largest
// denomination to the smallest, plus the pool total. Total is recomputed from
// the counts after every mutation.
type CashPool struct {
	Counts []CashCount     `json:"counts"`
	Total  decimal.Decimal `json:"total"`
}

func newCashPool(accepted []decimal.Decimal) CashPool {
	counts := make([]CashCount, len(accepted))
	for i, cash := range accepted {
		counts[i] = CashCount{Cash: cash}
	}
	return CashPool{Counts: counts, Total: decimal.Zero}
}

// Count returns the units held of cash, 0 when cash is not part of the pool
func (p CashPool) Count(cash decimal.Decimal) int {
	if i := p.index(cash); i >= 0 {
		return p.Counts[i].Count
	}
	return 0
}

// IsEmpty reports whether the pool holds no cash
func (p CashPool) IsEmpty() bool {
	return !p.Total.IsPositive()
}

// Held returns the denominations with a positive count
func (p CashPool) Held() []CashCount {
	held := make([]CashCount, 0, len(p.Counts))
	for _, c := range p.Counts {
		if c.Count > 0 {
			held = append(held, c)
		}
	}
	return held
}

func (p CashPool) index(cash decimal.Decimal) int {
	for i, c := range p.Counts {
		if c.Cash.Equal(cash) {
			return i
		}
	}
	return -1
}

// add changes the count of cash by delta, which may be negative
func (p *CashPool) add(cash decimal.Decimal, delta int) {
	i := p.index(cash)
	if i < 0 {
		p.Counts = append(p.Counts, CashCount{Cash: cash})
		i = len(p.Counts) - 1
	}
	p.Counts[i].Count += delta
	p.recount()
}

func (p *CashPool) recount() {
	values := make([]decimal.Decimal, 0, len(p.Counts))
	for _, c := range p.Counts {
		values = append(values, money.Multiply(c.Cash, money.FromInt(c.Count)))
	}
	p.Total = money.Add(values...)
}

func (p CashPool) clone() CashPool {
	counts := make([]CashCount, len(p.Counts))
	copy(counts, p.Counts)
	return CashPool{Counts: counts, Total: p.Total}
}
