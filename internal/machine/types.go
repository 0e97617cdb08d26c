package machine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Role is the access role of whoever operates the machine
type Role int

const (
	// RoleCustomer selects products and pays for them
	RoleCustomer Role = iota
	// RoleSupplier restores inventory and cash and reads audit data
	RoleSupplier
)

func (r Role) String() string {
	if r == RoleSupplier {
		return "supplier"
	}
	return "customer"
}

// CancelScope selects what Cancel voids
type CancelScope string

const (
	// CancelAll voids the payment and returns every selected product
	CancelAll CancelScope = "all"
	// CancelPayment voids only the payment in progress
	CancelPayment CancelScope = "payment"
)

// Product is a stocked item
type Product struct {
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// Inventory maps product names to their stock
type Inventory map[string]Product

func (inv Inventory) clone() Inventory {
	out := make(Inventory, len(inv))
	for name, product := range inv {
		out[name] = product
	}
	return out
}

func (inv Inventory) names() []string {
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProductInfo is a read-only view of one inventory line
type ProductInfo struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// CashSeed loads Amount units of Cash into the initial float
type CashSeed struct {
	Cash   decimal.Decimal `json:"cash"`
	Amount int             `json:"amount"`
}

// Session is the state of one customer visit. Values returned by the
// machine are copies; mutating them never affects the machine.
//
// Tendered holds the cash inserted for a completed purchase and is only set
// on the result of the Pay call that completes it.
type Session struct {
	Products map[string]int  `json:"products"`
	Amount   decimal.Decimal `json:"amount"`
	Payment  CashPool        `json:"payment"`
	Tendered CashPool        `json:"tendered"`
	Change   CashPool        `json:"change"`
	Paid     bool            `json:"paid"`
}

func emptySession(accepted []decimal.Decimal) Session {
	return Session{
		Products: make(map[string]int),
		Amount:   decimal.Zero,
		Payment:  newCashPool(accepted),
		Tendered: newCashPool(accepted),
		Change:   newCashPool(accepted),
	}
}

func (s Session) clone() Session {
	products := make(map[string]int, len(s.Products))
	for name, quantity := range s.Products {
		products[name] = quantity
	}
	return Session{
		Products: products,
		Amount:   s.Amount,
		Payment:  s.Payment.clone(),
		Tendered: s.Tendered.clone(),
		Change:   s.Change.clone(),
		Paid:     s.Paid,
	}
}

// ProductNames returns the selected product names in ascending order
func (s Session) ProductNames() []string {
	names := make([]string, 0, len(s.Products))
	for name := range s.Products {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sale is a completed purchase handed to the SaleRecorder
type Sale struct {
	ID          string          `json:"id"`
	CompletedAt time.Time       `json:"completed_at"`
	Products    map[string]int  `json:"products"`
	Amount      decimal.Decimal `json:"amount"`
	Tendered    CashPool        `json:"tendered"`
	Change      CashPool        `json:"change"`
}

// SaleRecorder receives every completed purchase
type SaleRecorder interface {
	RecordSale(sale Sale) error
}

// CredentialHasher hashes the supplier key one way and verifies candidates
// against the stored hash in constant time
type CredentialHasher interface {
	Hash(secret string) string
	Verify(secret, hash string) bool
}
