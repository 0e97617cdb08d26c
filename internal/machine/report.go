package machine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/money"
)

const indent = "  "

// ProductDelta is the number of units needed to bring a product back to its
// initial stock
type ProductDelta struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// AuditReport is the supplier's view of the float and of what a restore
// would change
type AuditReport struct {
	Wallet       CashPool        `json:"wallet"`
	Restock      []ProductDelta  `json:"restock"`
	CashToAdd    []CashCount     `json:"cash_to_add"`
	AddTotal     decimal.Decimal `json:"add_total"`
	CashToRemove []CashCount     `json:"cash_to_remove"`
	RemoveTotal  decimal.Decimal `json:"remove_total"`
}

// NeedsUpdates reports whether the inventory or the wallet differ from the
// initial snapshot
func (r AuditReport) NeedsUpdates() bool {
	return len(r.Restock) > 0 || len(r.CashToAdd) > 0 || len(r.CashToRemove) > 0
}

// Audit compares the live inventory and wallet with the initial snapshot.
// It is read-only.
func (m *Machine) Audit() AuditReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audit()
}

func (m *Machine) audit() AuditReport {
	report := AuditReport{
		Wallet:       m.wallet.clone(),
		Restock:      []ProductDelta{},
		CashToAdd:    []CashCount{},
		AddTotal:     decimal.Zero,
		CashToRemove: []CashCount{},
		RemoveTotal:  decimal.Zero,
	}

	for _, name := range m.names {
		delta := m.initial.products[name].Quantity - m.inventory[name].Quantity
		if delta > 0 {
			report.Restock = append(report.Restock, ProductDelta{Name: name, Quantity: delta})
		}
	}

	for _, c := range m.wallet.Counts {
		delta := m.initial.wallet.Count(c.Cash) - c.Count
		switch {
		case delta > 0:
			report.CashToAdd = append(report.CashToAdd, CashCount{Cash: c.Cash, Count: delta})
			report.AddTotal = money.Add(report.AddTotal, money.Multiply(c.Cash, money.FromInt(delta)))
		case delta < 0:
			report.CashToRemove = append(report.CashToRemove, CashCount{Cash: c.Cash, Count: -delta})
			report.RemoveTotal = money.Add(report.RemoveTotal, money.Multiply(c.Cash, money.FromInt(-delta)))
		}
	}

	return report
}

// DescribeState renders the inventory, the session (customers) or the
// pending updates (supplier) as text. A non-nil override is rendered in place
// of the live session, e.g. the result of the last Pay or Cancel.
func (m *Machine) DescribeState(override *Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.describeState(override)
}

// State is a consistent view of the machine taken under a single lock
type State struct {
	Role     string        `json:"role"`
	Products []ProductInfo `json:"products"`
	Session  Session       `json:"session"`
	Text     string        `json:"text"`
}

// Snapshot returns the role, inventory, live session and state text as of
// one instant
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Role:     m.role.String(),
		Products: m.inventoryInfo(),
		Session:  m.session.clone(),
		Text:     m.describeState(nil),
	}
}

func (m *Machine) describeState(override *Session) string {
	session := m.session
	if override != nil {
		session = *override
	}

	parts := []string{m.describeInventory()}
	if m.role == RoleSupplier {
		parts = append(parts, describeAudit(m.audit()))
	} else {
		parts = append(parts, describeSession(session))
	}

	return strings.Join(parts, "\n")
}

func (m *Machine) describeInventory() string {
	var b strings.Builder
	b.WriteString("Inventory:")
	b.WriteString("\n" + indent + "Products:")
	for _, info := range m.inventoryInfo() {
		if info.Quantity > 0 {
			fmt.Fprintf(&b, "\n%s%s(%d) (cost: %s)", strings.Repeat(indent, 2), info.Name, info.Quantity, info.Value)
		}
	}

	if m.role == RoleSupplier {
		fmt.Fprintf(&b, "\n%sWallet:  %s", indent, m.wallet.Total)
		writeCash(&b, m.wallet.Held(), 2, "(%d)")
	}

	return b.String()
}

func describeSession(s Session) string {
	var b strings.Builder
	b.WriteString("Current Session: ")

	if !s.Amount.IsPositive() {
		b.WriteString("N/A")
		if !s.Change.IsEmpty() {
			fmt.Fprintf(&b, "\n%sChange: %s", indent, s.Change.Total)
			writeCash(&b, s.Change.Held(), 2, "(%d)")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "\n%sCost:         %s", indent, s.Amount)
	if !s.Paid {
		fmt.Fprintf(&b, "\n%sLeft to pay:  %s", indent, money.Subtract(s.Amount, s.Payment.Total))
	}

	b.WriteString("\n" + indent + "Products: ")
	for _, name := range s.ProductNames() {
		fmt.Fprintf(&b, "\n%s%s(%d)", strings.Repeat(indent, 2), name, s.Products[name])
	}

	paid := s.Payment
	if s.Paid {
		paid = s.Tendered
	}
	if !paid.IsEmpty() {
		fmt.Fprintf(&b, "\n%sPaid: %s", indent, paid.Total)
		writeCash(&b, paid.Held(), 2, "(%d)")
	}

	if !s.Change.IsEmpty() {
		fmt.Fprintf(&b, "\n%sChange: %s", indent, s.Change.Total)
		writeCash(&b, s.Change.Held(), 2, "(%d)")
	}

	return b.String()
}

func describeAudit(r AuditReport) string {
	if !r.NeedsUpdates() {
		return "No updates needed"
	}

	var b strings.Builder
	b.WriteString("Updates: ")
	b.WriteString("\n" + indent + "Products: ")
	for _, p := range r.Restock {
		fmt.Fprintf(&b, "\n%s%s (%d)", strings.Repeat(indent, 2), p.Name, p.Quantity)
	}

	b.WriteString("\n" + indent + "Wallet: ")
	if len(r.CashToAdd) > 0 {
		fmt.Fprintf(&b, "\n%sAdd: (%s)", strings.Repeat(indent, 2), r.AddTotal)
		writeCash(&b, r.CashToAdd, 3, " (%d)")
	}
	if len(r.CashToRemove) > 0 {
		fmt.Fprintf(&b, "\n%sRemove: (%s)", strings.Repeat(indent, 2), r.RemoveTotal)
		writeCash(&b, r.CashToRemove, 3, " (%d)")
	}

	return b.String()
}

func writeCash(b *strings.Builder, counts []CashCount, depth int, countFormat string) {
	for _, c := range counts {
		fmt.Fprintf(b, "\n%s%s"+countFormat, strings.Repeat(indent, depth), c.Cash, c.Count)
	}
}
