package machine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/money"
)

// Pay inserts quantity units of cash into the session's payment pool.
//
// While the payment total is below the amount due the live session is
// returned. Once it covers the amount, change is computed and, when the
// machine can return it exactly, the purchase completes: the change leaves
// the wallet, the whole payment enters it and the session resets. The
// returned session then describes the completed purchase (Paid, Amount,
// Tendered, Change) with an empty Payment.
//
// If exact change cannot be made only this call's cash is taken back out of
// the payment pool and ErrInsufficientChange is returned; earlier payments
// stay in place so the customer can try other cash.
func (m *Machine) Pay(cash decimal.Decimal, quantity int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role == RoleSupplier {
		return Session{}, newError(ErrWrongRole, "only client can pay")
	}

	if !containsCash(m.accepted, cash) {
		return Session{}, newErrorWithValues(
			ErrUnsupportedCash,
			fmt.Sprintf("cash not supported, use %s", joinCash(m.accepted)),
			map[string]any{"cash": cash.String()},
		)
	}

	if quantity <= 0 {
		return Session{}, newError(ErrInvalidQuantity, "need at least one to pay")
	}

	if !m.session.Amount.IsPositive() {
		return Session{}, newError(ErrNoActivePurchase, "select at least one product before paying")
	}

	m.session.Payment.add(cash, quantity)

	if m.session.Payment.Total.LessThan(m.session.Amount) {
		m.log.Debug().
			Str("cash", cash.String()).
			Int("quantity", quantity).
			Str("payed", m.session.Payment.Total.String()).
			Str("amount", m.session.Amount.String()).
			Msg("Partial payment received")
		return m.session.clone(), nil
	}

	change, ok := m.computeChange(money.Subtract(m.session.Payment.Total, m.session.Amount))
	if !ok {
		m.session.Payment.add(cash, -quantity)
		return Session{}, newErrorWithValues(
			ErrInsufficientChange,
			"do not have necessary change to give back, use another cash value",
			map[string]any{"cash": cash.String(), "quantity": quantity},
		)
	}

	return m.completePurchase(change), nil
}

// computeChange picks change greedily from the largest denomination down.
// The units available for a denomination are the wallet's plus the ones in
// the current payment, so the machine can hand back cash just inserted.
// It reports false when the exact amount cannot be composed.
func (m *Machine) computeChange(amount decimal.Decimal) (CashPool, bool) {
	change := newCashPool(m.accepted)
	remaining := amount

	for _, cash := range m.accepted {
		if !remaining.IsPositive() {
			break
		}

		available := m.wallet.Count(cash) + m.session.Payment.Count(cash)
		if available <= 0 || cash.GreaterThan(remaining) {
			continue
		}

		needed := int(remaining.Div(cash).Floor().IntPart())
		units := min(needed, available)
		change.add(cash, units)
		remaining = money.Subtract(remaining, money.Multiply(cash, money.FromInt(units)))
	}

	return change, !remaining.IsPositive()
}

// completePurchase settles the wallet, records the sale and resets the session
func (m *Machine) completePurchase(change CashPool) Session {
	payment := m.session.Payment

	for i := range m.wallet.Counts {
		cash := m.wallet.Counts[i].Cash
		m.wallet.Counts[i].Count += payment.Count(cash) - change.Count(cash)
	}
	m.wallet.recount()

	result := Session{
		Products: m.session.clone().Products,
		Amount:   m.session.Amount,
		Payment:  newCashPool(m.accepted),
		Tendered: payment.clone(),
		Change:   change,
		Paid:     true,
	}

	m.resetSession()

	m.log.Info().
		Str("amount", result.Amount.String()).
		Str("tendered", result.Tendered.Total.String()).
		Str("change", result.Change.Total.String()).
		Str("float", m.wallet.Total.String()).
		Msg("Purchase completed")

	m.recordSale(result)

	return result.clone()
}

func (m *Machine) recordSale(result Session) {
	if m.recorder == nil {
		return
	}

	sale := Sale{
		ID:          m.newID(),
		CompletedAt: m.now().UTC(),
		Products:    result.clone().Products,
		Amount:      result.Amount,
		Tendered:    result.Tendered.clone(),
		Change:      result.Change.clone(),
	}

	if err := m.recorder.RecordSale(sale); err != nil {
		m.log.Error().Err(err).Str("sale_id", sale.ID).Msg("Failed to record sale")
	}
}
