package machine

import (
	"fmt"

	"github.com/aristath/vending/internal/money"
)

// Select adds quantity units of a product to the session and takes them out
// of the inventory. Customer only; not allowed once a payment has started.
func (m *Machine) Select(name string, quantity int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role == RoleSupplier {
		return Session{}, newError(ErrWrongRole, "only client can select products")
	}

	product, ok := m.inventory[name]
	if !ok {
		return Session{}, newErrorWithValues(ErrUnknownProduct, "the product is not found", map[string]any{"product": name})
	}

	if m.session.Payment.Total.IsPositive() {
		return Session{}, newError(ErrPaymentStarted, "payment process has already started, cancel payment to select another product")
	}

	if quantity <= 0 {
		return Session{}, newError(ErrInvalidQuantity, "selection can be made with at least one product")
	}

	if product.Quantity < quantity {
		return Session{}, newErrorWithValues(
			ErrInsufficientStock,
			"the selected product is not available for the selected quantity",
			map[string]any{"product": name, "quantity": quantity, "available": product.Quantity},
		)
	}

	product.Quantity -= quantity
	m.inventory[name] = product
	m.session.Products[name] += quantity
	m.session.Amount = money.Add(m.session.Amount, money.Multiply(money.FromInt(quantity), product.Value))

	m.log.Debug().
		Str("product", name).
		Int("quantity", quantity).
		Str("amount", m.session.Amount.String()).
		Msg("Product selected")

	return m.session.clone(), nil
}

// Remove returns up to quantity selected units of a product to the inventory.
// Removing more than was selected removes what was selected.
func (m *Machine) Remove(name string, quantity int) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role == RoleSupplier {
		return Session{}, newError(ErrWrongRole, "only client can remove products")
	}

	if _, ok := m.inventory[name]; !ok {
		return Session{}, newErrorWithValues(ErrUnknownProduct, "the product is not found", map[string]any{"product": name})
	}

	if m.session.Payment.Total.IsPositive() {
		return Session{}, newError(ErrPaymentStarted, "payment process has already started, cancel payment to remove all/some of the products")
	}

	if quantity <= 0 {
		return Session{}, newError(ErrInvalidQuantity, "removal can be made with at least one product")
	}

	removed := m.removeProduct(name, quantity)

	m.log.Debug().
		Str("product", name).
		Int("quantity", removed).
		Str("amount", m.session.Amount.String()).
		Msg("Product removed")

	return m.session.clone(), nil
}

// removeProduct moves up to quantity selected units back to the inventory and
// returns how many were moved. The session entry is deleted when it reaches 0.
func (m *Machine) removeProduct(name string, quantity int) int {
	selected := m.session.Products[name]
	removal := min(selected, quantity)
	if removal <= 0 {
		return 0
	}

	if selected == removal {
		delete(m.session.Products, name)
	} else {
		m.session.Products[name] = selected - removal
	}

	product := m.inventory[name]
	product.Quantity += removal
	m.inventory[name] = product
	m.session.Amount = money.Subtract(m.session.Amount, money.Multiply(money.FromInt(removal), product.Value))

	return removal
}

// Cancel voids the payment in progress, moving it to the change pool, and
// with CancelAll also returns every selected product. The returned copy holds
// the change to hand back; the live change pool is cleared afterwards.
func (m *Machine) Cancel(scope CancelScope) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role == RoleSupplier {
		return Session{}, newError(ErrWrongRole, "only client can cancel a transaction")
	}

	switch scope {
	case CancelAll:
		m.cancelPayment()
		m.cancelProducts()
	case CancelPayment:
		m.cancelPayment()
	default:
		return Session{}, newErrorWithValues(ErrInvalidScope, fmt.Sprintf("unknown cancel scope %q", scope), map[string]any{"scope": string(scope)})
	}

	result := m.session.clone()
	m.session.Change = newCashPool(m.accepted)

	m.log.Debug().
		Str("scope", string(scope)).
		Str("returned", result.Change.Total.String()).
		Msg("Transaction cancelled")

	return result, nil
}

func (m *Machine) cancelPayment() {
	if m.session.Payment.IsEmpty() {
		return
	}
	m.session.Change = m.session.Payment
	m.session.Payment = newCashPool(m.accepted)
}

func (m *Machine) cancelProducts() {
	for _, name := range m.session.ProductNames() {
		m.removeProduct(name, m.session.Products[name])
	}
}

// ParseCancelScope maps "all" and "payment" to a CancelScope
func ParseCancelScope(value string) (CancelScope, error) {
	switch CancelScope(value) {
	case CancelAll, CancelPayment:
		return CancelScope(value), nil
	case "":
		return CancelAll, nil
	default:
		return "", newErrorWithValues(ErrInvalidScope, fmt.Sprintf("unknown cancel scope %q", value), map[string]any{"scope": value})
	}
}
