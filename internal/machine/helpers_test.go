package machine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/vending/internal/money"
	"github.com/aristath/vending/internal/security"
)

const testSupplierKey = "Test123!"

var testAcceptedCash = []string{"2", "1", "0.5", "0.2", "0.1", "0.05"}

var testPrices = map[string]string{
	"Coke":  "1.5",
	"Pepsi": "1.45",
	"Water": "0.9",
}

func d(value string) decimal.Decimal {
	return money.MustParse(value)
}

func acceptedCash() []decimal.Decimal {
	accepted := make([]decimal.Decimal, len(testAcceptedCash))
	for i, cash := range testAcceptedCash {
		accepted[i] = d(cash)
	}
	return accepted
}

// fixture describes the machine state a test starts from. Nil maps select the
// defaults: 3 units of every product and 2 units of every denomination.
type fixture struct {
	products map[string]int
	cash     map[string]int
	selected map[string]int
	payed    map[string]int
	supplier bool
}

func testHasher(t *testing.T) CredentialHasher {
	t.Helper()

	h, err := security.NewPBKDF2Hasher(security.WithIterations(1000))
	require.NoError(t, err)
	return h
}

func testConfig(t *testing.T, f fixture) Config {
	t.Helper()

	products := Inventory{}
	for name, price := range testPrices {
		quantity := 3
		if f.products != nil {
			quantity = f.products[name]
			if quantity == 0 {
				continue
			}
		}
		products[name] = Product{Quantity: quantity, Value: d(price)}
	}

	var wallet []CashSeed
	for _, cash := range testAcceptedCash {
		amount := 2
		if f.cash != nil {
			var ok bool
			if amount, ok = f.cash[cash]; !ok {
				continue
			}
		}
		wallet = append(wallet, CashSeed{Cash: d(cash), Amount: amount})
	}

	return Config{
		Products:     products,
		Wallet:       wallet,
		AcceptedCash: acceptedCash(),
		SupplierKey:  testSupplierKey,
		Hasher:       testHasher(t),
	}
}

func newTestMachine(t *testing.T, f fixture) *Machine {
	t.Helper()

	m, err := New(testConfig(t, f), zerolog.Nop())
	require.NoError(t, err)

	for name, quantity := range f.selected {
		product := m.inventory[name]
		product.Quantity -= quantity
		m.inventory[name] = product
		m.session.Products[name] = quantity
		m.session.Amount = money.Add(m.session.Amount, money.Multiply(money.FromInt(quantity), product.Value))
	}

	for cash, amount := range f.payed {
		m.session.Payment.add(d(cash), amount)
	}

	if f.supplier {
		m.role = RoleSupplier
	}

	return m
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func assertCounts(t *testing.T, expected map[string]int, pool CashPool) {
	t.Helper()
	for cash, count := range expected {
		assert.Equal(t, count, pool.Count(d(cash)), "count of %s", cash)
	}
}

// assertConsistent checks the properties that must hold after every operation
func assertConsistent(t *testing.T, m *Machine) {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pool := range []CashPool{m.wallet, m.session.Payment, m.session.Change} {
		sum := decimal.Zero
		for _, c := range pool.Counts {
			assert.GreaterOrEqual(t, c.Count, 0, "count of %s", c.Cash)
			sum = sum.Add(c.Cash.Mul(decimal.NewFromInt(int64(c.Count))))
		}
		assert.True(t, sum.Equal(pool.Total), "pool total %s does not match counts %s", pool.Total, sum)
	}

	due := decimal.Zero
	for name, quantity := range m.session.Products {
		assert.Positive(t, quantity, "selected %s", name)
		due = due.Add(m.inventory[name].Value.Mul(decimal.NewFromInt(int64(quantity))))
	}
	assert.True(t, due.Equal(m.session.Amount), "amount %s does not match selection %s", m.session.Amount, due)

	for name, product := range m.inventory {
		assert.GreaterOrEqual(t, product.Quantity, 0, "stock of %s", name)
	}
}

// recorderFunc adapts a function to SaleRecorder
type recorderFunc func(Sale) error

func (f recorderFunc) RecordSale(sale Sale) error {
	return f(sale)
}
