// Package machine implements the vending machine transaction engine.
//
// A Machine owns the inventory, the cash float (wallet) and the single
// customer session, plus a snapshot of the initial inventory and wallet used
// by Restore. Customers select, remove, pay and cancel; the supplier restores
// stock and cash and reads audit data. Every method that reads or changes
// mutable state runs under one mutex, so a Machine may be shared by
// concurrent front ends while each operation stays atomic. Failing operations leave the state untouched.
package machine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/vending/internal/security"
)

// Config holds the seed data for a new machine
type Config struct {
	Products     Inventory
	Wallet       []CashSeed
	AcceptedCash []decimal.Decimal
	SupplierKey  string
	Hasher       CredentialHasher // nil selects PBKDF2 with a random salt
}

// snapshot is the immutable initial state used by Restore
type snapshot struct {
	products Inventory
	wallet   CashPool
}

// Machine is the transaction engine
type Machine struct {
	mu sync.Mutex

	accepted    []decimal.Decimal
	names       []string
	inventory   Inventory
	wallet      CashPool
	initial     snapshot
	session     Session
	role        Role
	supplierKey string
	hasher      CredentialHasher
	recorder    SaleRecorder

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// New validates cfg and builds a machine in customer mode with an empty session.
// Validation errors are *Error values of kind ErrValidation.
func New(cfg Config, log zerolog.Logger) (*Machine, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	hasher := cfg.Hasher
	if hasher == nil {
		h, err := security.NewPBKDF2Hasher()
		if err != nil {
			return nil, fmt.Errorf("failed to create credential hasher: %w", err)
		}
		hasher = h
	}

	accepted := make([]decimal.Decimal, len(cfg.AcceptedCash))
	copy(accepted, cfg.AcceptedCash)
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].GreaterThan(accepted[j])
	})

	wallet := newCashPool(accepted)
	for _, seed := range cfg.Wallet {
		wallet.add(seed.Cash, seed.Amount)
	}

	inventory := cfg.Products.clone()

	m := &Machine{
		accepted:  accepted,
		names:     inventory.names(),
		inventory: inventory,
		wallet:    wallet,
		initial: snapshot{
			products: inventory.clone(),
			wallet:   wallet.clone(),
		},
		role:        RoleCustomer,
		supplierKey: hasher.Hash(cfg.SupplierKey),
		hasher:      hasher,
		now:         time.Now,
		newID:       uuid.NewString,
		log:         log.With().Str("component", "vending_machine").Logger(),
	}
	m.resetSession()

	m.log.Info().
		Int("products", len(m.names)).
		Str("float", wallet.Total.String()).
		Msg("Vending machine initialized")

	return m, nil
}

// SetSaleRecorder registers the recorder that receives completed purchases
func (m *Machine) SetSaleRecorder(r SaleRecorder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorder = r
}

func (m *Machine) resetSession() {
	m.session = emptySession(m.accepted)
}

// Restore replaces inventory and wallet with copies of the initial snapshot.
// Supplier only.
func (m *Machine) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role != RoleSupplier {
		return newError(ErrWrongRole, "only supplier can restore products")
	}

	m.inventory = m.initial.products.clone()
	m.wallet = m.initial.wallet.clone()

	m.log.Info().Str("float", m.wallet.Total.String()).Msg("Inventory and wallet restored")
	return nil
}

// LoginSupplier switches to supplier mode. It is a no-op when already logged in
// and fails while a purchase is in progress or when password does not match.
func (m *Machine) LoginSupplier(password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role == RoleSupplier {
		return nil
	}

	if m.session.Amount.IsPositive() {
		return newError(ErrTransactionInProgress, "cannot login as supplier while a transaction is in progress")
	}

	if !m.hasher.Verify(password, m.supplierKey) {
		return newError(ErrInvalidCredential, "invalid key")
	}

	m.role = RoleSupplier
	m.log.Info().Msg("Supplier logged in")
	return nil
}

// LogoutSupplier switches back to customer mode. No-op for customers.
func (m *Machine) LogoutSupplier() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role != RoleSupplier {
		return
	}

	m.role = RoleCustomer
	m.log.Info().Msg("Supplier logged out")
}

// IsSupplier reports whether the supplier is logged in
func (m *Machine) IsSupplier() bool {
	return m.Role() == RoleSupplier
}

// Role returns the current access role
func (m *Machine) Role() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// ProductNames returns every registered product name in ascending order
func (m *Machine) ProductNames() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// AcceptedCash returns the accepted denominations, largest first
func (m *Machine) AcceptedCash() []decimal.Decimal {
	accepted := make([]decimal.Decimal, len(m.accepted))
	copy(accepted, m.accepted)
	return accepted
}

// Session returns a copy of the live session
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// Inventory returns the stock and price of every product, ordered by name
func (m *Machine) Inventory() []ProductInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inventoryInfo()
}

func (m *Machine) inventoryInfo() []ProductInfo {
	infos := make([]ProductInfo, 0, len(m.names))
	for _, name := range m.names {
		product := m.inventory[name]
		infos = append(infos, ProductInfo{Name: name, Quantity: product.Quantity, Value: product.Value})
	}
	return infos
}
