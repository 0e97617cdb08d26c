package console

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/money"
	"github.com/aristath/vending/internal/security"
)

const testSupplierKey = "Test123!"

func newTestMachine(t *testing.T) *machine.Machine {
	t.Helper()

	accepted, err := money.ParseList("2,1,0.5,0.2,0.1,0.05")
	require.NoError(t, err)

	wallet := make([]machine.CashSeed, len(accepted))
	for i, cash := range accepted {
		wallet[i] = machine.CashSeed{Cash: cash, Amount: 2}
	}

	hasher, err := security.NewPBKDF2Hasher(security.WithIterations(1000))
	require.NoError(t, err)

	m, err := machine.New(machine.Config{
		Products: machine.Inventory{
			"Coke":  {Quantity: 3, Value: decimal.RequireFromString("1.5")},
			"Pepsi": {Quantity: 3, Value: decimal.RequireFromString("1.45")},
			"Water": {Quantity: 3, Value: decimal.RequireFromString("0.9")},
		},
		Wallet:       wallet,
		AcceptedCash: accepted,
		SupplierKey:  testSupplierKey,
		Hasher:       hasher,
	}, zerolog.Nop())
	require.NoError(t, err)
	return m
}

func newTestConsole(t *testing.T) (*Console, *machine.Machine) {
	t.Helper()

	m := newTestMachine(t)
	return New(m, strings.NewReader(""), &bytes.Buffer{}, zerolog.Nop()), m
}

func TestExecute_Select(t *testing.T) {
	c, m := newTestConsole(t)

	output, exit := c.Execute("select Coke 2")
	assert.False(t, exit)
	assert.Contains(t, output, "Coke(1) (cost: 1.5)")
	assert.Contains(t, output, "Cost:         3")
	assert.Equal(t, map[string]int{"Coke": 2}, m.Session().Products)
}

func TestExecute_DefaultQuantity(t *testing.T) {
	c, m := newTestConsole(t)

	_, _ = c.Execute("select Water")
	assert.Equal(t, 1, m.Session().Products["Water"])

	_, _ = c.Execute("pay 0.5")
	assert.Equal(t, 1, m.Session().Payment.Count(decimal.RequireFromString("0.5")))
}

func TestExecute_Purchase(t *testing.T) {
	c, m := newTestConsole(t)

	_, _ = c.Execute("select Water")
	output, _ := c.Execute("pay 1")

	assert.Contains(t, output, "Paid: 1")
	assert.Contains(t, output, "Change: 0.1")
	assert.Empty(t, m.Session().Products)
}

func TestExecute_Cancel(t *testing.T) {
	c, m := newTestConsole(t)

	_, _ = c.Execute("select Coke")
	_, _ = c.Execute("pay 0.5 2")

	output, _ := c.Execute("cancel-payment")
	assert.Contains(t, output, "Change: 1")
	assert.Equal(t, map[string]int{"Coke": 1}, m.Session().Products)

	output, _ = c.Execute("cancel")
	assert.Contains(t, output, "Current Session: N/A")
	assert.Empty(t, m.Session().Products)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{name: "unknown product", line: "select Fanta", expected: "❌ the product is not found"},
		{name: "bad quantity", line: "select Coke many", expected: `❌ invalid quantity "many"`},
		{name: "bad cash", line: "pay lots", expected: "❌ invalid amount"},
		{name: "nothing to pay", line: "pay 1", expected: "❌ select at least one product before paying"},
		{name: "restore as customer", line: "restore", expected: "❌ only supplier can restore products"},
		{name: "wrong key", line: "login nope", expected: "❌ invalid key"},
		{name: "unterminated quote", line: `select "Coke`, expected: "❌ "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(t)

			output, exit := c.Execute(tt.line)
			assert.False(t, exit)
			assert.True(t, strings.HasPrefix(output, tt.expected), "got %q", output)
		})
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	c, _ := newTestConsole(t)

	output, _ := c.Execute("dance")
	assert.Equal(t, "Unknown command\n"+CustomerHelp, output)

	output, _ = c.Execute("")
	assert.Equal(t, "Unknown command\n"+CustomerHelp, output)
}

func TestExecute_SupplierFlow(t *testing.T) {
	c, m := newTestConsole(t)

	_, _ = c.Execute("select Water")
	_, _ = c.Execute("pay 1")

	output, _ := c.Execute("login " + testSupplierKey)
	require.True(t, m.IsSupplier())
	assert.True(t, strings.HasPrefix(output, SupplierHelp+"\n"))
	assert.Contains(t, output, "Updates: ")
	assert.Contains(t, output, "Water (1)")

	output, _ = c.Execute("select Coke")
	assert.Equal(t, "Unknown command\n"+SupplierHelp, output)

	output, _ = c.Execute("info")
	assert.Equal(t, SupplierHelp, output)

	output, _ = c.Execute("restore")
	assert.Contains(t, output, "No updates needed")

	output, _ = c.Execute("logout")
	assert.False(t, m.IsSupplier())
	assert.True(t, strings.HasPrefix(output, CustomerHelp))
	assert.Contains(t, output, "Current Session: N/A")
}

func TestExecute_QuotedProductName(t *testing.T) {
	c, m := newTestConsole(t)

	output, _ := c.Execute(`select "Coke" 1`)
	assert.NotContains(t, output, "❌")
	assert.Equal(t, 1, m.Session().Products["Coke"])
}

func TestExecute_Exit(t *testing.T) {
	c, _ := newTestConsole(t)

	output, exit := c.Execute("exit")
	assert.True(t, exit)
	assert.Empty(t, output)
}

func TestRun(t *testing.T) {
	m := newTestMachine(t)
	var out bytes.Buffer
	in := strings.NewReader("select Coke\ninfo\nsel\t\nexit\nselect Pepsi\n")

	require.NoError(t, New(m, in, &out, zerolog.Nop()).Run(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Welcome to the Vending Machine!\n"+CustomerHelp+"\n"))
	assert.Contains(t, text, "Coke(2) (cost: 1.5)")
	assert.Contains(t, text, "\n> select\n")
	assert.Equal(t, map[string]int{"Coke": 1}, m.Session().Products, "commands after exit are not run")
}

func TestRun_EndOfInput(t *testing.T) {
	m := newTestMachine(t)
	var out bytes.Buffer

	require.NoError(t, New(m, strings.NewReader("state"), &out, zerolog.Nop()).Run(context.Background()))
	assert.Contains(t, out.String(), "Current Session: N/A")
}

func TestRun_ContextCancelled(t *testing.T) {
	m := newTestMachine(t)
	ctx, cancel := context.WithCancel(context.Background())
	reader, writer := io.Pipe()
	defer writer.Close()

	done := make(chan error, 1)
	go func() {
		done <- New(m, reader, &bytes.Buffer{}, zerolog.Nop()).Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancellation")
	}
}

func TestRun_ExitReleasesReader(t *testing.T) {
	m := newTestMachine(t)
	before := runtime.NumGoroutine()

	in := strings.NewReader("exit\nstate\nstate\n")
	require.NoError(t, New(m, in, &bytes.Buffer{}, zerolog.Nop()).Run(context.Background()))

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "input reader still running after exit")
}
