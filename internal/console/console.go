// Package console is the interactive text front end of the vending machine.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/money"
)

const (
	prompt         = "\n> "
	welcome        = "Welcome to the Vending Machine!"
	unknownCommand = "Unknown command"
	errorPrefix    = "❌ "
	completionKey  = "\t"
)

// Console reads commands line by line and prints the machine's answers
type Console struct {
	machine *machine.Machine
	in      io.Reader
	out     io.Writer
	log     zerolog.Logger
}

// New creates a console bound to a machine
func New(m *machine.Machine, in io.Reader, out io.Writer, log zerolog.Logger) *Console {
	return &Console{
		machine: m,
		in:      in,
		out:     out,
		log:     log.With().Str("component", "console").Logger(),
	}
}

// Run prints the welcome screen and executes commands until exit, end of
// input or ctx cancellation. A line ending in a tab prints completions.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.println(welcome)
	c.println(CustomerHelp)
	c.println(c.machine.DescribeState(nil))

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, prompt)

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read command: %w", err)
				}
				return nil
			}

			if strings.HasSuffix(line, completionKey) {
				candidates, _ := Complete(c.machine, strings.TrimSuffix(line, completionKey))
				c.println(strings.Join(candidates, "  "))
				continue
			}

			output, exit := c.Execute(line)
			if output != "" {
				c.println(output)
			}
			if exit {
				c.log.Info().Msg("Console closed")
				return nil
			}
		}
	}
}

// Execute runs one command line and returns the text to print. exit is true
// when the customer asked to leave.
func (c *Console) Execute(line string) (output string, exit bool) {
	words, err := shellquote.Split(line)
	if err != nil {
		c.log.Warn().Err(err).Str("line", line).Msg("Failed to parse command")
		return errorPrefix + err.Error(), false
	}

	var cmd string
	var args []string
	if len(words) > 0 {
		cmd, args = words[0], words[1:]
	}

	if c.machine.IsSupplier() {
		output, err = c.supplierCommand(cmd)
	} else {
		output, exit, err = c.customerCommand(cmd, args)
	}
	if err != nil {
		c.log.Debug().Err(err).Str("command", cmd).Msg("Command rejected")
		return errorPrefix + message(err), false
	}

	return output, exit
}

func (c *Console) customerCommand(cmd string, args []string) (string, bool, error) {
	switch cmd {
	case CommandSelect:
		quantity, err := quantityArg(args, 1)
		if err != nil {
			return "", false, err
		}
		return c.session(c.machine.Select(arg(args, 0), quantity))

	case CommandRemove:
		quantity, err := quantityArg(args, 1)
		if err != nil {
			return "", false, err
		}
		return c.session(c.machine.Remove(arg(args, 0), quantity))

	case CommandPay:
		cash, err := money.Parse(arg(args, 0))
		if err != nil {
			return "", false, err
		}
		quantity, err := quantityArg(args, 1)
		if err != nil {
			return "", false, err
		}
		return c.session(c.machine.Pay(cash, quantity))

	case CommandCancelPayment:
		return c.session(c.machine.Cancel(machine.CancelPayment))

	case CommandCancel:
		return c.session(c.machine.Cancel(machine.CancelAll))

	case CommandRestore:
		if err := c.machine.Restore(); err != nil {
			return "", false, err
		}
		return c.machine.DescribeState(nil), false, nil

	case CommandState:
		return c.machine.DescribeState(nil), false, nil

	case CommandLogin:
		if err := c.machine.LoginSupplier(arg(args, 0)); err != nil {
			return "", false, err
		}
		return SupplierHelp + "\n" + c.machine.DescribeState(nil), false, nil

	case CommandExit:
		return "", true, nil

	case CommandInfo:
		return CustomerHelp, false, nil

	default:
		return unknownCommand + "\n" + CustomerHelp, false, nil
	}
}

func (c *Console) supplierCommand(cmd string) (string, error) {
	switch cmd {
	case CommandRestore:
		if err := c.machine.Restore(); err != nil {
			return "", err
		}
		return c.machine.DescribeState(nil), nil

	case CommandState:
		return c.machine.DescribeState(nil), nil

	case CommandLogout:
		c.machine.LogoutSupplier()
		return CustomerHelp + c.machine.DescribeState(nil), nil

	case CommandInfo:
		return SupplierHelp, nil

	default:
		return unknownCommand + "\n" + SupplierHelp, nil
	}
}

func (c *Console) session(result machine.Session, err error) (string, bool, error) {
	if err != nil {
		return "", false, err
	}
	return c.machine.DescribeState(&result), false, nil
}

func (c *Console) println(text string) {
	fmt.Fprintln(c.out, text)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// quantityArg parses args[i] as a quantity, defaulting to 1 when absent
func quantityArg(args []string, i int) (int, error) {
	value := arg(args, i)
	if value == "" {
		return 1, nil
	}
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", value)
	}
	return quantity, nil
}

// message returns the customer-facing text of an error
func message(err error) string {
	var machineErr *machine.Error
	if errors.As(err, &machineErr) {
		return machineErr.Message
	}
	return err.Error()
}
