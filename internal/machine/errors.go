package machine

import (
	"errors"
)

// Error kinds. Every *Error carries one of these as its Kind, so callers can
// branch with errors.Is(err, machine.ErrInsufficientChange).
var (
	ErrValidation            = errors.New("validation failed")
	ErrWrongRole             = errors.New("operation not allowed for current role")
	ErrUnknownProduct        = errors.New("unknown product")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrUnsupportedCash       = errors.New("unsupported cash")
	ErrNoActivePurchase      = errors.New("no active purchase")
	ErrPaymentStarted        = errors.New("payment already started")
	ErrInvalidCredential     = errors.New("invalid credential")
	ErrInsufficientChange    = errors.New("insufficient change")
	ErrTransactionInProgress = errors.New("transaction in progress")
	ErrInvalidScope          = errors.New("invalid cancel scope")
)

// Issue describes one failed validation rule
type Issue struct {
	Property string `json:"property"`
	Value    any    `json:"value,omitempty"`
	Message  string `json:"message"`
}

// Metadata carries the optional details of an Error
type Metadata struct {
	Property string         `json:"property,omitempty"`
	Issues   []Issue        `json:"issues,omitempty"`
	Values   map[string]any `json:"values,omitempty"`
}

// Error is the single structured error returned by the machine.
type Error struct {
	Kind     error
	Message  string
	Cause    error
	Metadata *Metadata
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func newErrorWithValues(kind error, message string, values map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Metadata: &Metadata{Values: values}}
}

func validationError(message, property string, issues []Issue) *Error {
	return &Error{
		Kind:     ErrValidation,
		Message:  message,
		Metadata: &Metadata{Property: property, Issues: issues},
	}
}
