package server

import (
	"errors"
	"net/http"

	"github.com/aristath/vending/internal/machine"
)

// Error codes
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	kind   error
	code   string
	status int
}{
	{machine.ErrWrongRole, "WRONG_ROLE", http.StatusForbidden},
	{machine.ErrInvalidCredential, "INVALID_CREDENTIAL", http.StatusUnauthorized},
	{machine.ErrUnknownProduct, "UNKNOWN_PRODUCT", http.StatusNotFound},
	{machine.ErrInsufficientStock, "INSUFFICIENT_STOCK", http.StatusConflict},
	{machine.ErrInvalidQuantity, "INVALID_QUANTITY", http.StatusConflict},
	{machine.ErrUnsupportedCash, "UNSUPPORTED_CASH", http.StatusConflict},
	{machine.ErrNoActivePurchase, "NO_ACTIVE_PURCHASE", http.StatusConflict},
	{machine.ErrPaymentStarted, "PAYMENT_STARTED", http.StatusConflict},
	{machine.ErrInsufficientChange, "INSUFFICIENT_CHANGE", http.StatusConflict},
	{machine.ErrTransactionInProgress, "TRANSACTION_IN_PROGRESS", http.StatusConflict},
	{machine.ErrInvalidScope, "INVALID_SCOPE", http.StatusConflict},
	{machine.ErrValidation, "VALIDATION_FAILED", http.StatusConflict},
}

// classify maps an error to its HTTP status, error code and message
func classify(err error) (status int, code, message string, details *machine.Metadata) {
	var machineErr *machine.Error
	if !errors.As(err, &machineErr) {
		return http.StatusInternalServerError, CodeInternal, err.Error(), nil
	}

	for _, e := range errorCodes {
		if errors.Is(err, e.kind) {
			return e.status, e.code, machineErr.Message, machineErr.Metadata
		}
	}

	return http.StatusConflict, "MACHINE_ERROR", machineErr.Message, machineErr.Metadata
}
