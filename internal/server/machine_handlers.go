package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/machine"
	"github.com/aristath/vending/internal/money"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 16

// MachineHandler handles machine, session and supplier HTTP requests
type MachineHandler struct {
	machine *machine.Machine
	log     zerolog.Logger
}

// NewMachineHandler creates a new machine handler
func NewMachineHandler(m *machine.Machine, log zerolog.Logger) *MachineHandler {
	return &MachineHandler{
		machine: m,
		log:     log.With().Str("handler", "machine").Logger(),
	}
}

// RegisterRoutes registers all machine routes
func (h *MachineHandler) RegisterRoutes(r chi.Router) {
	r.Route("/machine", func(r chi.Router) {
		r.Get("/state", h.HandleGetState)
		r.Get("/products", h.HandleGetProducts)
		r.Get("/cash", h.HandleGetCash)
	})

	r.Route("/session", func(r chi.Router) {
		r.Post("/select", h.HandleSelect)
		r.Post("/remove", h.HandleRemove)
		r.Post("/pay", h.HandlePay)
		r.Post("/cancel", h.HandleCancel)
	})

	r.Route("/supplier", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/logout", h.HandleLogout)
		r.Post("/restore", h.HandleRestore)
		r.Get("/audit", h.HandleAudit)
	})
}

// ProductRequest is the body of select and remove requests
type ProductRequest struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity,omitempty"`
}

// PayRequest is the body of pay requests. Cash is a decimal string.
type PayRequest struct {
	Cash     string `json:"cash"`
	Quantity *int   `json:"quantity,omitempty"`
}

// CancelRequest is the body of cancel requests
type CancelRequest struct {
	Scope string `json:"scope"`
}

// LoginRequest is the body of supplier login requests
type LoginRequest struct {
	Password string `json:"password"`
}

// HandleGetState handles GET /api/machine/state
func (h *MachineHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.log, h.machine.Snapshot())
}

// HandleGetProducts handles GET /api/machine/products
func (h *MachineHandler) HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.log, h.machine.Inventory())
}

// HandleGetCash handles GET /api/machine/cash
// Returns the accepted denominations, largest first
func (h *MachineHandler) HandleGetCash(w http.ResponseWriter, r *http.Request) {
	accepted := h.machine.AcceptedCash()
	cash := make([]string, len(accepted))
	for i, c := range accepted {
		cash[i] = c.String()
	}
	writeData(w, h.log, map[string]interface{}{"accepted": cash})
}

// HandleSelect handles POST /api/session/select
func (h *MachineHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.machine.Select(req.Product, quantityOrDefault(req.Quantity))
	h.writeSession(w, session, err)
}

// HandleRemove handles POST /api/session/remove
func (h *MachineHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.machine.Remove(req.Product, quantityOrDefault(req.Quantity))
	h.writeSession(w, session, err)
}

// HandlePay handles POST /api/session/pay
func (h *MachineHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if !h.decode(w, r, &req) {
		return
	}

	cash, err := money.Parse(req.Cash)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}

	session, err := h.machine.Pay(cash, quantityOrDefault(req.Quantity))
	h.writeSession(w, session, err)
}

// HandleCancel handles POST /api/session/cancel
// An empty body or scope cancels everything
func (h *MachineHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	scope, err := machine.ParseCancelScope(req.Scope)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}

	session, err := h.machine.Cancel(scope)
	h.writeSession(w, session, err)
}

// HandleLogin handles POST /api/supplier/login
func (h *MachineHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.machine.LoginSupplier(req.Password); err != nil {
		h.writeMachineError(w, err)
		return
	}

	writeData(w, h.log, h.machine.Snapshot())
}

// HandleLogout handles POST /api/supplier/logout
func (h *MachineHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.machine.LogoutSupplier()
	writeData(w, h.log, h.machine.Snapshot())
}

// HandleRestore handles POST /api/supplier/restore
func (h *MachineHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	if err := h.machine.Restore(); err != nil {
		h.writeMachineError(w, err)
		return
	}

	writeData(w, h.log, h.machine.Snapshot())
}

// HandleAudit handles GET /api/supplier/audit
func (h *MachineHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	if !h.machine.IsSupplier() {
		writeError(w, h.log, http.StatusForbidden, "WRONG_ROLE", "only supplier can audit the machine", nil)
		return
	}

	report := h.machine.Audit()
	writeData(w, h.log, map[string]interface{}{
		"needs_updates": report.NeedsUpdates(),
		"report":        report,
	})
}

func (h *MachineHandler) writeSession(w http.ResponseWriter, session machine.Session, err error) {
	if err != nil {
		h.writeMachineError(w, err)
		return
	}

	writeData(w, h.log, map[string]interface{}{
		"session": session,
		"text":    h.machine.DescribeState(&session),
	})
}

func (h *MachineHandler) writeMachineError(w http.ResponseWriter, err error) {
	status, code, message, metadata := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Machine operation failed")
	} else {
		h.log.Debug().Err(err).Str("code", code).Msg("Machine operation rejected")
	}

	if metadata == nil {
		writeError(w, h.log, status, code, message, nil)
		return
	}
	writeError(w, h.log, status, code, message, metadata)
}

// decode reads a required JSON body; it writes a 400 and returns false on failure
func (h *MachineHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, h.log, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}
	return true
}

// decodeOptional is decode that accepts an empty body
func (h *MachineHandler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.log, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}
	return true
}

func quantityOrDefault(quantity *int) int {
	if quantity == nil {
		return 1
	}
	return *quantity
}
