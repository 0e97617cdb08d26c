package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// LedgerHandler handles sales ledger HTTP requests
type LedgerHandler struct {
	sales SalesStore
	log   zerolog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(sales SalesStore, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		sales: sales,
		log:   log.With().Str("handler", "ledger").Logger(),
	}
}

// RegisterRoutes registers all ledger routes
func (h *LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/sales", h.HandleGetSales)
		r.Get("/summary", h.HandleGetSummary)
	})
}

// HandleGetSales handles GET /api/ledger/sales?limit=N
func (h *LedgerHandler) HandleGetSales(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			writeError(w, h.log, http.StatusBadRequest, CodeBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	entries, err := h.sales.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list sales")
		writeError(w, h.log, http.StatusInternalServerError, CodeInternal, "Failed to list sales", nil)
		return
	}

	writeData(w, h.log, entries)
}

// HandleGetSummary handles GET /api/ledger/summary
func (h *LedgerHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sales.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to summarize sales")
		writeError(w, h.log, http.StatusInternalServerError, CodeInternal, "Failed to summarize sales", nil)
		return
	}

	writeData(w, h.log, summary)
}
