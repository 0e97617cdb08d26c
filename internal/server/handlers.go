package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "vending",
	}

	if s.ledgerDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.ledgerDB.HealthCheck(ctx); err != nil {
			s.log.Error().Err(err).Msg("Ledger health check failed")
			response["status"] = "degraded"
			response["ledger"] = err.Error()
			writeJSON(w, s.log, http.StatusServiceUnavailable, response)
			return
		}
		response["ledger"] = "ok"
	}

	writeJSON(w, s.log, http.StatusOK, response)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeData wraps data in the {"data": ...} envelope
func writeData(w http.ResponseWriter, log zerolog.Logger, data interface{}) {
	writeJSON(w, log, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeError writes an error response
func writeError(w http.ResponseWriter, log zerolog.Logger, status int, code, message string, details interface{}) {
	body := map[string]interface{}{
		"message": message,
		"code":    code,
	}
	if details != nil {
		body["details"] = details
	}

	writeJSON(w, log, status, map[string]interface{}{"error": body})
}
