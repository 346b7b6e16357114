package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/models"
	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// handleIndex returns basic service information
// GET / - Returns service info and available endpoints
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service":     "Ledger Origin",
		"version":     "1.0.0",
		"description": "Resolves when an account first appeared on a ledger",
		"backend":     s.origins.Backend(),
		"endpoints": map[string]string{
			"GET /":                          "This page - Service information",
			"GET /health":                    "Health check endpoint",
			"GET /metrics":                   "Prometheus metrics for monitoring",
			"GET /accounts/{address}/origin": "Resolve the earliest recorded activity of an account",
			"GET /origins":                   "List logged lookups (supports ?account=, ?limit=, ?offset=)",
		},
	}

	s.sendJSON(w, info, http.StatusOK)
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "ledger-origin",
		"backend":   s.origins.Backend(),
	}

	if err := s.origins.Ping(r.Context()); err != nil {
		slog.Warn("Health check: database unreachable", "error", err)
		health["status"] = "unhealthy"
		health["database"] = err.Error()
		s.sendJSON(w, health, http.StatusServiceUnavailable)
		return
	}

	s.sendJSON(w, health, http.StatusOK)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// handleGetOrigin resolves an account's earliest record
// GET /accounts/{address}/origin
func (s *Server) handleGetOrigin(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	result, err := s.origins.Resolve(r.Context(), address)
	if err != nil {
		s.sendResolveError(w, address, err)
		return
	}

	s.sendJSON(w, models.OriginResponse{
		Backend:      s.origins.Backend(),
		Account:      string(result.Account),
		Signature:    result.Signature,
		Slot:         result.Slot,
		CreatedAt:    result.Time,
		CreatedAtUTC: result.Time.Format(history.DateTimeLayout),
		PagesFetched: result.PagesFetched,
	}, http.StatusOK)
}

// handleListOrigins lists the lookup log
// GET /origins?account=...&limit=50&offset=0
func (s *Server) handleListOrigins(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := parseNonNegative(query.Get("limit"), 50)
	if err != nil {
		s.sendError(w, "limit must be a non-negative integer", http.StatusBadRequest)
		return
	}
	offset, err := parseNonNegative(query.Get("offset"), 0)
	if err != nil {
		s.sendError(w, "offset must be a non-negative integer", http.StatusBadRequest)
		return
	}

	filter := models.LookupFilter{
		Account: query.Get("account"),
		Limit:   limit,
		Offset:  offset,
	}

	lookups, err := s.origins.Lookups(r.Context(), filter)
	if errors.Is(err, services.ErrNoRepository) {
		s.sendError(w, "Lookup log is not configured", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		slog.Error("Failed to list lookups", "account", filter.Account, "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if lookups == nil {
		lookups = []models.OriginLookup{}
	}

	s.sendJSON(w, models.LookupListResponse{
		Lookups: lookups,
		Count:   len(lookups),
		Limit:   limit,
		Offset:  offset,
	}, http.StatusOK)
}

// statusFor maps a lookup failure to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, history.ErrInvalidAccount):
		return http.StatusBadRequest
	case errors.Is(err, origin.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, origin.ErrMissingTimestamp), errors.Is(err, origin.ErrHistoryTooDeep):
		return http.StatusUnprocessableEntity
	case errors.Is(err, origin.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendResolveError(w http.ResponseWriter, address string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Origin lookup failed", "account", address, "error", err)
	}

	s.sendJSON(w, models.ErrorResponse{
		Error:   http.StatusText(code),
		Kind:    origin.KindName(err),
		Account: address,
		Message: err.Error(),
		Code:    code,
	}, code)
}

// sendError sends a JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	s.sendJSON(w, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	}, code)
}

func (s *Server) sendJSON(w http.ResponseWriter, body any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func parseNonNegative(raw string, defaultVal int) (int, error) {
	if raw == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, errors.New("invalid value")
	}
	return val, nil
}
