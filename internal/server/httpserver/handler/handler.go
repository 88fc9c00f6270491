package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/core/service"
	"github.com/yndnr/linkdrop-go/internal/telemetry/logger"
)

// Handler serves the linkdrop HTTP endpoints. Routing lives in the
// httpserver package so each route can carry its own middleware.
type Handler struct {
	downloads *service.DownloadService
	logger    *slog.Logger
}

// New creates a new Handler.
func New(downloads *service.DownloadService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		downloads: downloads,
		logger:    log,
	}
}

// MethodNotAllowed answers requests whose path exists but whose method does not.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, r, domain.ErrMethodNotAllowed)
}

// NotFound answers requests for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, domain.ErrRouteNotFound)
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// WriteError writes err as a JSON error response. Domain errors keep their
// code and public message; anything else becomes a generic 500. Causes and
// details are never written to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	de := toDomainError(err)

	setRequestID(w, r)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", de.Code)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(de.HTTPStatus())
	json.NewEncoder(w).Encode(ErrorResponse{Error: de.Message})
}

func toDomainError(err error) *domain.DomainError {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	return domain.ErrInternalServer
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if w.Header().Get("X-Request-ID") != "" {
		return
	}
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		w.Header().Set("X-Request-ID", id)
	}
}
