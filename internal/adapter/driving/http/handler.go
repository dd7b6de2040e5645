// Package httphandler is the HTTP driving adapter: it exposes replication
// triggers, run history and credential management as a JSON API.
package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/stitchsync/internal/application"
	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	replicationSvc *application.ReplicationService
	credentialSvc  *application.CredentialService
	metrics        http.Handler
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. metrics may
// be nil, in which case /metrics is not served.
func NewHandler(
	replicationSvc *application.ReplicationService,
	credentialSvc *application.CredentialService,
	metrics http.Handler,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		replicationSvc: replicationSvc,
		credentialSvc:  credentialSvc,
		metrics:        metrics,
		logger:         logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request ID, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/sources/{id}/sync", h.TriggerSync)
	mux.HandleFunc("GET /api/v1/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/v1/credentials", h.ListCredentials)
	mux.HandleFunc("PUT /api/v1/credentials/stitch", h.SetStitchCredentials)
	mux.HandleFunc("DELETE /api/v1/credentials/stitch", h.DeleteStitchCredentials)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// TriggerSync starts a replication job for the source in the path and
// returns the recorded run.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	sourceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	run, err := h.replicationSvc.Trigger(r.Context(), sourceID)
	if err == nil {
		writeJSON(w, http.StatusCreated, toRunResponse(run))
		return
	}

	var (
		cfgErr    *model.ConfigurationError
		remoteErr *model.RemoteCallError
	)
	switch {
	case errors.Is(err, application.ErrNoCredentials):
		writeError(w, http.StatusServiceUnavailable, "stitch credentials not configured")
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &remoteErr):
		writeJSON(w, http.StatusBadGateway, triggerErrorResponse{
			Error: err.Error(),
			Run:   toRunResponse(run),
		})
	default:
		h.logger.Error("failed to trigger replication", "source_id", sourceID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListRuns returns recent replication runs, optionally filtered by source_id.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	var sourceID int64
	if v := r.URL.Query().Get("source_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid source_id")
			return
		}
		sourceID = parsed
	}

	var limit int
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.replicationSvc.ListRuns(r.Context(), sourceID, limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRun returns a single replication run by ID.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := h.replicationSvc.GetRun(r.Context(), id)
	if errors.Is(err, driven.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get run", "run_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(*run))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
