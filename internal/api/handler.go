// Package api implements the hosted audit service REST API: job submission
// and read endpoints backed by Postgres.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/internal/store"
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// listJobsLimit caps the default job listing.
const listJobsLimit = 50

// Handler is the top-level API handler for the hosted audit service.
type Handler struct {
	db     *sql.DB
	store  *store.Store
	runner *Runner
	logger zerolog.Logger
}

// NewHandler creates an API handler.
func NewHandler(db *sql.DB, st *store.Store, runner *Runner, logger zerolog.Logger) *Handler {
	return &Handler{
		db:     db,
		store:  st,
		runner: runner,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes registers all API routes on the given ServeMux. The auth
// middleware guards the audit endpoints only; health and metrics stay open
// for probes and scrapers.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /v1/audits", auth(http.HandlerFunc(h.handleCreateAudit)))
	mux.Handle("GET /v1/audits", auth(http.HandlerFunc(h.handleListAudits)))
	mux.Handle("GET /v1/audits/{jobID}", auth(http.HandlerFunc(h.handleGetAudit)))
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

type createAuditRequest struct {
	URLs []string `json:"urls"`
}

type jobResponse struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	URLs      []string         `json:"urls"`
	Error     *string          `json:"error,omitempty"`
	CreatedAt string           `json:"created_at"`
	Records   []recordResponse `json:"records,omitempty"`
}

type recordResponse struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	NetScore       float64         `json:"net_score"`
	Breakdown      json.RawMessage `json:"breakdown"`
	TotalLatencyMs int64           `json:"total_latency_ms"`
}

func jobToResponse(j *store.Job) jobResponse {
	return jobResponse{
		ID:        j.ID,
		Status:    j.Status,
		URLs:      j.URLs,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls is required")
		return
	}

	// Reject malformed URLs up front so the job never starts in a state
	// that cannot produce records.
	if _, err := artifact.BuildRecords(req.URLs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.store.CreateJob(r.Context(), req.URLs)
	if err != nil {
		h.logger.Error().Err(err).Msg("create job")
		writeError(w, http.StatusInternalServerError, "failed to create audit")
		return
	}

	h.runner.Submit(job)
	writeJSON(w, http.StatusAccepted, jobToResponse(job))
}

func (h *Handler) handleListAudits(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListJobs(r.Context(), listJobsLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list jobs")
		writeError(w, http.StatusInternalServerError, "failed to list audits")
		return
	}

	out := make([]jobResponse, len(jobs))
	for i := range jobs {
		out[i] = jobToResponse(&jobs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"audits": out})
}

func (h *Handler) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	job, err := h.store.GetJob(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("job", jobID).Msg("get job")
		writeError(w, http.StatusInternalServerError, "failed to load audit")
		return
	}

	records, err := h.store.ListRecordsByJob(r.Context(), jobID)
	if err != nil {
		h.logger.Error().Err(err).Str("job", jobID).Msg("list records")
		writeError(w, http.StatusInternalServerError, "failed to load audit records")
		return
	}

	resp := jobToResponse(job)
	for _, rec := range records {
		resp.Records = append(resp.Records, recordResponse{
			Name:           rec.Name,
			Category:       rec.Category,
			NetScore:       rec.NetScore,
			Breakdown:      rec.Breakdown,
			TotalLatencyMs: rec.TotalLatencyMs,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
