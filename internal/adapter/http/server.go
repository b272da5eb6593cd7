// Package http exposes the analysis API and operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-analytics/internal/adapter/openweather"
	"github.com/couchcryptid/temperature-analytics/internal/domain"
	"github.com/couchcryptid/temperature-analytics/internal/ingest"
	"github.com/couchcryptid/temperature-analytics/internal/observability"
	"github.com/couchcryptid/temperature-analytics/internal/pipeline"
	"github.com/couchcryptid/temperature-analytics/internal/store"
)

// Analyzer runs the batch pipeline and live classification.
type Analyzer interface {
	Analyze(ctx context.Context, records []domain.TemperatureRecord, window int) (*pipeline.Analysis, error)
	ClassifyLive(ctx context.Context, analysis *pipeline.Analysis, city string) (domain.Classification, error)
	CheckReadiness(ctx context.Context) error
}

// AnalysisStore holds completed analyses for the read endpoints.
type AnalysisStore interface {
	Put(a *pipeline.Analysis)
	Get(id string) (*pipeline.Analysis, error)
	Latest() (*pipeline.Analysis, error)
}

// Server exposes the dataset analysis API plus health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	store      AnalysisStore
	metrics    *observability.Metrics
	logger     *slog.Logger

	defaultWindow  int
	maxUploadBytes int64
}

// NewServer creates the API server.
//
// Routes:
//
//	POST /v1/datasets                          upload a CSV dataset, run the pipeline
//	GET  /v1/datasets/{id}                     analysis summary ({id} may be "latest")
//	GET  /v1/datasets/{id}/stats?city=         seasonal baseline table
//	GET  /v1/datasets/{id}/anomalies?city=     flagged records
//	GET  /v1/datasets/{id}/cities/{city}/live  live reading classification
//	GET  /healthz, /readyz, /metrics
func NewServer(addr string, analyzer Analyzer, st AnalysisStore, metrics *observability.Metrics, logger *slog.Logger, defaultWindow int, maxUploadBytes int64) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer:       analyzer,
		store:          st,
		metrics:        metrics,
		logger:         logger,
		defaultWindow:  defaultWindow,
		maxUploadBytes: maxUploadBytes,
	}

	mux.HandleFunc("POST /v1/datasets", s.handleUpload)
	mux.HandleFunc("GET /v1/datasets/{id}", s.handleDataset)
	mux.HandleFunc("GET /v1/datasets/{id}/stats", s.handleStats)
	mux.HandleFunc("GET /v1/datasets/{id}/anomalies", s.handleAnomalies)
	mux.HandleFunc("GET /v1/datasets/{id}/cities/{city}/live", s.handleLive)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// datasetResponse is the summary returned after an upload and from the
// dataset endpoint.
type datasetResponse struct {
	ID         string                `json:"id"`
	AnalyzedAt time.Time             `json:"analyzed_at"`
	Window     int                   `json:"window"`
	Records    int                   `json:"records"`
	Groups     int                   `json:"groups"`
	Anomalies  int                   `json:"anomalies"`
	Cities     []string              `json:"cities"`
	Summary    domain.DatasetSummary `json:"summary"`
}

func toDatasetResponse(a *pipeline.Analysis) datasetResponse {
	return datasetResponse{
		ID:         a.ID,
		AnalyzedAt: a.AnalyzedAt,
		Window:     a.Window,
		Records:    len(a.Records),
		Groups:     len(a.Stats),
		Anomalies:  len(a.Anomalies),
		Cities:     a.Cities(),
		Summary:    a.Summary,
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	window := s.defaultWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = n
	}

	body := http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	records, err := ingest.ReadDataset(body)
	if err != nil {
		s.metrics.IngestErrors.Inc()
		s.logger.Warn("upload rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), records, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.store.Put(analysis)

	writeJSON(w, http.StatusCreated, toDatasetResponse(analysis))
}

// lookup resolves a dataset path ID, treating "latest" as the most recent
// upload.
func (s *Server) lookup(w http.ResponseWriter, id string) (*pipeline.Analysis, bool) {
	var (
		analysis *pipeline.Analysis
		err      error
	)
	if id == "latest" {
		analysis, err = s.store.Latest()
	} else {
		analysis, err = s.store.Get(id)
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "dataset not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return analysis, true
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDatasetResponse(analysis))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	stats := analysis.StatsFor(r.URL.Query().Get("city"))
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}
	anomalies := analysis.AnomaliesFor(r.URL.Query().Get("city"))
	writeJSON(w, http.StatusOK, map[string]any{"anomalies": anomalies})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.lookup(w, r.PathValue("id"))
	if !ok {
		return
	}

	classification, err := s.analyzer.ClassifyLive(r.Context(), analysis, r.PathValue("city"))
	if err != nil {
		if errors.Is(err, pipeline.ErrLiveDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		// Surface the provider's message verbatim; the stored historical
		// analysis is unaffected by a failed fetch.
		var apiErr *openweather.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Message)
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, classification)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.analyzer.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
