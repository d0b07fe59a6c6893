// Package server exposes the analysis engine over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/proptools/buyrent-analyzer/internal/analysis"
	"github.com/proptools/buyrent-analyzer/internal/cache"
	"github.com/proptools/buyrent-analyzer/internal/params"
	"github.com/proptools/buyrent-analyzer/internal/sensitivity"
	"github.com/proptools/buyrent-analyzer/pkg/constants"
	"github.com/proptools/buyrent-analyzer/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const sensitivityCacheTTL = time.Hour

type handler struct {
	logger         *zap.Logger
	engine         *analysis.Engine
	analyzer       *sensitivity.Analyzer
	resultCache    cache.Cache
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the analysis API.
// A nil resultCache disables sensitivity-grid caching.
func NewHandler(logger *zap.Logger, resultCache cache.Cache, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	engine := analysis.NewEngine(logger)
	h := &handler{
		logger:         logger,
		engine:         engine,
		analyzer:       sensitivity.NewAnalyzer(engine, logger),
		resultCache:    resultCache,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}

	mux := http.NewServeMux()

	// Single-scenario analysis
	mux.HandleFunc("/api/analysis", h.handleAnalysis)

	// Sensitivity sweeps (grid and tornado)
	mux.HandleFunc("/api/sensitivity", h.handleSensitivity)

	// Parameter export for saving a session as YAML
	mux.HandleFunc("/api/export", h.handleParameterExport)

	// Metric list for axis pickers
	mux.HandleFunc("/api/metrics", h.handleMetrics)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type analysisRequest struct {
	Parameters json.RawMessage `json:"parameters"`
}

type analysisResponse struct {
	Result        *analysis.NPVResult      `json:"result"`
	TerminalValue analysis.TerminalValue   `json:"terminal_value"`
	BreakEven     analysis.BreakEvenResult `json:"break_even"`
	Warnings      []string                 `json:"warnings,omitempty"`
	CSV           string                   `json:"csv"`
	Duration      string                   `json:"duration"`
}

type sensitivityRequest struct {
	Parameters    json.RawMessage `json:"parameters"`
	XMetric       string          `json:"x_metric"`
	YMetric       string          `json:"y_metric"`
	XOffsets      []float64       `json:"x_offsets"`
	YOffsets      []float64       `json:"y_offsets"`
	TornadoOffset float64         `json:"tornado_offset,omitempty"`
}

type sensitivityResponse struct {
	Grid     *sensitivity.GridResult    `json:"grid"`
	Tornado  []sensitivity.TornadoEntry `json:"tornado,omitempty"`
	Cached   bool                       `json:"cached"`
	Duration string                     `json:"duration"`
}

// resolveParameters decodes a partial parameter payload on top of the
// documented defaults. This is the only place request parameters resolve
// to defaults; missing fields never surface as unbound values downstream.
func resolveParameters(raw json.RawMessage) (params.ParameterSet, error) {
	resolved := params.Defaults()
	if len(raw) == 0 {
		return resolved, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&resolved); err != nil {
		return resolved, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return resolved, nil
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req analysisRequest
	if !h.decodeRequest(w, r, &req, "server.handleAnalysis") {
		return
	}

	p, err := resolveParameters(req.Parameters)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleAnalysis")
		return
	}

	result, err := h.engine.Compare(p)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleAnalysis")
		return
	}

	var csvBuffer bytes.Buffer
	output.CsvFormat(&csvBuffer, result)

	h.writeJSON(w, http.StatusOK, analysisResponse{
		Result:        result,
		TerminalValue: analysis.ComputeTerminalValue(p),
		BreakEven:     h.engine.BreakEven(result),
		Warnings:      p.Validate(),
		CSV:           csvBuffer.String(),
		Duration:      time.Since(start).String(),
	})
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req sensitivityRequest
	if !h.decodeRequest(w, r, &req, "server.handleSensitivity") {
		return
	}

	if cached, ok := h.cachedSensitivity(r.Context(), req); ok {
		cached.Cached = true
		cached.Duration = time.Since(start).String()
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	p, err := resolveParameters(req.Parameters)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleSensitivity")
		return
	}

	grid, err := h.analyzer.Grid2D(p, req.XMetric, req.YMetric, req.XOffsets, req.YOffsets)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleSensitivity")
		return
	}

	resp := sensitivityResponse{Grid: grid}
	if req.TornadoOffset > 0 {
		tornado, err := h.analyzer.Tornado(p, req.TornadoOffset)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleSensitivity")
			return
		}
		resp.Tornado = tornado
	}

	h.storeSensitivity(r.Context(), req, resp)
	resp.Duration = time.Since(start).String()
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleParameterExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req analysisRequest
	if !h.decodeRequest(w, r, &req, "server.handleParameterExport") {
		return
	}

	p, err := resolveParameters(req.Parameters)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleParameterExport")
		return
	}

	encoded, err := yaml.Marshal(map[string]params.ParameterSet{"parameters": p})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to encode parameters: %v", err), "server.handleParameterExport")
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="buyrent-parameters.yml"`)
	if _, err := w.Write(encoded); err != nil {
		h.logger.Error("failed to write YAML response",
			zap.String("op", "server.handleParameterExport"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": sensitivity.AvailableMetrics(),
		"keys":    params.MetricKeys(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// decodeRequest reads and decodes a JSON body, enforcing the configured
// size limit. Returns false after responding to the client on failure.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) sensitivityCacheKey(req sensitivityRequest) (string, bool) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	digest := sha256.Sum256(encoded)
	return "sensitivity:" + hex.EncodeToString(digest[:]), true
}

func (h *handler) cachedSensitivity(ctx context.Context, req sensitivityRequest) (sensitivityResponse, bool) {
	var resp sensitivityResponse
	if h.resultCache == nil {
		return resp, false
	}
	key, ok := h.sensitivityCacheKey(req)
	if !ok {
		return resp, false
	}
	encoded, ok := h.resultCache.Get(ctx, key)
	if !ok {
		return resp, false
	}
	if err := json.Unmarshal([]byte(encoded), &resp); err != nil {
		h.logger.Warn("discarding malformed cached sensitivity result",
			zap.String("op", "server.cachedSensitivity"),
			zap.Error(err),
		)
		return sensitivityResponse{}, false
	}
	return resp, true
}

func (h *handler) storeSensitivity(ctx context.Context, req sensitivityRequest, resp sensitivityResponse) {
	if h.resultCache == nil {
		return
	}
	key, ok := h.sensitivityCacheKey(req)
	if !ok {
		return
	}
	encoded, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.resultCache.Set(ctx, key, string(encoded), sensitivityCacheTTL); err != nil {
		h.logger.Warn("failed to cache sensitivity result",
			zap.String("op", "server.storeSensitivity"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("analysis request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
