package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/pipeline"
	"github.com/wonny/trendsignal/pkg/logger"
)

// AnalysisHandler handles trend analysis API endpoints
type AnalysisHandler struct {
	analyzer   *pipeline.Analyzer
	advisor    contracts.Advisor
	profiles   contracts.ProfileSource
	reportRepo contracts.ReportRepository
	logger     *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. advisor, profiles
// and reportRepo may be nil; the endpoints that need them respond 503.
func NewAnalysisHandler(analyzer *pipeline.Analyzer, advisor contracts.Advisor, profiles contracts.ProfileSource, reportRepo contracts.ReportRepository, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:   analyzer,
		advisor:    advisor,
		profiles:   profiles,
		reportRepo: reportRepo,
		logger:     log,
	}
}

type reportRequest struct {
	Symbol string `json:"stock_id"`
}

// GetReport runs the full analysis pipeline for a symbol
// POST /api/v1/stock/report
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbol, ok := decodeSymbol(w, r)
	if !ok {
		return
	}

	report, err := h.analyzer.Analyze(ctx, symbol)
	if err != nil {
		h.respondAnalysisError(w, symbol, err)
		return
	}

	if h.reportRepo != nil {
		if err := h.reportRepo.SaveReport(ctx, report); err != nil {
			h.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to persist report")
		}
	}

	respondJSON(w, http.StatusOK, report)
}

// GetAdvice runs the pipeline and asks the configured advisor for a
// suggestion based on the report
// POST /api/v1/stock/llm-report
func (h *AnalysisHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.advisor == nil {
		respondError(w, http.StatusServiceUnavailable, "advisor is not configured")
		return
	}

	symbol, ok := decodeSymbol(w, r)
	if !ok {
		return
	}

	report, err := h.analyzer.Analyze(ctx, symbol)
	if err != nil {
		h.respondAnalysisError(w, symbol, err)
		return
	}

	advice, err := h.advisor.Advise(ctx, symbol, report)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Advisor failed")
		respondError(w, http.StatusBadGateway, "failed to generate advice")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stock_id":   symbol,
		"suggestion": advice.Suggestion,
		"reason":     advice.Reason,
	})
}

// GetProfile returns sector and industry classification for a symbol
// GET /api/v1/stocks/{symbol}/profile
func (h *AnalysisHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "profile source is not configured")
		return
	}

	symbol := normalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	profile, err := h.profiles.FetchProfile(ctx, symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Profile fetch failed")
		respondError(w, http.StatusBadGateway, "profile unavailable for "+symbol)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetLatestReport returns the most recently stored report for a symbol
// GET /api/v1/stocks/{symbol}/reports/latest
func (h *AnalysisHandler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.reportRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	symbol := normalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	report, err := h.getLatestReport(ctx, symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load report")
		respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "no report for symbol")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (h *AnalysisHandler) getLatestReport(ctx context.Context, symbol string) (*contracts.TrendReport, error) {
	return h.reportRepo.GetLatestReport(ctx, symbol)
}

func (h *AnalysisHandler) respondAnalysisError(w http.ResponseWriter, symbol string, err error) {
	switch {
	case errors.Is(err, contracts.ErrDataUnavailable):
		respondError(w, http.StatusBadGateway, "market data unavailable for "+symbol)
	case errors.Is(err, contracts.ErrInvalidSeries), errors.Is(err, contracts.ErrInsufficientData):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).WithField("symbol", symbol).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func decodeSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "stock_id is required")
		return "", false
	}
	return symbol, true
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
