package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/history"
	"github.com/wonny/liquidity/internal/monitor"
	"github.com/wonny/liquidity/internal/storage"
	"github.com/wonny/liquidity/pkg/logger"
)

const (
	defaultAlertLimit = 50
	maxAlertLimit     = 500
)

// Monitor is the use-case surface (monitor.Service)
type Monitor interface {
	Analyze(ctx context.Context) (contracts.CompositeResult, error)
	Backfill(ctx context.Context, start time.Time, dryRun bool) (monitor.BackfillReport, error)
	CheckAlerts(ctx context.Context) (monitor.AlertReport, error)
	MoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error)
	Detail(ctx context.Context, region monitor.Region) (monitor.Detail, error)
}

// Reader reads persisted results (storage.Repository)
type Reader interface {
	Latest(ctx context.Context) (contracts.CompositeResult, error)
	History(ctx context.Context, from, to time.Time) ([]contracts.CompositeResult, error)
	LatestMoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error)
	Alerts(ctx context.Context, limit int) ([]contracts.AlertRecord, error)
}

// LiquidityHandler handles liquidity API endpoints
// ⭐ SSOT: 유동성 API 핸들러는 이 구조체에서만
type LiquidityHandler struct {
	monitor Monitor
	reader  Reader
	logger  *logger.Logger
}

// NewLiquidityHandler creates a new liquidity handler
func NewLiquidityHandler(m Monitor, reader Reader, log *logger.Logger) *LiquidityHandler {
	return &LiquidityHandler{
		monitor: m,
		reader:  reader,
		logger:  log.WithField("module", "api"),
	}
}

// GetLatest returns the stored latest result
// GET /api/liquidity/latest
func (h *LiquidityHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.reader.Latest(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No analysis stored yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest result")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest result")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetHistory returns stored results between optional dates
// GET /api/liquidity/history?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *LiquidityHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		respondError(w, http.StatusBadRequest, "'to' must not be before 'from'")
		return
	}

	results, err := h.reader.History(r.Context(), from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	if results == nil {
		results = []contracts.CompositeResult{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// Analyze runs a live analysis and stores it
// POST /api/liquidity/analyze
func (h *LiquidityHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.monitor.Analyze(r.Context())
	if err != nil {
		h.respondRunError(w, "analyze", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// BackfillRequest represents a backfill request
type BackfillRequest struct {
	Start  string `json:"start" validate:"required,datetime=2006-01-02"`
	DryRun bool   `json:"dry_run"`
}

// Backfill rebuilds history from a start date
// POST /api/liquidity/backfill
func (h *LiquidityHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	var req BackfillRequest
	if errs := decodeAndValidate(r, &req); errs != nil {
		respondValidation(w, errs)
		return
	}

	start, _ := time.Parse(contracts.DateLayout, req.Start)

	h.logger.WithFields(map[string]interface{}{
		"start":   req.Start,
		"dry_run": req.DryRun,
	}).Info("Backfill triggered")

	report, err := h.monitor.Backfill(r.Context(), start, req.DryRun)
	if err != nil {
		h.respondRunError(w, "backfill", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// CheckAlerts evaluates the alert rules now
// POST /api/liquidity/alerts/check
func (h *LiquidityHandler) CheckAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := h.monitor.CheckAlerts(r.Context())
	if err != nil {
		h.respondRunError(w, "alert check", err)
		return
	}
	if report.Alerts == nil {
		report.Alerts = []contracts.Alert{}
	}

	respondJSON(w, http.StatusOK, report)
}

// GetAlerts returns the most recent alert records
// GET /api/liquidity/alerts?limit=N
func (h *LiquidityHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAlertLimit {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	records, err := h.reader.Alerts(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get alerts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	if records == nil {
		records = []contracts.AlertRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}

// GetMoneyMarket returns the stored latest money-market reading
// GET /api/liquidity/monitor
func (h *LiquidityHandler) GetMoneyMarket(w http.ResponseWriter, r *http.Request) {
	reading, err := h.reader.LatestMoneyMarket(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No money market reading stored yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get money market reading")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve money market reading")
		return
	}

	respondJSON(w, http.StatusOK, reading)
}

// RefreshMoneyMarket takes and stores a new money-market reading
// POST /api/liquidity/monitor
func (h *LiquidityHandler) RefreshMoneyMarket(w http.ResponseWriter, r *http.Request) {
	reading, err := h.monitor.MoneyMarket(r.Context())
	if err != nil {
		h.respondRunError(w, "money market", err)
		return
	}

	respondJSON(w, http.StatusOK, reading)
}

// GetDetail returns a regional drill-down
// GET /api/liquidity/detail/{region}
func (h *LiquidityHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	region, err := monitor.ParseRegion(mux.Vars(r)["region"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	detail, err := h.monitor.Detail(r.Context(), region)
	if err != nil {
		h.respondRunError(w, "detail", err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// respondRunError maps use-case errors to status codes
func (h *LiquidityHandler) respondRunError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, history.ErrInsufficientData) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.logger.WithError(err).WithField("op", op).Error("Request failed")
	respondError(w, http.StatusInternalServerError, "Failed to run "+op)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(contracts.DateLayout, raw)
}
