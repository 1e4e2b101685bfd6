package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/api/handlers"
	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/history"
	"github.com/wonny/liquidity/internal/monitor"
	"github.com/wonny/liquidity/internal/storage"
	"github.com/wonny/liquidity/pkg/logger"
	"github.com/wonny/liquidity/pkg/metrics"
)

var refDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

type stubMonitor struct {
	analyzeErr  error
	backfillErr error
	panicDetail bool

	backfillStart time.Time
	backfillDry   bool
}

func (s *stubMonitor) Analyze(ctx context.Context) (contracts.CompositeResult, error) {
	if s.analyzeErr != nil {
		return contracts.Degraded(refDate, s.analyzeErr), s.analyzeErr
	}
	return contracts.CompositeResult{Score: 65, Signal: contracts.SignalExtremeLiquidity, Timestamp: refDate}, nil
}

func (s *stubMonitor) Backfill(ctx context.Context, start time.Time, dryRun bool) (monitor.BackfillReport, error) {
	s.backfillStart, s.backfillDry = start, dryRun
	if s.backfillErr != nil {
		return monitor.BackfillReport{}, s.backfillErr
	}
	return monitor.BackfillReport{RunID: "run-1", Start: start, Count: 3, DryRun: dryRun}, nil
}

func (s *stubMonitor) CheckAlerts(ctx context.Context) (monitor.AlertReport, error) {
	return monitor.AlertReport{BatchID: "batch-1"}, nil
}

func (s *stubMonitor) MoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error) {
	return contracts.MoneyMarketReading{Condition: contracts.ConditionExcess}, nil
}

func (s *stubMonitor) Detail(ctx context.Context, region monitor.Region) (monitor.Detail, error) {
	if s.panicDetail {
		panic("boom")
	}
	return monitor.Detail{Region: region, Assessment: "neutral"}, nil
}

type stubReader struct {
	latestErr error
	results   []contracts.CompositeResult

	from, to time.Time
	limit    int
}

func (s *stubReader) Latest(ctx context.Context) (contracts.CompositeResult, error) {
	if s.latestErr != nil {
		return contracts.CompositeResult{}, s.latestErr
	}
	return contracts.CompositeResult{Score: 12, Signal: contracts.SignalNeutral, Timestamp: refDate}, nil
}

func (s *stubReader) History(ctx context.Context, from, to time.Time) ([]contracts.CompositeResult, error) {
	s.from, s.to = from, to
	return s.results, nil
}

func (s *stubReader) LatestMoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error) {
	return contracts.MoneyMarketReading{}, storage.ErrNotFound
}

func (s *stubReader) Alerts(ctx context.Context, limit int) ([]contracts.AlertRecord, error) {
	s.limit = limit
	return nil, nil
}

func newTestRouter(m *stubMonitor, rd *stubReader, rec *metrics.Recorder) http.Handler {
	log := logger.Nop()
	h := handlers.NewLiquidityHandler(m, rd, log)
	return NewRouter(h, handlers.NewHub(rd, log), rec, log)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(&stubMonitor{}, &stubReader{}, nil), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetLatest(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"stored", nil, http.StatusOK},
		{"empty table", storage.ErrNotFound, http.StatusNotFound},
		{"db failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubMonitor{}, &stubReader{latestErr: tt.err}, nil)
			w := do(t, router, "GET", "/api/liquidity/latest", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"signal":"neutral"`)
			}
		})
	}
}

func TestGetHistory(t *testing.T) {
	rd := &stubReader{}
	router := newTestRouter(&stubMonitor{}, rd, nil)

	w := do(t, router, "GET", "/api/liquidity/history?from=2024-01-01&to=2024-01-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"results":[]}`, w.Body.String())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rd.from)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), rd.to)

	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/liquidity/history?from=01/01/2024", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/liquidity/history?from=2024-02-01&to=2024-01-01", "").Code)
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"no anchor data", fmt.Errorf("live: %w", history.ErrInsufficientData), http.StatusUnprocessableEntity},
		{"store failure", errors.New("append global_history: timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubMonitor{analyzeErr: tt.err}, &stubReader{}, nil)
			w := do(t, router, "POST", "/api/liquidity/analyze", "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBackfill(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
	}{
		{"valid dry run", `{"start":"2024-01-01","dry_run":true}`, nil, http.StatusOK, ""},
		{"missing start", `{"dry_run":true}`, nil, http.StatusBadRequest, "Start"},
		{"bad date", `{"start":"2024/01/01"}`, nil, http.StatusBadRequest, "Start"},
		{"malformed body", `{`, nil, http.StatusBadRequest, ""},
		{"start after data", `{"start":"2030-01-01"}`, history.ErrInsufficientData, http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &stubMonitor{backfillErr: tt.err}
			router := newTestRouter(m, &stubReader{}, nil)

			w := do(t, router, "POST", "/api/liquidity/backfill", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.wantField+`"`)
			}
			if tt.wantStatus == http.StatusOK {
				var report monitor.BackfillReport
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
				assert.Equal(t, 3, report.Count)
				assert.True(t, m.backfillDry)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), m.backfillStart)
			}
		})
	}
}

func TestAlerts(t *testing.T) {
	rd := &stubReader{}
	router := newTestRouter(&stubMonitor{}, rd, nil)

	w := do(t, router, "GET", "/api/liquidity/alerts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
	assert.Equal(t, 50, rd.limit)

	do(t, router, "GET", "/api/liquidity/alerts?limit=5", "")
	assert.Equal(t, 5, rd.limit)
	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/liquidity/alerts?limit=0", "").Code)

	w = do(t, router, "POST", "/api/liquidity/alerts/check", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alerts":[]`)
}

func TestMoneyMarket(t *testing.T) {
	router := newTestRouter(&stubMonitor{}, &stubReader{}, nil)

	assert.Equal(t, http.StatusNotFound, do(t, router, "GET", "/api/liquidity/monitor", "").Code)

	w := do(t, router, "POST", "/api/liquidity/monitor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"condition":"EXCESS"`)
}

func TestGetDetail(t *testing.T) {
	router := newTestRouter(&stubMonitor{}, &stubReader{}, nil)

	w := do(t, router, "GET", "/api/liquidity/detail/japan", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"region":"japan"`)

	assert.Equal(t, http.StatusNotFound, do(t, router, "GET", "/api/liquidity/detail/mars", "").Code)
}

func TestRecoveryAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(&stubMonitor{panicDetail: true}, &stubReader{}, metrics.New(reg))

	w := do(t, router, "GET", "/api/liquidity/detail/china", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")

	w = do(t, router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(),
		`liquidity_http_requests_total{method="GET",route="/api/liquidity/detail/{region}",status="500"} 1`)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&stubMonitor{}, &stubReader{}, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, router, "GET", "/api/liquidity/analyze", "").Code)
}
