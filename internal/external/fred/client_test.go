package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/config"
	"github.com/wonny/liquidity/pkg/httputil"
	"github.com/wonny/liquidity/pkg/logger"
)

const walclCSV = `observation_date,WALCL
2024-01-03,7713331
2024-01-10,7686470
2024-01-17,.
2024-01-24,7674330
`

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPoints  int
		wantSkipped int
		wantErr     bool
	}{
		{"valid with missing marker", walclCSV, 3, 1, false},
		{"legacy DATE header", "DATE,DGS10\n2024-01-02,3.95\n", 1, 0, false},
		{"header only", "DATE,DGS10\n", 0, 0, false},
		{"empty body", "", 0, 0, true},
		{"blank value", "DATE,SOFR\n2024-01-02,\n", 0, 1, false},
		{"bad date", "DATE,SOFR\n01/02/2024,5.31\n", 0, 0, true},
		{"bad value", "DATE,SOFR\n2024-01-02,n/a\n", 0, 0, true},
		{"single column header", "DATE\n", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, skipped, err := ParseCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assert.Len(t, obs, tt.wantPoints)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	httpClient := httputil.New(cfg, logger.Nop()).WithRetry(1, time.Millisecond)
	return NewClient(httpClient, logger.Nop(), server.URL)
}

func TestFetchSeries(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(walclCSV))
	})

	start, _ := contracts.ParseDay("2024-01-05")
	s, err := c.FetchSeries(context.Background(), "WALCL", start)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "id=WALCL")
	assert.Contains(t, gotQuery, "cosd=2024-01-05")

	// 2024-01-03 is dropped by the local lower bound, 01-17 is missing
	require.Equal(t, 2, s.Len())
	last, _ := s.Last()
	assert.Equal(t, 7674330.0, last.Value)
}

func TestFetchSeries_FullHistory(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(walclCSV))
	})

	s, err := c.FetchSeries(context.Background(), "WALCL", time.Time{})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "cosd")
	assert.Equal(t, 3, s.Len())
}

func TestFetchSeries_Non200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	s, err := c.FetchSeries(context.Background(), "NOPE", time.Time{})
	require.Error(t, err)
	assert.True(t, s.IsEmpty())

	var statusErr *httputil.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestFetchSeries_NoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("DATE,WALCL\n2024-01-03,.\n"))
	})

	_, err := c.FetchSeries(context.Background(), "WALCL", time.Time{})
	assert.ErrorIs(t, err, ErrNoData)
}
