package fred

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/httputil"
	"github.com/wonny/liquidity/pkg/logger"
)

// DefaultBaseURL is the public FRED graph CSV endpoint (no API key)
const DefaultBaseURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"

// ErrNoData is returned when a download has a header but no usable rows
var ErrNoData = errors.New("fred: no observations")

// Client downloads FRED series as CSV
// ⭐ SSOT: FRED 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new FRED client. Empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "fred"),
		baseURL:    baseURL,
	}
}

// FetchSeries downloads seriesID from start (inclusive) to the latest observation.
// A zero start downloads the full history.
func (c *Client) FetchSeries(ctx context.Context, seriesID string, start time.Time) (contracts.Series, error) {
	params := url.Values{}
	params.Set("id", seriesID)
	if !start.IsZero() {
		params.Set("cosd", contracts.Day(start).Format(contracts.DateLayout))
	}
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		return contracts.Series{}, fmt.Errorf("fred %s: %w", seriesID, err)
	}

	obs, skipped, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return contracts.Series{}, fmt.Errorf("fred %s: %w", seriesID, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"series_id": seriesID,
		"points":    len(obs),
		"skipped":   skipped,
	}).Debug("FRED series downloaded")

	series := contracts.NewSeries(obs)
	if !start.IsZero() {
		// cosd is advisory; enforce the lower bound locally
		series = series.Since(start)
	}
	if series.IsEmpty() {
		return series, fmt.Errorf("fred %s: %w", seriesID, ErrNoData)
	}
	return series, nil
}

// ParseCSV parses a two-column FRED CSV (date, value) with a header row.
// Rows whose value is "." or blank (FRED's missing marker) are skipped and counted.
func ParseCSV(r io.Reader) ([]contracts.Observation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, ErrNoData
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, 0, fmt.Errorf("unexpected header %v", header)
	}

	var obs []contracts.Observation
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, skipped, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 2 {
			skipped++
			continue
		}

		date, err := contracts.ParseDay(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, skipped, fmt.Errorf("line %d: bad date %q", line, record[0])
		}

		raw := strings.TrimSpace(record[1])
		if raw == "" || raw == "." {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, skipped, fmt.Errorf("line %d: bad value %q", line, raw)
		}

		obs = append(obs, contracts.Observation{Date: date, Value: value})
	}

	return obs, skipped, nil
}
