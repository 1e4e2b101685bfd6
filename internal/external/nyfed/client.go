package nyfed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/httputil"
	"github.com/wonny/liquidity/pkg/logger"
)

// DefaultBaseURL is the New York Fed markets data API
const DefaultBaseURL = "https://markets.newyorkfed.org"

const latestRepoPath = "/api/rp/all/all/results/latest/1.json"

// ErrNoOperation is returned when the latest results hold no standing repo operation
var ErrNoOperation = errors.New("nyfed: no standing repo operation")

// Client reads repo operation results from the NY Fed markets API
// ⭐ SSOT: NY Fed API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new NY Fed client. Empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "nyfed"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// repoResponse is the subset of the results payload we read
type repoResponse struct {
	Repo struct {
		Operations []repoOperation `json:"operations"`
	} `json:"repo"`
}

type repoOperation struct {
	OperationID      string  `json:"operationId"`
	OperationDate    string  `json:"operationDate"`
	EffectiveDate    string  `json:"effectiveDate"`
	OperationType    string  `json:"operationType"`
	TotalAmtAccepted float64 `json:"totalAmtAccepted"`
}

// LatestSRF returns the most recent Standing Repo Facility operation.
// Accepted is in millions USD.
func (c *Client) LatestSRF(ctx context.Context) (contracts.Operation, error) {
	body, err := c.httpClient.GetBody(ctx, c.baseURL+latestRepoPath)
	if err != nil {
		return contracts.Operation{}, fmt.Errorf("nyfed repo results: %w", err)
	}

	op, err := parseLatestSRF(body)
	if err != nil {
		return contracts.Operation{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"date":     op.Date.Format(contracts.DateLayout),
		"type":     op.Type,
		"accepted": op.Accepted,
	}).Debug("SRF operation fetched")

	return op, nil
}

// parseLatestSRF picks the first operation whose type mentions "Standing" or "SRF"
func parseLatestSRF(body []byte) (contracts.Operation, error) {
	var resp repoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return contracts.Operation{}, fmt.Errorf("decode repo results: %w", err)
	}

	for _, op := range resp.Repo.Operations {
		if !isStandingRepo(op.OperationType) {
			continue
		}

		dateStr := op.OperationDate
		if dateStr == "" {
			dateStr = op.EffectiveDate
		}
		date, err := contracts.ParseDay(dateStr)
		if err != nil {
			return contracts.Operation{}, fmt.Errorf("operation %s: bad date %q", op.OperationID, dateStr)
		}

		return contracts.Operation{
			Date:     date,
			Type:     op.OperationType,
			Accepted: normalizeMillions(op.TotalAmtAccepted),
		}, nil
	}

	return contracts.Operation{}, ErrNoOperation
}

func isStandingRepo(operationType string) bool {
	return strings.Contains(operationType, "Standing") || strings.Contains(operationType, "SRF")
}

// normalizeMillions rescales amounts reported in billions (0 < v < 1000) to millions
func normalizeMillions(v float64) float64 {
	if v > 0 && v < 1000 {
		return v * 1000
	}
	return v
}
