package httputil_test

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/liquidity/pkg/config"
	"github.com/wonny/liquidity/pkg/httputil"
	"github.com/wonny/liquidity/pkg/logger"
)

// Example_fredDownload demonstrates a throttled CSV download
func Example_fredDownload() {
	cfg := &config.Config{Env: "production", LogLevel: "info"}
	log := logger.New(cfg)

	// 60 requests/min
	client := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithRetry(3, time.Second).
		WithRateLimiter(rate.NewLimiter(rate.Every(time.Second), 1))

	body, err := client.GetBody(context.Background(), "https://fred.stlouisfed.org/graph/fredgraph.csv?id=WALCL")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	fmt.Printf("Downloaded %d bytes\n", len(body))
}
