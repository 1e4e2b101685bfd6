package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/liquidity/internal/api"
	"github.com/wonny/liquidity/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                          - Health check
  GET  /metrics                         - Prometheus metrics
  GET  /api/liquidity/latest            - 최신 결과
  GET  /api/liquidity/history           - 이력 (?from=&to=)
  POST /api/liquidity/analyze           - 분석 실행 및 저장
  POST /api/liquidity/backfill          - 이력 재구성 {"start","dry_run"}
  GET  /api/liquidity/alerts            - 최근 알림 (?limit=)
  POST /api/liquidity/alerts/check      - 알림 평가
  GET  /api/liquidity/monitor           - 최신 머니마켓 판정
  POST /api/liquidity/monitor           - 머니마켓 판정 실행
  GET  /api/liquidity/detail/{region}   - china|japan|tga|dxy|em
  GET  /ws/liquidity                    - 실시간 결과 푸시 (WebSocket)

Example:
  go run ./cmd/liquidity api
  go run ./cmd/liquidity api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Global Liquidity API Server ===")

	ctx, cancel := commandContext(30 * time.Second)
	a, err := newApp(ctx, true)
	cancel()
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// 1. Create handler + websocket hub
	liquidityHandler := handlers.NewLiquidityHandler(a.monitor, a.repo, log)
	hub := handlers.NewHub(a.repo, log)
	a.monitor.Subscribe(hub.Broadcast)

	// 2. Create router
	router := api.NewRouter(liquidityHandler, hub, a.metrics, log)

	// 3. Create server
	server := api.New(a.cfg, log, router)

	// 4. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	hub.Close()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
