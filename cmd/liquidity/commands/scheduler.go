package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scheduler"
	"github.com/wonny/liquidity/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)
  status  - 작업별 다음 실행 시각

Example:
  go run ./cmd/liquidity scheduler start
  go run ./cmd/liquidity scheduler list
  go run ./cmd/liquidity scheduler run live_update`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업 (SCHEDULER_TZ 기준, 기본 America/New_York):
- live_update: 매일 17:00 (점수 계산 + 머니마켓)
- alert_check: 2시간마다 (알림 평가 및 발송)
- cache_cleanup: 5분마다 (만료 캐시 정리)

METRICS_ENABLED이면 METRICS_PORT에서 /metrics를 제공합니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "작업 실행 상태 조회",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Global Liquidity Scheduler ===")

	// Initialize dependencies
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// Metrics endpoint
	var metricsServer *http.Server
	if a.metrics != nil {
		metricsServer = &http.Server{
			Addr:              ":" + a.cfg.MetricsPort,
			Handler:           a.metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, _ := sched.NextRun(jobName)
		fmt.Printf("  - %-14s next: %s\n", jobName, next.In(a.location).Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		metricsServer.Shutdown(ctx)
	}
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Registered jobs:")
	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("  - %-14s %s\n", jobName, stat.Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	result, err := sched.RunJobSync(context.Background(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed after %s: %s", jobName, result.Duration.Round(time.Millisecond), result.Error)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// cron은 Start 이후에만 다음 실행 시각을 계산
	sched.Start()
	defer sched.Stop()

	fmt.Printf("Job Status (%s):\n\n", a.location)

	for _, jobName := range sched.GetAllJobs() {
		stat := sched.GetJobStats()[jobName]
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		if next, ok := sched.NextRun(jobName); ok {
			fmt.Printf("   Next Run: %s\n", next.In(a.location).Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}

	if a.repo != nil {
		ctx, cancel := commandContext(10 * time.Second)
		defer cancel()
		if latest, err := a.repo.Latest(ctx); err == nil {
			fmt.Printf("Latest stored result: %s score %d (%s)\n",
				latest.Timestamp.Format(contracts.DateLayout), latest.Score, latest.Signal.Label())
		}
	}

	return nil
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	ctx, cancel := commandContext(30 * time.Second)
	defer cancel()

	// 1. Wire components
	a, err := newApp(ctx, true)
	if err != nil {
		return nil, nil, err
	}

	// 2. Create scheduler
	sched := scheduler.New(a.log, scheduler.Options{
		Location: a.location,
		Metrics:  a.metrics,
	})

	// 3. Register jobs
	sc := a.cfg.Scheduler
	for _, job := range []scheduler.Job{
		jobs.NewLiveUpdateJob(a.monitor, a.monitor, sc.LiveUpdateCron, a.log),
		jobs.NewAlertCheckJob(a.monitor, sc.AlertCheckCron, a.log),
		jobs.NewCacheCleanupJob(a.fetcher, sc.CacheCleanCron, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, err
		}
	}

	return a, sched, nil
}
