package commands

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/metrics"
	"github.com/wonny/trendsignal/internal/scheduler"
	"github.com/wonny/trendsignal/internal/scheduler/jobs"
	"github.com/wonny/trendsignal/internal/store"
	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/database"
	"github.com/wonny/trendsignal/pkg/logger"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the watchlist analysis scheduler",
	Long: `Starts the cron scheduler that analyzes every WATCHLIST symbol
on the ANALYSIS_CRON schedule and stores the reports.

Example:
  WATCHLIST=AAPL,MSFT go run ./cmd/trend schedule
  go run ./cmd/trend schedule --now`,
	RunE: runSchedule,
}

var scheduleRunNow bool

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "now", false, "run the analysis job immediately on start")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	if len(cfg.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST is empty, nothing to schedule")
	}

	m := metrics.New()
	analyzer, _, err := buildAnalyzer(cfg, log, m)
	if err != nil {
		return err
	}

	// The scheduler has no API listener, so metrics get their own port.
	if cfg.MetricsEnabled {
		metricsServer := m.Server(cfg.MetricsPort)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
		defer metricsServer.Close()
		log.WithField("port", cfg.MetricsPort).Info("Metrics server started")
	}

	var reportRepo contracts.ReportRepository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		reportRepo = store.NewReportRepository(db.Pool)
		analyzer.WithPriceStore(store.NewPriceRepository(db.Pool))
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, reports will not be persisted")
	}

	sched := scheduler.New(log)

	job := jobs.NewWatchlistAnalysisJob(analyzer, reportRepo, cfg.Watchlist, cfg.AnalysisCron, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if scheduleRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
	}

	log.WithFields(map[string]interface{}{
		"watchlist": cfg.Watchlist,
		"schedule":  cfg.AnalysisCron,
	}).Info("Scheduler running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
