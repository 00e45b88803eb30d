package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendsignal/internal/api"
	"github.com/wonny/trendsignal/internal/api/handlers"
	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/metrics"
	"github.com/wonny/trendsignal/internal/store"
	"github.com/wonny/trendsignal/pkg/config"
	"github.com/wonny/trendsignal/pkg/database"
	"github.com/wonny/trendsignal/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                                - Health check
  GET  /metrics                               - Prometheus metrics
  POST /api/v1/stock/report                   - Run the analysis pipeline
  POST /api/v1/stock/llm-report               - Run the pipeline and ask the advisor
  GET  /api/v1/stocks/{symbol}/reports/latest - Last stored report
  GET  /api/v1/stocks/{symbol}/profile        - Sector/industry classification

Example:
  go run ./cmd/trend api
  go run ./cmd/trend api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		m = metrics.New()
		metricsHandler = m.Handler()
	}

	analyzer, market, err := buildAnalyzer(cfg, log, m)
	if err != nil {
		return err
	}

	// Storage is optional; analysis works without a database.
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
		log.Warn("DATABASE_URL not set, candles and reports will not be persisted")
	}

	analysisHandler := handlers.NewAnalysisHandler(analyzer, nil, market, reportRepo, log)
	router := api.NewRouter(analysisHandler, metricsHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
