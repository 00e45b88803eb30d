package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/internal/pipeline"
	"github.com/wonny/trendsignal/pkg/logger"
)

// WatchlistAnalysisJob analyzes every watchlist symbol and stores the
// resulting reports.
type WatchlistAnalysisJob struct {
	analyzer   *pipeline.Analyzer
	reportRepo contracts.ReportRepository
	watchlist  []string
	schedule   string
	logger     *logger.Logger
}

// NewWatchlistAnalysisJob creates a new watchlist analysis job.
// reportRepo may be nil when running without a database.
func NewWatchlistAnalysisJob(analyzer *pipeline.Analyzer, reportRepo contracts.ReportRepository, watchlist []string, schedule string, log *logger.Logger) *WatchlistAnalysisJob {
	return &WatchlistAnalysisJob{
		analyzer:   analyzer,
		reportRepo: reportRepo,
		watchlist:  watchlist,
		schedule:   schedule,
		logger:     log,
	}
}

// Name returns the job name
func (j *WatchlistAnalysisJob) Name() string {
	return "watchlist-analysis"
}

// Schedule returns the cron schedule expression
func (j *WatchlistAnalysisJob) Schedule() string {
	return j.schedule
}

// Run analyzes each watchlist symbol. A failing symbol does not stop
// the rest; the job fails only when every symbol failed.
func (j *WatchlistAnalysisJob) Run(ctx context.Context) error {
	if len(j.watchlist) == 0 {
		j.logger.Warn("Watchlist is empty, nothing to analyze")
		return nil
	}

	var failed int
	for _, symbol := range j.watchlist {
		if err := j.analyzeOne(ctx, symbol); err != nil {
			failed++
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Watchlist analysis failed for symbol")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.watchlist),
		"failed": failed,
	}).Info("Watchlist analysis finished")

	if failed == len(j.watchlist) {
		return fmt.Errorf("analysis failed for all %d watchlist symbols", failed)
	}
	return nil
}

func (j *WatchlistAnalysisJob) analyzeOne(ctx context.Context, symbol string) error {
	report, err := j.analyzer.Analyze(ctx, symbol)
	if err != nil {
		return err
	}

	if j.reportRepo != nil {
		if err := j.reportRepo.SaveReport(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	return nil
}
