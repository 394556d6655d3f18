package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"medsupply-service/internal/services"
)

// StockEvaluator runs one stock evaluation pass
type StockEvaluator interface {
	Evaluate(ctx context.Context, tenantID string) (*services.EvaluationResult, error)
}

// StockEvaluationJob periodically opens low-stock items for every tenant
type StockEvaluationJob struct {
	evaluator StockEvaluator
	logger    *logrus.Logger
	interval  time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewStockEvaluationJob creates the job. A non-positive interval falls back to 15 minutes.
func NewStockEvaluationJob(evaluator StockEvaluator, interval time.Duration, logger *logrus.Logger) *StockEvaluationJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StockEvaluationJob{
		evaluator: evaluator,
		logger:    logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start blocks until Stop is called or ctx is cancelled
func (j *StockEvaluationJob) Start(ctx context.Context) {
	j.logger.WithField("interval", j.interval.String()).Info("Stock evaluation job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run immediately on start
	j.runEvaluation(ctx)

	for {
		select {
		case <-ticker.C:
			j.runEvaluation(ctx)
		case <-j.stopCh:
			j.logger.Info("Stock evaluation job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Stock evaluation job context cancelled")
			return
		}
	}
}

// Stop signals the job to stop. Safe to call more than once.
func (j *StockEvaluationJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopCh)
	})
}

func (j *StockEvaluationJob) runEvaluation(ctx context.Context) {
	j.logger.Debug("Running stock evaluation...")

	result, err := j.evaluator.Evaluate(ctx, "")
	if err != nil {
		j.logger.Errorf("Stock evaluation failed: %v", err)
		return
	}

	if len(result.Created) == 0 {
		j.logger.WithField("evaluated", result.Evaluated).Debug("No new low stock items")
		return
	}

	j.logger.WithFields(logrus.Fields{
		"evaluated": result.Evaluated,
		"created":   len(result.Created),
	}).Infof("Found %d drugs below threshold", len(result.Created))
}
