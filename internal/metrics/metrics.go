// Package metrics holds the domain Prometheus collectors of medsupply-service.
// HTTP request metrics come from the shared gin middleware; these cover the
// prioritization, export, evaluation and ledger paths.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SupplyCollector bundles the domain collectors. A nil collector is a no-op.
type SupplyCollector struct {
	Prioritizations    *prometheus.HistogramVec
	ReportsExported    *prometheus.CounterVec
	LowStockDetected   *prometheus.CounterVec
	EvaluationRuns     *prometheus.CounterVec
	LedgerTransactions *prometheus.CounterVec
	LedgerDurations    *prometheus.HistogramVec
}

// NewSupplyCollector registers collectors against reg, defaulting to the
// global registry when nil. Registering twice returns the existing collectors.
func NewSupplyCollector(reg prometheus.Registerer) (*SupplyCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	prioritizations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medsupply",
		Name:      "prioritized_requests",
		Help:      "Number of hospital requests returned per prioritization, labeled by sort key.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"sort_by"}))
	if err != nil {
		return nil, err
	}

	exports, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medsupply",
		Name:      "reports_exported_total",
		Help:      "Hospital request reports exported, labeled by format.",
	}, []string{"format"}))
	if err != nil {
		return nil, err
	}

	lowStock, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medsupply",
		Name:      "low_stock_detected_total",
		Help:      "Low-stock items created by stock evaluation, labeled by priority.",
	}, []string{"priority"}))
	if err != nil {
		return nil, err
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medsupply",
		Name:      "stock_evaluation_runs_total",
		Help:      "Stock evaluation runs, labeled by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	ledgerTx, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medsupply",
		Name:      "ledger_transactions_total",
		Help:      "Ledger transactions, labeled by mode, kind and result.",
	}, []string{"mode", "kind", "result"}))
	if err != nil {
		return nil, err
	}

	ledgerDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medsupply",
		Name:      "ledger_transaction_duration_seconds",
		Help:      "Time until a ledger transaction is confirmed.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"mode", "kind"}))
	if err != nil {
		return nil, err
	}

	return &SupplyCollector{
		Prioritizations:    prioritizations,
		ReportsExported:    exports,
		LowStockDetected:   lowStock,
		EvaluationRuns:     runs,
		LedgerTransactions: ledgerTx,
		LedgerDurations:    ledgerDurations,
	}, nil
}

func (c *SupplyCollector) ObservePrioritization(sortBy string, matched int) {
	if c == nil {
		return
	}
	c.Prioritizations.WithLabelValues(sortBy).Observe(float64(matched))
}

func (c *SupplyCollector) ReportExported(format string) {
	if c == nil {
		return
	}
	c.ReportsExported.WithLabelValues(format).Inc()
}

func (c *SupplyCollector) LowStockItemDetected(priority string) {
	if c == nil {
		return
	}
	c.LowStockDetected.WithLabelValues(priority).Inc()
}

func (c *SupplyCollector) EvaluationRun(err error) {
	if c == nil {
		return
	}
	c.EvaluationRuns.WithLabelValues(result(err)).Inc()
}

func (c *SupplyCollector) LedgerTransaction(mode, kind string, started time.Time, err error) {
	if c == nil {
		return
	}
	c.LedgerTransactions.WithLabelValues(mode, kind, result(err)).Inc()
	if err == nil {
		c.LedgerDurations.WithLabelValues(mode, kind).Observe(time.Since(started).Seconds())
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("counter already registered with incompatible type")
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("histogram already registered with incompatible type")
		}
		return nil, err
	}
	return vec, nil
}
