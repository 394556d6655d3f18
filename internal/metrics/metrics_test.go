package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums a gathered counter family across label sets matching labels
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			matched := 0
			for _, pair := range m.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestSupplyCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSupplyCollector(reg)
	require.NoError(t, err)

	c.ReportExported("csv")
	c.ReportExported("csv")
	c.LowStockItemDetected("critical")
	c.EvaluationRun(nil)
	c.EvaluationRun(errors.New("db down"))
	c.LedgerTransaction("simulated", "restock_order", time.Now(), nil)

	assert.Equal(t, float64(2), counterValue(t, reg, "medsupply_reports_exported_total", map[string]string{"format": "csv"}))
	assert.Equal(t, float64(1), counterValue(t, reg, "medsupply_low_stock_detected_total", map[string]string{"priority": "critical"}))
	assert.Equal(t, float64(1), counterValue(t, reg, "medsupply_stock_evaluation_runs_total", map[string]string{"result": "error"}))
	assert.Equal(t, float64(1), counterValue(t, reg, "medsupply_ledger_transactions_total", map[string]string{"mode": "simulated", "kind": "restock_order", "result": "success"}))
}

func TestNewSupplyCollector_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSupplyCollector(reg)
	require.NoError(t, err)
	second, err := NewSupplyCollector(reg)
	require.NoError(t, err)

	assert.Same(t, first.ReportsExported, second.ReportsExported)
}

func TestSupplyCollector_NilIsNoop(t *testing.T) {
	var c *SupplyCollector
	assert.NotPanics(t, func() {
		c.ObservePrioritization("priority", 3)
		c.ReportExported("json")
		c.LedgerTransaction("gateway", "fulfillment", time.Now(), errors.New("timeout"))
	})
}
