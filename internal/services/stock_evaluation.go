package services

import (
	"math"

	"medsupply-service/internal/models"
)

// IsLowStock reports whether a stock level needs a restock recommendation
func IsLowStock(level models.StockLevel) bool {
	return level.CurrentStock < level.MinimumRequired || level.CurrentStock <= level.CriticalLevel
}

// EvaluatePriority grades a stock level against its thresholds
func EvaluatePriority(level models.StockLevel) models.StockPriority {
	stock := float64(level.CurrentStock)
	switch {
	case level.CurrentStock <= 0 || stock <= 0.6*float64(level.CriticalLevel):
		return models.StockPriorityCritical
	case level.CurrentStock < level.CriticalLevel:
		return models.StockPriorityHigh
	case stock < 0.75*float64(level.MinimumRequired):
		return models.StockPriorityMedium
	default:
		return models.StockPriorityLow
	}
}

// RecommendedOrder covers two months of usage on top of the minimum,
// rounded up to the next multiple of 10
func RecommendedOrder(level models.StockLevel) int {
	need := 2*level.MonthlyUsage + level.MinimumRequired - level.CurrentStock
	if need < 10 {
		return 10
	}
	return int(math.Ceil(float64(need)/10)) * 10
}

// NewLowStockItem derives the low-stock record for a stock level
func NewLowStockItem(level models.StockLevel) models.LowStockItem {
	return models.LowStockItem{
		TenantID:         level.TenantID,
		DrugName:         level.DrugName,
		CurrentStock:     level.CurrentStock,
		MinimumRequired:  level.MinimumRequired,
		RecommendedOrder: RecommendedOrder(level),
		Priority:         EvaluatePriority(level),
		MonthlyUsage:     level.MonthlyUsage,
		CriticalLevel:    level.CriticalLevel,
		LastOrderedAt:    level.LastOrderedAt,
	}
}
