package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockPriority ranks how urgently a low-stock item needs reordering
type StockPriority string

const (
	StockPriorityCritical StockPriority = "critical"
	StockPriorityHigh     StockPriority = "high"
	StockPriorityMedium   StockPriority = "medium"
	StockPriorityLow      StockPriority = "low"
)

// DistributorCandidate is a distributor considered for a low-stock item
type DistributorCandidate struct {
	DistributorID uuid.UUID `json:"distributorId"`
	Score         int       `json:"score"`
	Optimized     bool      `json:"optimized"`
}

// Candidates is stored as a JSONB array on the low-stock item
type Candidates []DistributorCandidate

func (c Candidates) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]DistributorCandidate{})
	}
	return json.Marshal(c)
}

func (c *Candidates) Scan(value interface{}) error {
	if value == nil {
		*c = Candidates{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for Candidates: %T", value)
	}
	return json.Unmarshal(bytes, c)
}

// LowStockItem is a drug whose on-hand quantity fell below its threshold
type LowStockItem struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID         string        `json:"tenantId" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_low_stock_open_drug,where:deleted_at IS NULL"`
	DrugName         string        `json:"drugName" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_low_stock_open_drug,where:deleted_at IS NULL"`
	CurrentStock     int           `json:"currentStock" gorm:"not null;default:0"`
	MinimumRequired  int           `json:"minimumRequired" gorm:"not null;default:0"`
	RecommendedOrder int           `json:"recommendedOrder" gorm:"not null"`
	Priority         StockPriority `json:"priority" gorm:"type:varchar(20);not null;index"`
	MonthlyUsage     int           `json:"monthlyUsage" gorm:"default:0"`
	CriticalLevel    int           `json:"criticalLevel" gorm:"default:0"`
	LastOrderedAt    *time.Time    `json:"lastOrderedAt,omitempty"`
	Candidates       Candidates    `json:"candidates" gorm:"type:jsonb"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (LowStockItem) TableName() string {
	return "low_stock_items"
}

// StockLevel is the on-hand quantity of a drug at the hospital, with the
// thresholds used by the stock evaluation job
type StockLevel struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string     `json:"tenantId" gorm:"type:varchar(255);not null;uniqueIndex:idx_tenant_stock_drug"`
	DrugName        string     `json:"drugName" gorm:"type:varchar(255);not null;uniqueIndex:idx_tenant_stock_drug"`
	CurrentStock    int        `json:"currentStock" gorm:"not null;default:0"`
	MinimumRequired int        `json:"minimumRequired" gorm:"not null;default:0"`
	CriticalLevel   int        `json:"criticalLevel" gorm:"not null;default:0"`
	MonthlyUsage    int        `json:"monthlyUsage" gorm:"not null;default:0"`
	LastOrderedAt   *time.Time `json:"lastOrderedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StockLevel) TableName() string {
	return "stock_levels"
}

// UpsertStockLevelRequest sets the on-hand quantity and thresholds of a drug
type UpsertStockLevelRequest struct {
	DrugName        string `json:"drugName" binding:"required"`
	CurrentStock    int    `json:"currentStock" binding:"min=0"`
	MinimumRequired int    `json:"minimumRequired" binding:"min=0"`
	CriticalLevel   int    `json:"criticalLevel" binding:"min=0"`
	MonthlyUsage    int    `json:"monthlyUsage" binding:"min=0"`
}

// CandidateView is a candidate joined with its distributor and the computed
// cost of ordering the recommended quantity from it
type CandidateView struct {
	Distributor
	Score     int    `json:"score"`
	Optimized bool   `json:"optimized"`
	UnitPrice string `json:"unitPrice,omitempty"`
	TotalCost string `json:"totalCost,omitempty"`
	Stocked   bool   `json:"stocked"`
}

// LowStockItemView is a low-stock item with candidates ranked best first
type LowStockItemView struct {
	LowStockItem
	NearbyDistributors []CandidateView `json:"nearbyDistributors"`
}

type LowStockListResponse struct {
	Success bool               `json:"success"`
	Data    []LowStockItemView `json:"data"`
	Total   int                `json:"total"`
}

// RequestFromDistributorRequest places a restock order for a low-stock item
type RequestFromDistributorRequest struct {
	DistributorID uuid.UUID `json:"distributorId" binding:"required"`
}
