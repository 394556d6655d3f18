package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestockOrder records a request placed with a distributor for a low-stock item
type RestockOrder struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string             `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	LowStockItemID  uuid.UUID          `json:"lowStockItemId" gorm:"type:uuid;not null;index"`
	DrugName        string             `json:"drugName" gorm:"type:varchar(255);not null"`
	Quantity        int                `json:"quantity" gorm:"not null"`
	DistributorID   uuid.UUID          `json:"distributorId" gorm:"type:uuid;not null;index"`
	DistributorName string             `json:"distributorName" gorm:"type:varchar(255)"`
	DistributorAddr string             `json:"distributorAddress" gorm:"column:distributor_address;type:varchar(255)"`
	Priority        StockPriority      `json:"priority" gorm:"type:varchar(20)"`
	UnitPrice       decimal.Decimal    `json:"unitPrice" gorm:"type:decimal(12,4)"`
	TotalCost       decimal.Decimal    `json:"totalCost" gorm:"type:decimal(14,2)"`
	Status          RestockOrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	TransactionHash string             `json:"transactionHash" gorm:"type:varchar(100)"`
	Simulated       bool               `json:"simulated" gorm:"default:false"`
	RequestedBy     *string            `json:"requestedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RestockOrder) TableName() string {
	return "restock_orders"
}

// FulfillmentRecord keeps the ledger receipt of a fulfilled hospital request
type FulfillmentRecord struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID          string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	HospitalRequestID uuid.UUID `json:"hospitalRequestId" gorm:"type:uuid;not null;uniqueIndex"`
	HospitalName      string    `json:"hospitalName" gorm:"type:varchar(255)"`
	DrugName          string    `json:"drugName" gorm:"type:varchar(255)"`
	Quantity          int       `json:"quantity"`
	TransactionHash   string    `json:"transactionHash" gorm:"type:varchar(100)"`
	Simulated         bool      `json:"simulated" gorm:"default:false"`
	FulfilledBy       *string   `json:"fulfilledBy,omitempty"`
	FulfilledAt       time.Time `json:"fulfilledAt"`
}

func (FulfillmentRecord) TableName() string {
	return "fulfillment_records"
}

type RestockOrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []RestockOrder  `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
