package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity types written to the audit trail
const (
	ActivityHospitalRequestFulfilled = "hospital_request_fulfilled"
	ActivityRequestedStock           = "REQUESTED_STOCK"
	ActivityLowStockDetected         = "LOW_STOCK_DETECTED"
	ActivityDistributorsImported     = "DISTRIBUTORS_IMPORTED"
)

// ActivityLog is an append-only audit entry for dashboard actions
type ActivityLog struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string         `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Type            string         `json:"type" gorm:"type:varchar(50);not null;index"`
	Actor           string         `json:"actor" gorm:"type:varchar(255)"`
	Details         datatypes.JSON `json:"details" gorm:"type:jsonb"`
	TransactionHash string         `json:"transactionHash,omitempty" gorm:"type:varchar(100)"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

type ActivityListResponse struct {
	Success    bool            `json:"success"`
	Data       []ActivityLog   `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
