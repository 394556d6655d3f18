package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Urgency is the priority a hospital attaches to a stock request
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

var urgencyWeights = map[Urgency]int{
	UrgencyHigh:   3,
	UrgencyMedium: 2,
	UrgencyLow:    1,
}

// Weight orders urgencies high > medium > low. Unknown values weigh 0.
func (u Urgency) Weight() int {
	return urgencyWeights[u]
}

func (u Urgency) Valid() bool {
	_, ok := urgencyWeights[u]
	return ok
}

// FacilityType classifies the requesting hospital
type FacilityType string

const (
	FacilityTypeRural FacilityType = "rural"
	FacilityTypeUrban FacilityType = "urban"
)

func (t FacilityType) Valid() bool {
	return t == FacilityTypeRural || t == FacilityTypeUrban
}

// HospitalRequest is an inbound stock request from a hospital.
// Requests are never updated in place; fulfillment soft-deletes them.
type HospitalRequest struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string        `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	HospitalName string        `json:"hospitalName" gorm:"type:varchar(255);not null"`
	Location     string        `json:"location" gorm:"type:varchar(255);not null"`
	Type         FacilityType  `json:"type" gorm:"type:varchar(10);not null;index"`
	DrugName     string        `json:"drugName" gorm:"type:varchar(255);not null;index"`
	Quantity     int           `json:"quantity" gorm:"not null"`
	Urgency      Urgency       `json:"urgency" gorm:"type:varchar(10);not null;index"`
	Distance     float64       `json:"distance" gorm:"not null;default:0"`
	Timestamp    int64         `json:"timestamp" gorm:"not null;index"` // epoch milliseconds
	Status       RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
	CreatedBy *string         `json:"createdBy,omitempty"`
}

func (HospitalRequest) TableName() string {
	return "hospital_requests"
}

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidDistance = errors.New("distance must not be negative")
)

// Validate checks the request invariants. Called at the API boundary only.
func (r *HospitalRequest) Validate() error {
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.Distance < 0 {
		return ErrInvalidDistance
	}
	if !r.Urgency.Valid() {
		return fmt.Errorf("invalid urgency %q", r.Urgency)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("invalid facility type %q", r.Type)
	}
	return nil
}

// RequestTime returns the creation timestamp as a time.Time
func (r *HospitalRequest) RequestTime() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// RankedRequest is a request with its 1-based position in a prioritized list.
// The rank is positional and never stored.
type RankedRequest struct {
	HospitalRequest
	PriorityRank int `json:"priorityRank"`
}

// CreateHospitalRequestRequest is the payload for registering an inbound request
type CreateHospitalRequestRequest struct {
	HospitalName string       `json:"hospitalName" binding:"required"`
	Location     string       `json:"location" binding:"required"`
	Type         FacilityType `json:"type" binding:"required"`
	DrugName     string       `json:"drugName" binding:"required"`
	Quantity     int          `json:"quantity" binding:"required"`
	Urgency      Urgency      `json:"urgency" binding:"required"`
	Distance     float64      `json:"distance"`
	Timestamp    *int64       `json:"timestamp,omitempty"`
}

// HospitalRequestListResponse is returned by the prioritized list endpoint
type HospitalRequestListResponse struct {
	Success        bool            `json:"success"`
	Data           []RankedRequest `json:"data"`
	Filters        FilterCriteria  `json:"filters"`
	Total          int             `json:"total"`
	Matched        int             `json:"matched"`
	FiltersApplied int             `json:"filtersApplied"`
	EmptyReason    string          `json:"emptyReason,omitempty"`
}

const (
	EmptyReasonNoRequests = "no_requests"
	EmptyReasonNoMatches  = "no_matches"
)
