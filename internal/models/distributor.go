package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Distributor is a supplier that can fill restock orders.
// Inventory and Pricing share the drug-name key domain; a missing key means
// the drug is not stocked.
type Distributor struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Code     string    `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_distributor_code"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	Address  string    `json:"address" gorm:"type:varchar(255)"` // ledger account
	Location string    `json:"location" gorm:"type:varchar(255)"`

	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Distance          float64 `json:"distance"` // km from the requesting facility
	EstimatedDelivery string  `json:"estimatedDelivery" gorm:"type:varchar(50)"`
	Available         bool    `json:"available" gorm:"default:true"`
	Rating            float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Specialization    string  `json:"specialization" gorm:"type:varchar(255)"`

	Inventory  DrugQuantities `json:"inventory" gorm:"type:jsonb"`
	Pricing    DrugPrices     `json:"pricing" gorm:"type:jsonb"`
	Advantages pq.StringArray `json:"advantages" gorm:"type:text[]"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
	CreatedBy *string         `json:"createdBy,omitempty"`
}

func (Distributor) TableName() string {
	return "distributors"
}

// UnitPrice returns the unit price for a drug and whether it is stocked
func (d *Distributor) UnitPrice(drugName string) (float64, bool) {
	price, ok := d.Pricing[drugName]
	return price, ok
}

// Stock returns units on hand for a drug (0 when not stocked)
func (d *Distributor) Stock(drugName string) int {
	return d.Inventory[drugName]
}

// Stocks reports whether the distributor lists both a price and inventory for the drug
func (d *Distributor) Stocks(drugName string) bool {
	_, priced := d.Pricing[drugName]
	_, counted := d.Inventory[drugName]
	return priced && counted
}

// CreateDistributorRequest is the payload for adding a distributor to the catalog
type CreateDistributorRequest struct {
	Code              string             `json:"code" binding:"required"`
	Name              string             `json:"name" binding:"required"`
	Address           string             `json:"address"`
	Location          string             `json:"location"`
	Latitude          float64            `json:"latitude"`
	Longitude         float64            `json:"longitude"`
	Distance          float64            `json:"distance"`
	EstimatedDelivery string             `json:"estimatedDelivery"`
	Available         *bool              `json:"available,omitempty"`
	Rating            float64            `json:"rating"`
	Specialization    string             `json:"specialization"`
	Inventory         map[string]int     `json:"inventory"`
	Pricing           map[string]float64 `json:"pricing"`
	Advantages        []string           `json:"advantages"`
}

type DistributorResponse struct {
	Success bool         `json:"success"`
	Data    *Distributor `json:"data,omitempty"`
	Message *string      `json:"message,omitempty"`
}

type DistributorListResponse struct {
	Success    bool            `json:"success"`
	Data       []Distributor   `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
