package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DrugQuantities maps a drug name to a unit count, stored as JSONB
type DrugQuantities map[string]int

func (q DrugQuantities) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *DrugQuantities) Scan(value interface{}) error {
	if value == nil {
		*q = make(DrugQuantities)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for DrugQuantities: %T", value)
	}
	return json.Unmarshal(bytes, q)
}

// DrugPrices maps a drug name to a unit price, stored as JSONB
type DrugPrices map[string]float64

func (p DrugPrices) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *DrugPrices) Scan(value interface{}) error {
	if value == nil {
		*p = make(DrugPrices)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for DrugPrices: %T", value)
	}
	return json.Unmarshal(bytes, p)
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationMeta builds pagination metadata for a page of results
func NewPaginationMeta(page, limit int, total int64) *PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
