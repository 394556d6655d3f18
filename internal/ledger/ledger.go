// Package ledger records fulfillments and restock orders on the supply chain
// ledger. The backend is chosen once at startup.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ModeSimulated = "simulated"
	ModeGateway   = "gateway"
)

var ErrLedgerUnavailable = errors.New("ledger unavailable")

// FulfillmentEntry is the ledger payload for a fulfilled hospital request
type FulfillmentEntry struct {
	TenantID     string    `json:"tenantId"`
	RequestID    uuid.UUID `json:"requestId"`
	HospitalName string    `json:"hospitalName"`
	DrugName     string    `json:"drugName"`
	Quantity     int       `json:"quantity"`
	Urgency      int       `json:"urgency"`
	FulfilledBy  string    `json:"fulfilledBy,omitempty"`
}

// RestockEntry is the ledger payload for an order placed with a distributor
type RestockEntry struct {
	TenantID           string    `json:"tenantId"`
	LowStockItemID     uuid.UUID `json:"lowStockItemId"`
	DrugName           string    `json:"drugName"`
	Quantity           int       `json:"quantity"`
	DistributorAddress string    `json:"distributorAddress"`
	Priority           int       `json:"priority"`
	TotalCost          string    `json:"totalCost"`
	RequestedBy        string    `json:"requestedBy,omitempty"`
}

// Receipt confirms a recorded transaction
type Receipt struct {
	TransactionHash string    `json:"transactionHash"`
	Simulated       bool      `json:"simulated"`
	RecordedAt      time.Time `json:"recordedAt"`
}

// Ledger records supply chain transactions
type Ledger interface {
	RecordFulfillment(ctx context.Context, entry FulfillmentEntry) (*Receipt, error)
	RecordRestockOrder(ctx context.Context, entry RestockEntry) (*Receipt, error)
	Mode() string
}

// Config selects and tunes the ledger backend
type Config struct {
	Mode              string
	GatewayURL        string
	ConfirmationDelay time.Duration
}

// New builds the ledger for the configured mode
func New(cfg Config, logger *logrus.Logger) (Ledger, error) {
	switch cfg.Mode {
	case ModeSimulated, "":
		return NewSimulatedLedger(cfg.ConfirmationDelay, logger), nil
	case ModeGateway:
		if cfg.GatewayURL == "" {
			return nil, fmt.Errorf("LEDGER_GATEWAY_URL is required in %s mode", ModeGateway)
		}
		return NewGatewayLedger(cfg.GatewayURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown ledger mode %q", cfg.Mode)
	}
}
