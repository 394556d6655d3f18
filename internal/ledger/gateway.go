package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// GatewayLedger submits entries to a ledger gateway over HTTP and waits for
// the mined transaction hash
type GatewayLedger struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewGatewayLedger(baseURL string, logger *logrus.Logger) *GatewayLedger {
	if logger == nil {
		logger = logrus.New()
	}
	return &GatewayLedger{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.WithField("component", "gateway_ledger"),
	}
}

func (l *GatewayLedger) Mode() string {
	return ModeGateway
}

// RecordFulfillment posts to /api/v1/transactions/fulfillments
func (l *GatewayLedger) RecordFulfillment(ctx context.Context, entry FulfillmentEntry) (*Receipt, error) {
	return l.submit(ctx, entry.TenantID, "/api/v1/transactions/fulfillments", entry)
}

// RecordRestockOrder posts to /api/v1/transactions/restock-orders
func (l *GatewayLedger) RecordRestockOrder(ctx context.Context, entry RestockEntry) (*Receipt, error) {
	return l.submit(ctx, entry.TenantID, "/api/v1/transactions/restock-orders", entry)
}

func (l *GatewayLedger) submit(ctx context.Context, tenantID, path string, payload interface{}) (*Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", tenantID)

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		l.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Ledger gateway rejected transaction")
		return nil, fmt.Errorf("%w: gateway returned status %d: %s", ErrLedgerUnavailable, resp.StatusCode, string(respBody))
	}

	var result struct {
		Success bool    `json:"success"`
		Data    Receipt `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.Data.TransactionHash == "" {
		return nil, fmt.Errorf("%w: gateway response carried no transaction hash", ErrLedgerUnavailable)
	}

	receipt := result.Data
	receipt.Simulated = false
	if receipt.RecordedAt.IsZero() {
		receipt.RecordedAt = time.Now()
	}
	return &receipt, nil
}
