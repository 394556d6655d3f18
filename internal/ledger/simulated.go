package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// SimulatedLedger confirms every entry after a fixed delay with a random
// transaction hash. Receipts are flagged as simulated.
type SimulatedLedger struct {
	delay  time.Duration
	logger *logrus.Entry
	now    func() time.Time
}

func NewSimulatedLedger(delay time.Duration, logger *logrus.Logger) *SimulatedLedger {
	if logger == nil {
		logger = logrus.New()
	}
	return &SimulatedLedger{
		delay:  delay,
		logger: logger.WithField("component", "simulated_ledger"),
		now:    time.Now,
	}
}

func (l *SimulatedLedger) Mode() string {
	return ModeSimulated
}

func (l *SimulatedLedger) RecordFulfillment(ctx context.Context, entry FulfillmentEntry) (*Receipt, error) {
	receipt, err := l.confirm(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.WithFields(logrus.Fields{
		"tenant_id":  entry.TenantID,
		"request_id": entry.RequestID,
		"tx_hash":    receipt.TransactionHash,
	}).Info("Simulated fulfillment transaction")
	return receipt, nil
}

func (l *SimulatedLedger) RecordRestockOrder(ctx context.Context, entry RestockEntry) (*Receipt, error) {
	receipt, err := l.confirm(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.WithFields(logrus.Fields{
		"tenant_id":   entry.TenantID,
		"drug":        entry.DrugName,
		"distributor": entry.DistributorAddress,
		"tx_hash":     receipt.TransactionHash,
	}).Info("Simulated restock transaction")
	return receipt, nil
}

func (l *SimulatedLedger) confirm(ctx context.Context) (*Receipt, error) {
	if l.delay > 0 {
		timer := time.NewTimer(l.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	hash, err := randomTxHash()
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TransactionHash: hash,
		Simulated:       true,
		RecordedAt:      l.now(),
	}, nil
}

// randomTxHash returns a 32 byte hex hash with a 0x prefix
func randomTxHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate transaction hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}
