// Package events provides NATS event publishing for medsupply-service
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/sirupsen/logrus"

	"medsupply-service/internal/models"
)

// SupplyEventPublisher publishes hospital stock events on the inventory stream
type SupplyEventPublisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewSupplyEventPublisher connects to NATS and makes sure the inventory stream exists
func NewSupplyEventPublisher(natsURL string, logger *logrus.Logger) (*SupplyEventPublisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "medsupply-service-publisher"

	publisher, err := events.NewPublisher(config, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := publisher.EnsureStream(ctx, events.StreamInventory, []string{"inventory.>"}); err != nil {
		log.WithError(err).Warn("Failed to ensure inventory stream exists")
	}

	return &SupplyEventPublisher{
		publisher: publisher,
		logger:    log.WithField("component", "supply-events"),
	}, nil
}

// PublishLowStock publishes inventory.low_stock, or inventory.out_of_stock
// when nothing is left on hand
func (p *SupplyEventPublisher) PublishLowStock(ctx context.Context, item models.LowStockItem) error {
	eventType := events.InventoryLowStock
	alertLevel := "warning"
	message := fmt.Sprintf("Low stock alert: %s has %d units remaining (minimum: %d, priority: %s)",
		item.DrugName, item.CurrentStock, item.MinimumRequired, item.Priority)

	if item.CurrentStock <= 0 {
		eventType = events.InventoryOutOfStock
		alertLevel = "critical"
		message = fmt.Sprintf("Out of stock: %s is now out of stock", item.DrugName)
	} else if item.Priority == models.StockPriorityCritical {
		alertLevel = "critical"
	}

	event := events.NewInventoryEvent(eventType, item.TenantID)
	event.Items = []events.InventoryItem{
		{
			ProductID:    item.ID.String(),
			Name:         item.DrugName,
			SKU:          item.DrugName,
			CurrentStock: item.CurrentStock,
			ReorderPoint: item.MinimumRequired,
		},
	}
	event.AlertLevel = alertLevel
	event.AlertMessage = message
	event.CalculateSummary()

	if err := p.publisher.PublishInventory(ctx, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"lowStockItemId": item.ID,
			"drug":           item.DrugName,
		}).WithError(err).Errorf("Failed to publish %s event", eventType)
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"lowStockItemId":   item.ID,
		"drug":             item.DrugName,
		"currentStock":     item.CurrentStock,
		"recommendedOrder": item.RecommendedOrder,
		"priority":         item.Priority,
	}).Infof("Published %s event", eventType)
	return nil
}

// PublishStockAdjusted publishes inventory.adjusted for a manual stock level update
func (p *SupplyEventPublisher) PublishStockAdjusted(ctx context.Context, level models.StockLevel, previousStock int, adjustedBy string) error {
	event := events.NewInventoryEvent(events.InventoryAdjusted, level.TenantID)
	event.Items = []events.InventoryItem{
		{
			ProductID:     level.ID.String(),
			Name:          level.DrugName,
			SKU:           level.DrugName,
			CurrentStock:  level.CurrentStock,
			PreviousStock: previousStock,
			ReorderPoint:  level.MinimumRequired,
		},
	}
	event.AdjustmentReason = "stock level update"
	event.AdjustedBy = adjustedBy
	switch {
	case level.CurrentStock > previousStock:
		event.AdjustmentType = "add"
	case level.CurrentStock < previousStock:
		event.AdjustmentType = "remove"
	default:
		event.AdjustmentType = "set"
	}
	event.AlertLevel = "info"
	event.AlertMessage = fmt.Sprintf("Stock adjusted: %s changed from %d to %d", level.DrugName, previousStock, level.CurrentStock)

	if err := p.publisher.PublishInventory(ctx, event); err != nil {
		p.logger.WithField("drug", level.DrugName).WithError(err).Error("Failed to publish inventory.adjusted event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"drug":           level.DrugName,
		"previousStock":  previousStock,
		"currentStock":   level.CurrentStock,
		"adjustmentType": event.AdjustmentType,
	}).Info("Published inventory.adjusted event")
	return nil
}

// IsConnected returns true if connected to NATS
func (p *SupplyEventPublisher) IsConnected() bool {
	return p.publisher.IsConnected()
}

// Close closes the NATS connection
func (p *SupplyEventPublisher) Close() {
	p.publisher.Close()
}
