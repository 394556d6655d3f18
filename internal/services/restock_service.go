package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medsupply-service/internal/ledger"
	"medsupply-service/internal/metrics"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
)

// StockEventPublisher is the subset of the NATS publisher used for stock events
type StockEventPublisher interface {
	PublishLowStock(ctx context.Context, item models.LowStockItem) error
	PublishStockAdjusted(ctx context.Context, level models.StockLevel, previousStock int, adjustedBy string) error
}

// RestockService detects low stock, recommends distributors and places
// restock orders
type RestockService struct {
	restock      repository.RestockRepositoryInterface
	distributors repository.DistributorRepositoryInterface
	activity     repository.ActivityRepositoryInterface
	ledger       ledger.Ledger
	publisher    StockEventPublisher
	weights      ScoringWeights
	metrics      *metrics.SupplyCollector
	logger       *logrus.Entry
	now          func() time.Time
}

// RestockDeps groups the collaborators of RestockService. Publisher and
// Metrics are optional.
type RestockDeps struct {
	Restock      repository.RestockRepositoryInterface
	Distributors repository.DistributorRepositoryInterface
	Activity     repository.ActivityRepositoryInterface
	Ledger       ledger.Ledger
	Publisher    StockEventPublisher
	Weights      ScoringWeights
	Metrics      *metrics.SupplyCollector
	Logger       *logrus.Logger
}

func NewRestockService(deps RestockDeps) *RestockService {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	weights := deps.Weights
	if weights.sum() == 0 {
		weights = DefaultScoringWeights()
	}
	return &RestockService{
		restock:      deps.Restock,
		distributors: deps.Distributors,
		activity:     deps.Activity,
		ledger:       deps.Ledger,
		publisher:    deps.Publisher,
		weights:      weights,
		metrics:      deps.Metrics,
		logger:       logger.WithField("component", "restock_service"),
		now:          time.Now,
	}
}

// ListLowStock returns every low-stock item with its candidates joined to the
// catalog, best score first, and the cost of the recommended order
func (s *RestockService) ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItemView, error) {
	items, err := s.restock.ListLowStock(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}

	catalog, err := s.catalogByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	views := make([]models.LowStockItemView, len(items))
	for i, item := range items {
		views[i] = models.LowStockItemView{
			LowStockItem:       item,
			NearbyDistributors: CandidateViews(item, catalog),
		}
	}
	return views, nil
}

func (s *RestockService) catalogByID(ctx context.Context, tenantID string) (map[string]models.Distributor, error) {
	distributors, err := s.distributors.ListAll(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load distributor catalog: %w", err)
	}
	catalog := make(map[string]models.Distributor, len(distributors))
	for _, d := range distributors {
		catalog[d.ID.String()] = d
	}
	return catalog, nil
}

// RequestFromDistributor orders the recommended quantity of a low-stock drug
// from the chosen distributor. On success the low-stock item is removed.
func (s *RestockService) RequestFromDistributor(ctx context.Context, tenantID string, itemID, distributorID uuid.UUID, actor string) (*models.RestockOrder, error) {
	item, err := s.restock.GetLowStock(ctx, tenantID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLowStockItemNotFound
		}
		return nil, err
	}

	distributor, err := s.distributors.GetByID(ctx, tenantID, distributorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDistributorNotFound
		}
		return nil, err
	}
	if !distributor.Available {
		return nil, ErrDistributorUnavailable
	}

	totalCost, ok := TotalCost(*distributor, item.DrugName, item.RecommendedOrder)
	if !ok {
		return nil, ErrDrugNotStocked
	}
	unitPrice, _ := distributor.UnitPrice(item.DrugName)

	started := s.now()
	receipt, err := s.ledger.RecordRestockOrder(ctx, ledger.RestockEntry{
		TenantID:           tenantID,
		LowStockItemID:     item.ID,
		DrugName:           item.DrugName,
		Quantity:           item.RecommendedOrder,
		DistributorAddress: distributor.Address,
		Priority:           item.Priority.LedgerCode(),
		TotalCost:          totalCost.StringFixed(2),
		RequestedBy:        actor,
	})
	s.metrics.LedgerTransaction(s.ledger.Mode(), "restock_order", started, err)
	if err != nil {
		s.logger.WithError(err).WithField("low_stock_item_id", itemID).Error("Ledger rejected restock order")
		return nil, fmt.Errorf("%w: %v", ErrLedger, err)
	}

	order := &models.RestockOrder{
		TenantID:        tenantID,
		LowStockItemID:  item.ID,
		DrugName:        item.DrugName,
		Quantity:        item.RecommendedOrder,
		DistributorID:   distributor.ID,
		DistributorName: distributor.Name,
		DistributorAddr: distributor.Address,
		Priority:        item.Priority,
		UnitPrice:       decimal.NewFromFloat(unitPrice),
		TotalCost:       totalCost,
		Status:          models.RestockOrderStatusPending,
		TransactionHash: receipt.TransactionHash,
		Simulated:       receipt.Simulated,
		CreatedAt:       receipt.RecordedAt,
	}
	if actor != "" {
		order.RequestedBy = &actor
	}

	activity := newActivity(tenantID, models.ActivityRequestedStock, actor, receipt.TransactionHash, map[string]interface{}{
		"lowStockItemId": item.ID,
		"drug":           item.DrugName,
		"quantity":       item.RecommendedOrder,
		"distributorId":  distributor.ID,
		"distributor":    distributor.Name,
		"totalCost":      totalCost.StringFixed(2),
		"priority":       item.Priority,
	})

	if err := s.restock.PlaceOrder(ctx, item, order, activity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLowStockItemNotFound
		}
		return nil, fmt.Errorf("failed to place restock order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":   tenantID,
		"drug":        item.DrugName,
		"quantity":    item.RecommendedOrder,
		"distributor": distributor.Name,
		"total_cost":  totalCost.StringFixed(2),
		"tx_hash":     receipt.TransactionHash,
	}).Info("Restock order placed")
	return order, nil
}

func (s *RestockService) ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error) {
	return s.restock.ListOrders(ctx, tenantID, limit, offset)
}

// UpsertStockLevel records the on-hand quantity of a drug and re-evaluates it
func (s *RestockService) UpsertStockLevel(ctx context.Context, tenantID, actor string, input models.UpsertStockLevelRequest) (*models.StockLevel, error) {
	levels, err := s.restock.ListTenantStockLevels(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock levels: %w", err)
	}
	previous := 0
	for _, l := range levels {
		if l.DrugName == input.DrugName {
			previous = l.CurrentStock
			break
		}
	}

	level := &models.StockLevel{
		TenantID:        tenantID,
		DrugName:        input.DrugName,
		CurrentStock:    input.CurrentStock,
		MinimumRequired: input.MinimumRequired,
		CriticalLevel:   input.CriticalLevel,
		MonthlyUsage:    input.MonthlyUsage,
		UpdatedAt:       s.now(),
	}
	if err := s.restock.UpsertStockLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to save stock level: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStockAdjusted(ctx, *level, previous, actor); err != nil {
			s.logger.WithError(err).Warn("Failed to publish stock adjusted event")
		}
	}

	if _, err := s.evaluateLevels(ctx, []models.StockLevel{*level}); err != nil {
		return level, err
	}
	return level, nil
}

// EvaluationResult summarizes one stock evaluation pass
type EvaluationResult struct {
	Evaluated int                   `json:"evaluated"`
	Created   []models.LowStockItem `json:"created"`
}

// Evaluate compares stock levels to their thresholds and opens a low-stock
// item for every drug that fell short, unless one is already open or an
// outstanding restock order covers it. An empty tenantID evaluates every
// tenant.
func (s *RestockService) Evaluate(ctx context.Context, tenantID string) (*EvaluationResult, error) {
	var levels []models.StockLevel
	var err error
	if tenantID == "" {
		levels, err = s.restock.ListStockLevels(ctx)
	} else {
		levels, err = s.restock.ListTenantStockLevels(ctx, tenantID)
	}
	if err != nil {
		s.metrics.EvaluationRun(err)
		return nil, fmt.Errorf("failed to load stock levels: %w", err)
	}

	result, err := s.evaluateLevels(ctx, levels)
	s.metrics.EvaluationRun(err)
	return result, err
}

func (s *RestockService) evaluateLevels(ctx context.Context, levels []models.StockLevel) (*EvaluationResult, error) {
	result := &EvaluationResult{Evaluated: len(levels), Created: []models.LowStockItem{}}
	catalogs := make(map[string][]models.Distributor)

	for _, level := range levels {
		if !IsLowStock(level) {
			continue
		}

		_, err := s.restock.FindLowStockByDrug(ctx, level.TenantID, level.DrugName)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return result, fmt.Errorf("failed to check low stock item: %w", err)
		}

		// An order on its way already covers the shortfall
		ordered, err := s.restock.HasOutstandingOrder(ctx, level.TenantID, level.DrugName)
		if err != nil {
			return result, fmt.Errorf("failed to check restock orders: %w", err)
		}
		if ordered {
			continue
		}

		catalog, ok := catalogs[level.TenantID]
		if !ok {
			catalog, err = s.distributors.ListAll(ctx, level.TenantID)
			if err != nil {
				return result, fmt.Errorf("failed to load distributor catalog: %w", err)
			}
			catalogs[level.TenantID] = catalog
		}

		item := NewLowStockItem(level)
		item.Candidates = BuildCandidates(item, catalog, s.weights)

		if err := s.restock.CreateLowStock(ctx, &item); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// opened concurrently by another evaluation
				continue
			}
			return result, fmt.Errorf("failed to create low stock item: %w", err)
		}
		result.Created = append(result.Created, item)
		s.metrics.LowStockItemDetected(string(item.Priority))

		if s.activity != nil {
			entry := newActivity(item.TenantID, models.ActivityLowStockDetected, "system", "", map[string]interface{}{
				"lowStockItemId":   item.ID,
				"drug":             item.DrugName,
				"currentStock":     item.CurrentStock,
				"recommendedOrder": item.RecommendedOrder,
				"priority":         item.Priority,
			})
			if err := s.activity.Create(ctx, entry); err != nil {
				s.logger.WithError(err).Warn("Failed to log low stock activity")
			}
		}

		if s.publisher != nil {
			if err := s.publisher.PublishLowStock(ctx, item); err != nil {
				s.logger.WithError(err).WithField("drug", item.DrugName).Warn("Failed to publish low stock event")
			}
		}

		s.logger.WithFields(logrus.Fields{
			"tenant_id":         item.TenantID,
			"drug":              item.DrugName,
			"current_stock":     item.CurrentStock,
			"priority":          item.Priority,
			"recommended_order": item.RecommendedOrder,
			"candidates":        len(item.Candidates),
		}).Info("Low stock detected")
	}

	return result, nil
}
