package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medsupply-service/internal/models"
)

// RestockRepositoryInterface covers stock levels, low-stock items and the
// orders placed against them
type RestockRepositoryInterface interface {
	ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItem, error)
	GetLowStock(ctx context.Context, tenantID string, id uuid.UUID) (*models.LowStockItem, error)
	FindLowStockByDrug(ctx context.Context, tenantID, drugName string) (*models.LowStockItem, error)
	CreateLowStock(ctx context.Context, item *models.LowStockItem) error
	PlaceOrder(ctx context.Context, item *models.LowStockItem, order *models.RestockOrder, activity *models.ActivityLog) error
	HasOutstandingOrder(ctx context.Context, tenantID, drugName string) (bool, error)
	ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error)

	UpsertStockLevel(ctx context.Context, level *models.StockLevel) error
	ListStockLevels(ctx context.Context) ([]models.StockLevel, error)
	ListTenantStockLevels(ctx context.Context, tenantID string) ([]models.StockLevel, error)
}

type RestockRepository struct {
	db *gorm.DB
}

func NewRestockRepository(db *gorm.DB) *RestockRepository {
	return &RestockRepository{db: db}
}

// ========== Low Stock Items ==========

func (r *RestockRepository) ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItem, error) {
	var items []models.LowStockItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *RestockRepository) GetLowStock(ctx context.Context, tenantID string, id uuid.UUID) (*models.LowStockItem, error) {
	var item models.LowStockItem
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *RestockRepository) FindLowStockByDrug(ctx context.Context, tenantID, drugName string) (*models.LowStockItem, error) {
	var item models.LowStockItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND drug_name = ?", tenantID, drugName).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// CreateLowStock inserts the item unless one is already open for the drug,
// in which case ErrDuplicate is returned. The partial unique index on open
// rows settles concurrent evaluations.
func (r *RestockRepository) CreateLowStock(ctx context.Context, item *models.LowStockItem) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// PlaceOrder records the order, removes the low-stock item, stamps the stock
// level as ordered and appends the activity entry in one transaction
func (r *RestockRepository) PlaceOrder(ctx context.Context, item *models.LowStockItem, order *models.RestockOrder, activity *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create restock order: %w", translate(err))
		}

		result := tx.Where("tenant_id = ? AND id = ?", item.TenantID, item.ID).Delete(&models.LowStockItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove low stock item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.StockLevel{}).
			Where("tenant_id = ? AND drug_name = ?", item.TenantID, item.DrugName).
			Updates(map[string]interface{}{
				"last_ordered_at": order.CreatedAt,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to update stock level: %w", err)
		}

		if activity != nil {
			if err := tx.Create(activity).Error; err != nil {
				return fmt.Errorf("failed to log activity: %w", err)
			}
		}
		return nil
	})
}

// HasOutstandingOrder reports whether an order for the drug is still on its
// way (pending, confirmed or in transit)
func (r *RestockRepository) HasOutstandingOrder(ctx context.Context, tenantID, drugName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RestockOrder{}).
		Where("tenant_id = ? AND drug_name = ? AND status IN ?", tenantID, drugName, models.OutstandingRestockOrderStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *RestockRepository) ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error) {
	var orders []models.RestockOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RestockOrder{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

// ========== Stock Levels ==========

// UpsertStockLevel replaces quantity and thresholds of a drug, keyed by tenant and drug
func (r *RestockRepository) UpsertStockLevel(ctx context.Context, level *models.StockLevel) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "drug_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_stock", "minimum_required", "critical_level", "monthly_usage", "updated_at",
		}),
	}).Create(level).Error
}

// ListStockLevels returns the stock levels of every tenant, for the evaluation job
func (r *RestockRepository) ListStockLevels(ctx context.Context) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).Order("tenant_id ASC, drug_name ASC").Find(&levels).Error
	return levels, err
}

func (r *RestockRepository) ListTenantStockLevels(ctx context.Context, tenantID string) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("drug_name ASC").
		Find(&levels).Error
	return levels, err
}
