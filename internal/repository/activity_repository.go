package repository

import (
	"context"

	"gorm.io/gorm"

	"medsupply-service/internal/models"
)

// ActivityRepositoryInterface is the append-only audit trail
type ActivityRepositoryInterface interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, tenantID, activityType string, limit, offset int) ([]models.ActivityLog, int64, error)
}

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns newest entries first, optionally narrowed to one type
func (r *ActivityRepository) List(ctx context.Context, tenantID, activityType string, limit, offset int) ([]models.ActivityLog, int64, error) {
	var entries []models.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("tenant_id = ?", tenantID)
	if activityType != "" {
		query = query.Where("type = ?", activityType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
