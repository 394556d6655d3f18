package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medsupply-service/internal/models"
)

// HospitalRequestRepositoryInterface is the persistence contract for inbound requests
type HospitalRequestRepositoryInterface interface {
	ListPending(ctx context.Context, tenantID string) ([]models.HospitalRequest, error)
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.HospitalRequest, error)
	Create(ctx context.Context, request *models.HospitalRequest) error
	Fulfill(ctx context.Context, request *models.HospitalRequest, record *models.FulfillmentRecord, activity *models.ActivityLog) error
}

// HospitalRequestRepository handles database operations for hospital requests
type HospitalRequestRepository struct {
	db *gorm.DB
}

func NewHospitalRequestRepository(db *gorm.DB) *HospitalRequestRepository {
	return &HospitalRequestRepository{db: db}
}

// ListPending returns every open request of a tenant in arrival order.
// Ordering for display is done by the prioritizer, not the query.
func (r *HospitalRequestRepository) ListPending(ctx context.Context, tenantID string) ([]models.HospitalRequest, error) {
	var requests []models.HospitalRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, models.RequestStatusPending).
		Order("timestamp ASC, created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *HospitalRequestRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.HospitalRequest, error) {
	var request models.HospitalRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&request).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *HospitalRequestRepository) Create(ctx context.Context, request *models.HospitalRequest) error {
	return translate(r.db.WithContext(ctx).Create(request).Error)
}

// Fulfill stores the ledger receipt, closes the request and appends the
// activity entry in one transaction
func (r *HospitalRequestRepository) Fulfill(ctx context.Context, request *models.HospitalRequest, record *models.FulfillmentRecord, activity *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create fulfillment record: %w", translate(err))
		}

		result := tx.Model(&models.HospitalRequest{}).
			Where("tenant_id = ? AND id = ? AND status = ?", request.TenantID, request.ID, models.RequestStatusPending).
			Update("status", models.RequestStatusFulfilled)
		if result.Error != nil {
			return fmt.Errorf("failed to update request status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("id = ?", request.ID).Delete(&models.HospitalRequest{}).Error; err != nil {
			return fmt.Errorf("failed to remove request: %w", err)
		}

		if activity != nil {
			if err := tx.Create(activity).Error; err != nil {
				return fmt.Errorf("failed to log activity: %w", err)
			}
		}

		request.Status = models.RequestStatusFulfilled
		return nil
	})
}
