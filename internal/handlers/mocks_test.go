package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
	"medsupply-service/internal/services"
)

// MockHospitalRequestService is a mock implementation of HospitalRequestServiceInterface
type MockHospitalRequestService struct {
	mock.Mock
}

var _ HospitalRequestServiceInterface = (*MockHospitalRequestService)(nil)

func (m *MockHospitalRequestService) List(ctx context.Context, tenantID string, criteria models.FilterCriteria) (*services.ListResult, error) {
	args := m.Called(ctx, tenantID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ListResult), args.Error(1)
}

func (m *MockHospitalRequestService) Export(ctx context.Context, tenantID string, criteria models.FilterCriteria, format services.ReportFormat) (*services.Report, error) {
	args := m.Called(ctx, tenantID, criteria, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Report), args.Error(1)
}

func (m *MockHospitalRequestService) Create(ctx context.Context, tenantID, actor string, input models.CreateHospitalRequestRequest) (*models.HospitalRequest, error) {
	args := m.Called(ctx, tenantID, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HospitalRequest), args.Error(1)
}

func (m *MockHospitalRequestService) Fulfill(ctx context.Context, tenantID string, id uuid.UUID, actor string) (*models.FulfillmentRecord, error) {
	args := m.Called(ctx, tenantID, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FulfillmentRecord), args.Error(1)
}

func (m *MockHospitalRequestService) SavedFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(models.FilterCriteria), args.Error(1)
}

func (m *MockHospitalRequestService) SaveFilters(ctx context.Context, tenantID, userID string, criteria models.FilterCriteria) (models.FilterCriteria, error) {
	args := m.Called(ctx, tenantID, userID, criteria)
	return args.Get(0).(models.FilterCriteria), args.Error(1)
}

func (m *MockHospitalRequestService) ClearFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(models.FilterCriteria), args.Error(1)
}

// MockRestockService is a mock implementation of RestockServiceInterface
type MockRestockService struct {
	mock.Mock
}

var _ RestockServiceInterface = (*MockRestockService)(nil)

func (m *MockRestockService) ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItemView, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.LowStockItemView), args.Error(1)
}

func (m *MockRestockService) RequestFromDistributor(ctx context.Context, tenantID string, itemID, distributorID uuid.UUID, actor string) (*models.RestockOrder, error) {
	args := m.Called(ctx, tenantID, itemID, distributorID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RestockOrder), args.Error(1)
}

func (m *MockRestockService) ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]models.RestockOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestockService) UpsertStockLevel(ctx context.Context, tenantID, actor string, input models.UpsertStockLevelRequest) (*models.StockLevel, error) {
	args := m.Called(ctx, tenantID, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockLevel), args.Error(1)
}

func (m *MockRestockService) Evaluate(ctx context.Context, tenantID string) (*services.EvaluationResult, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EvaluationResult), args.Error(1)
}

// MockDistributorRepository is a mock implementation of DistributorRepositoryInterface
type MockDistributorRepository struct {
	mock.Mock
}

var _ repository.DistributorRepositoryInterface = (*MockDistributorRepository)(nil)

func (m *MockDistributorRepository) ListAll(ctx context.Context, tenantID string) ([]models.Distributor, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.Distributor), args.Error(1)
}

func (m *MockDistributorRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]models.Distributor, int64, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]models.Distributor), args.Get(1).(int64), args.Error(2)
}

func (m *MockDistributorRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Distributor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Distributor), args.Error(1)
}

func (m *MockDistributorRepository) Create(ctx context.Context, distributor *models.Distributor) error {
	args := m.Called(ctx, distributor)
	if args.Error(0) == nil {
		distributor.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockDistributorRepository) Upsert(ctx context.Context, distributor *models.Distributor) error {
	args := m.Called(ctx, distributor)
	if args.Error(0) == nil {
		distributor.ID = uuid.New()
	}
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of ActivityRepositoryInterface
type MockActivityRepository struct {
	mock.Mock
}

var _ repository.ActivityRepositoryInterface = (*MockActivityRepository)(nil)

func (m *MockActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, tenantID, activityType string, limit, offset int) ([]models.ActivityLog, int64, error) {
	args := m.Called(ctx, tenantID, activityType, limit, offset)
	return args.Get(0).([]models.ActivityLog), args.Get(1).(int64), args.Error(2)
}
