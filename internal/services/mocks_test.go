package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medsupply-service/internal/ledger"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
)

// MockHospitalRequestRepository is a mock implementation of HospitalRequestRepositoryInterface
type MockHospitalRequestRepository struct {
	mock.Mock
}

var _ repository.HospitalRequestRepositoryInterface = (*MockHospitalRequestRepository)(nil)

func (m *MockHospitalRequestRepository) ListPending(ctx context.Context, tenantID string) ([]models.HospitalRequest, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.HospitalRequest), args.Error(1)
}

func (m *MockHospitalRequestRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.HospitalRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HospitalRequest), args.Error(1)
}

func (m *MockHospitalRequestRepository) Create(ctx context.Context, request *models.HospitalRequest) error {
	args := m.Called(ctx, request)
	if args.Error(0) == nil {
		request.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockHospitalRequestRepository) Fulfill(ctx context.Context, request *models.HospitalRequest, record *models.FulfillmentRecord, activity *models.ActivityLog) error {
	args := m.Called(ctx, request, record, activity)
	return args.Error(0)
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
	return args.Error(0)
}

func (m *MockDistributorRepository) Upsert(ctx context.Context, distributor *models.Distributor) error {
	args := m.Called(ctx, distributor)
	return args.Error(0)
}

// MockRestockRepository is a mock implementation of RestockRepositoryInterface
type MockRestockRepository struct {
	mock.Mock
}

var _ repository.RestockRepositoryInterface = (*MockRestockRepository)(nil)

func (m *MockRestockRepository) ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItem, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.LowStockItem), args.Error(1)
}

func (m *MockRestockRepository) GetLowStock(ctx context.Context, tenantID string, id uuid.UUID) (*models.LowStockItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LowStockItem), args.Error(1)
}

func (m *MockRestockRepository) FindLowStockByDrug(ctx context.Context, tenantID, drugName string) (*models.LowStockItem, error) {
	args := m.Called(ctx, tenantID, drugName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LowStockItem), args.Error(1)
}

func (m *MockRestockRepository) CreateLowStock(ctx context.Context, item *models.LowStockItem) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRestockRepository) PlaceOrder(ctx context.Context, item *models.LowStockItem, order *models.RestockOrder, activity *models.ActivityLog) error {
	args := m.Called(ctx, item, order, activity)
	return args.Error(0)
}

func (m *MockRestockRepository) HasOutstandingOrder(ctx context.Context, tenantID, drugName string) (bool, error) {
	args := m.Called(ctx, tenantID, drugName)
	return args.Bool(0), args.Error(1)
}

func (m *MockRestockRepository) ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]models.RestockOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestockRepository) UpsertStockLevel(ctx context.Context, level *models.StockLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockRestockRepository) ListStockLevels(ctx context.Context) ([]models.StockLevel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StockLevel), args.Error(1)
}

func (m *MockRestockRepository) ListTenantStockLevels(ctx context.Context, tenantID string) ([]models.StockLevel, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.StockLevel), args.Error(1)
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

// MockLedger is a mock implementation of ledger.Ledger
type MockLedger struct {
	mock.Mock
}

var _ ledger.Ledger = (*MockLedger)(nil)

func (m *MockLedger) RecordFulfillment(ctx context.Context, entry ledger.FulfillmentEntry) (*ledger.Receipt, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}

func (m *MockLedger) RecordRestockOrder(ctx context.Context, entry ledger.RestockEntry) (*ledger.Receipt, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}

func (m *MockLedger) Mode() string {
	return ledger.ModeSimulated
}

// MockStockEventPublisher is a mock implementation of StockEventPublisher
type MockStockEventPublisher struct {
	mock.Mock
}

var _ StockEventPublisher = (*MockStockEventPublisher)(nil)

func (m *MockStockEventPublisher) PublishLowStock(ctx context.Context, item models.LowStockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockEventPublisher) PublishStockAdjusted(ctx context.Context, level models.StockLevel, previousStock int, adjustedBy string) error {
	args := m.Called(ctx, level, previousStock, adjustedBy)
	return args.Error(0)
}
