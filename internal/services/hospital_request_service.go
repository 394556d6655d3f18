package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"medsupply-service/internal/ledger"
	"medsupply-service/internal/metrics"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
	"medsupply-service/internal/store"
)

// HospitalRequestService lists, exports and fulfills inbound hospital requests
type HospitalRequestService struct {
	repo     repository.HospitalRequestRepositoryInterface
	filters  store.StateStore[models.FilterCriteria]
	ledger   ledger.Ledger
	exporter *ReportExporter
	metrics  *metrics.SupplyCollector
	logger   *logrus.Entry
	now      func() time.Time
}

func NewHospitalRequestService(
	repo repository.HospitalRequestRepositoryInterface,
	filters store.StateStore[models.FilterCriteria],
	ledgerClient ledger.Ledger,
	exporter *ReportExporter,
	collector *metrics.SupplyCollector,
	logger *logrus.Logger,
) *HospitalRequestService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if exporter == nil {
		exporter = NewReportExporter(time.UTC)
	}
	return &HospitalRequestService{
		repo:     repo,
		filters:  filters,
		ledger:   ledgerClient,
		exporter: exporter,
		metrics:  collector,
		logger:   logger.WithField("component", "hospital_request_service"),
		now:      time.Now,
	}
}

// ListResult is a prioritized page of requests together with the counts the
// dashboard needs to tell "nothing pending" from "nothing matches"
type ListResult struct {
	Requests       []models.RankedRequest
	Filters        models.FilterCriteria
	Total          int
	Matched        int
	FiltersApplied int
	EmptyReason    string
}

// List filters, sorts and ranks the pending requests of a tenant
func (s *HospitalRequestService) List(ctx context.Context, tenantID string, criteria models.FilterCriteria) (*ListResult, error) {
	criteria = criteria.WithDefaults()
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	all, err := s.repo.ListPending(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospital requests: %w", err)
	}

	ranked := PrioritizeRequests(all, criteria, s.now())
	s.metrics.ObservePrioritization(string(criteria.SortBy), len(ranked))

	result := &ListResult{
		Requests:       ranked,
		Filters:        criteria,
		Total:          len(all),
		Matched:        len(ranked),
		FiltersApplied: criteria.ActiveCount(),
	}
	switch {
	case len(all) == 0:
		result.EmptyReason = models.EmptyReasonNoRequests
	case len(ranked) == 0:
		result.EmptyReason = models.EmptyReasonNoMatches
	}
	return result, nil
}

// Export renders the prioritized list in the requested format
func (s *HospitalRequestService) Export(ctx context.Context, tenantID string, criteria models.FilterCriteria, format ReportFormat) (*Report, error) {
	result, err := s.List(ctx, tenantID, criteria)
	if err != nil {
		return nil, err
	}

	report, err := s.exporter.Export(format, result.Requests, result.Filters)
	if err != nil {
		return nil, err
	}

	s.metrics.ReportExported(string(format))
	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"format":    format,
		"rows":      report.Rows,
	}).Info("Exported hospital request report")
	return report, nil
}

// Create registers an inbound request. A missing timestamp means now.
func (s *HospitalRequestService) Create(ctx context.Context, tenantID, actor string, input models.CreateHospitalRequestRequest) (*models.HospitalRequest, error) {
	request := &models.HospitalRequest{
		TenantID:     tenantID,
		HospitalName: input.HospitalName,
		Location:     input.Location,
		Type:         input.Type,
		DrugName:     input.DrugName,
		Quantity:     input.Quantity,
		Urgency:      input.Urgency,
		Distance:     input.Distance,
		Timestamp:    s.now().UnixMilli(),
		Status:       models.RequestStatusPending,
	}
	if input.Timestamp != nil {
		request.Timestamp = *input.Timestamp
	}
	if actor != "" {
		request.CreatedBy = &actor
	}

	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create hospital request: %w", err)
	}
	return request, nil
}

// Fulfill records the fulfillment on the ledger, then closes the request.
// The request stays pending when the ledger rejects the transaction.
func (s *HospitalRequestService) Fulfill(ctx context.Context, tenantID string, id uuid.UUID, actor string) (*models.FulfillmentRecord, error) {
	request, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	started := s.now()
	receipt, err := s.ledger.RecordFulfillment(ctx, ledger.FulfillmentEntry{
		TenantID:     tenantID,
		RequestID:    request.ID,
		HospitalName: request.HospitalName,
		DrugName:     request.DrugName,
		Quantity:     request.Quantity,
		Urgency:      request.Urgency.LedgerCode(),
		FulfilledBy:  actor,
	})
	s.metrics.LedgerTransaction(s.ledger.Mode(), "fulfillment", started, err)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", id).Error("Ledger rejected fulfillment")
		return nil, fmt.Errorf("%w: %v", ErrLedger, err)
	}

	record := &models.FulfillmentRecord{
		TenantID:          tenantID,
		HospitalRequestID: request.ID,
		HospitalName:      request.HospitalName,
		DrugName:          request.DrugName,
		Quantity:          request.Quantity,
		TransactionHash:   receipt.TransactionHash,
		Simulated:         receipt.Simulated,
		FulfilledAt:       receipt.RecordedAt,
	}
	if actor != "" {
		record.FulfilledBy = &actor
	}

	activity := newActivity(tenantID, models.ActivityHospitalRequestFulfilled, actor, receipt.TransactionHash, map[string]interface{}{
		"requestId": request.ID,
		"hospital":  request.HospitalName,
		"drug":      request.DrugName,
		"quantity":  request.Quantity,
		"simulated": receipt.Simulated,
	})

	if err := s.repo.Fulfill(ctx, request, record, activity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fulfill hospital request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":  tenantID,
		"request_id": request.ID,
		"tx_hash":    receipt.TransactionHash,
		"simulated":  receipt.Simulated,
	}).Info("Hospital request fulfilled")
	return record, nil
}

func filterKey(tenantID, userID string) string {
	return tenantID + ":" + userID
}

// SavedFilters returns the user's saved criteria, or the defaults when none
// were saved
func (s *HospitalRequestService) SavedFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error) {
	criteria, err := s.filters.Get(ctx, filterKey(tenantID, userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.DefaultFilterCriteria(), nil
		}
		return models.FilterCriteria{}, err
	}
	return criteria.WithDefaults(), nil
}

func (s *HospitalRequestService) SaveFilters(ctx context.Context, tenantID, userID string, criteria models.FilterCriteria) (models.FilterCriteria, error) {
	criteria = criteria.WithDefaults()
	if err := criteria.Validate(); err != nil {
		return models.FilterCriteria{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if err := s.filters.Put(ctx, filterKey(tenantID, userID), criteria); err != nil {
		return models.FilterCriteria{}, fmt.Errorf("failed to save filters: %w", err)
	}
	return criteria, nil
}

// ClearFilters drops the saved criteria; the user is back on the defaults
func (s *HospitalRequestService) ClearFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error) {
	if err := s.filters.Delete(ctx, filterKey(tenantID, userID)); err != nil {
		return models.FilterCriteria{}, fmt.Errorf("failed to clear filters: %w", err)
	}
	return models.DefaultFilterCriteria(), nil
}

func newActivity(tenantID, activityType, actor, txHash string, details map[string]interface{}) *models.ActivityLog {
	raw, _ := json.Marshal(details)
	return &models.ActivityLog{
		TenantID:        tenantID,
		Type:            activityType,
		Actor:           actor,
		Details:         datatypes.JSON(raw),
		TransactionHash: txHash,
	}
}
