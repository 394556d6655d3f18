package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

// HospitalRequestServiceInterface is what the handler needs from the service layer
type HospitalRequestServiceInterface interface {
	List(ctx context.Context, tenantID string, criteria models.FilterCriteria) (*services.ListResult, error)
	Export(ctx context.Context, tenantID string, criteria models.FilterCriteria, format services.ReportFormat) (*services.Report, error)
	Create(ctx context.Context, tenantID, actor string, input models.CreateHospitalRequestRequest) (*models.HospitalRequest, error)
	Fulfill(ctx context.Context, tenantID string, id uuid.UUID, actor string) (*models.FulfillmentRecord, error)
	SavedFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error)
	SaveFilters(ctx context.Context, tenantID, userID string, criteria models.FilterCriteria) (models.FilterCriteria, error)
	ClearFilters(ctx context.Context, tenantID, userID string) (models.FilterCriteria, error)
}

type HospitalRequestHandler struct {
	service HospitalRequestServiceInterface
}

func NewHospitalRequestHandler(service HospitalRequestServiceInterface) *HospitalRequestHandler {
	return &HospitalRequestHandler{service: service}
}

// criteria reads filters from the query string. With useSaved=true the
// user's saved filters are the base and query values override them.
func (h *HospitalRequestHandler) criteria(c *gin.Context) (models.FilterCriteria, error) {
	var base models.FilterCriteria
	if useSaved, _ := strconv.ParseBool(c.Query("useSaved")); useSaved {
		saved, err := h.service.SavedFilters(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c))
		if err != nil {
			return base, err
		}
		base = saved
	}

	var query models.FilterCriteria
	if err := c.ShouldBindQuery(&query); err != nil {
		return base, fmt.Errorf("%w: %v", services.ErrInvalidFilter, err)
	}

	if query.Urgency != "" {
		base.Urgency = query.Urgency
	}
	if query.Type != "" {
		base.Type = query.Type
	}
	if query.Drug != "" {
		base.Drug = query.Drug
	}
	if query.DateRange != "" {
		base.DateRange = query.DateRange
	}
	if query.SortBy != "" {
		base.SortBy = query.SortBy
	}
	return base.WithDefaults(), nil
}

// ListHospitalRequests returns pending requests filtered, sorted and ranked
// @Summary List hospital requests
// @Tags HospitalRequests
// @Produce json
// @Param urgency query string false "high, medium, low or All"
// @Param type query string false "rural, urban or All"
// @Param drug query string false "Drug name or All Medicines"
// @Param dateRange query string false "Last Hour, Last 24 Hours, Last 7 Days, Last 30 Days or All Time"
// @Param sortBy query string false "priority, distance or timestamp"
// @Param useSaved query bool false "Start from the caller's saved filters"
// @Success 200 {object} models.HospitalRequestListResponse
// @Router /api/v1/hospital-requests [get]
func (h *HospitalRequestHandler) ListHospitalRequests(c *gin.Context) {
	criteria, err := h.criteria(c)
	if err != nil {
		respondServiceError(c, err, "Failed to load filters")
		return
	}

	result, err := h.service.List(c.Request.Context(), middleware.GetTenantID(c), criteria)
	if err != nil {
		respondServiceError(c, err, "Failed to list hospital requests")
		return
	}

	c.JSON(http.StatusOK, models.HospitalRequestListResponse{
		Success:        true,
		Data:           result.Requests,
		Filters:        result.Filters,
		Total:          result.Total,
		Matched:        result.Matched,
		FiltersApplied: result.FiltersApplied,
		EmptyReason:    result.EmptyReason,
	})
}

// CreateHospitalRequest registers an inbound request
// @Summary Create hospital request
// @Tags HospitalRequests
// @Accept json
// @Produce json
// @Param request body models.CreateHospitalRequestRequest true "Hospital request"
// @Success 201 {object} models.HospitalRequest
// @Router /api/v1/hospital-requests [post]
func (h *HospitalRequestHandler) CreateHospitalRequest(c *gin.Context) {
	var req models.CreateHospitalRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	request, err := h.service.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetActorName(c), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create hospital request")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    request,
		Message: stringPtr("Hospital request created successfully"),
	})
}

// FulfillHospitalRequest records the fulfillment on the ledger and closes the request
// @Summary Fulfill hospital request
// @Tags HospitalRequests
// @Produce json
// @Param id path string true "Hospital request ID"
// @Success 200 {object} models.FulfillmentRecord
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/hospital-requests/{id}/fulfill [post]
func (h *HospitalRequestHandler) FulfillHospitalRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid hospital request ID")
		return
	}

	record, err := h.service.Fulfill(c.Request.Context(), middleware.GetTenantID(c), id, middleware.GetActorName(c))
	if err != nil {
		respondServiceError(c, err, "Failed to fulfill hospital request")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    record,
		Message: stringPtr("Hospital request fulfilled"),
	})
}

// ExportHospitalRequests downloads the prioritized list as CSV, JSON or XLSX
// @Summary Export hospital requests
// @Tags HospitalRequests
// @Produce octet-stream
// @Param format query string false "csv, json or xlsx" default(csv)
// @Router /api/v1/hospital-requests/export [get]
func (h *HospitalRequestHandler) ExportHospitalRequests(c *gin.Context) {
	criteria, err := h.criteria(c)
	if err != nil {
		respondServiceError(c, err, "Failed to load filters")
		return
	}

	format := services.ReportFormat(c.DefaultQuery("format", string(services.ReportFormatCSV)))
	report, err := h.service.Export(c.Request.Context(), middleware.GetTenantID(c), criteria, format)
	if err != nil {
		respondServiceError(c, err, "Failed to export hospital requests")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Body)
}

// GetSavedFilters returns the caller's saved filters, defaults when none
// GET /api/v1/hospital-requests/filters
func (h *HospitalRequestHandler) GetSavedFilters(c *gin.Context) {
	criteria, err := h.service.SavedFilters(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to load filters")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: criteria})
}

// SaveFilters stores the caller's filters
// PUT /api/v1/hospital-requests/filters
func (h *HospitalRequestHandler) SaveFilters(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	saved, err := h.service.SaveFilters(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), criteria)
	if err != nil {
		respondServiceError(c, err, "Failed to save filters")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: saved})
}

// ClearFilters resets the caller's filters to the defaults
// DELETE /api/v1/hospital-requests/filters
func (h *HospitalRequestHandler) ClearFilters(c *gin.Context) {
	criteria, err := h.service.ClearFilters(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to clear filters")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    criteria,
		Message: stringPtr("Filters cleared"),
	})
}
