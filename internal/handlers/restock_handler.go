package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

// RestockServiceInterface is what the handler needs from the service layer
type RestockServiceInterface interface {
	ListLowStock(ctx context.Context, tenantID string) ([]models.LowStockItemView, error)
	RequestFromDistributor(ctx context.Context, tenantID string, itemID, distributorID uuid.UUID, actor string) (*models.RestockOrder, error)
	ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]models.RestockOrder, int64, error)
	UpsertStockLevel(ctx context.Context, tenantID, actor string, input models.UpsertStockLevelRequest) (*models.StockLevel, error)
	Evaluate(ctx context.Context, tenantID string) (*services.EvaluationResult, error)
}

type RestockHandler struct {
	service    RestockServiceInterface
	pagination Pagination
}

func NewRestockHandler(service RestockServiceInterface, pagination Pagination) *RestockHandler {
	return &RestockHandler{service: service, pagination: pagination}
}

// ListLowStock returns low-stock items with ranked distributor candidates
// @Summary List low-stock items
// @Tags Restock
// @Produce json
// @Router /api/v1/low-stock [get]
func (h *RestockHandler) ListLowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to list low stock items")
		return
	}

	c.JSON(http.StatusOK, models.LowStockListResponse{
		Success: true,
		Data:    items,
		Total:   len(items),
	})
}

// EvaluateStock runs the stock evaluation for the tenant now
// POST /api/v1/low-stock/evaluate
func (h *RestockHandler) EvaluateStock(c *gin.Context) {
	result, err := h.service.Evaluate(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to evaluate stock levels")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// RequestFromDistributor places a restock order for a low-stock item
// @Summary Request stock from a distributor
// @Tags Restock
// @Accept json
// @Produce json
// @Param id path string true "Low-stock item ID"
// @Param request body models.RequestFromDistributorRequest true "Distributor selection"
// @Success 201 {object} models.RestockOrder
// @Failure 422 {object} models.ErrorResponse
// @Router /api/v1/low-stock/{id}/request [post]
func (h *RestockHandler) RequestFromDistributor(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid low stock item ID")
		return
	}

	var req models.RequestFromDistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.service.RequestFromDistributor(c.Request.Context(), middleware.GetTenantID(c), itemID, req.DistributorID, middleware.GetActorName(c))
	if err != nil {
		respondServiceError(c, err, "Failed to place restock order")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    order,
		Message: stringPtr("Restock order placed"),
	})
}

// ListRestockOrders returns placed orders, newest first
// GET /api/v1/restock-orders
func (h *RestockHandler) ListRestockOrders(c *gin.Context) {
	page, limit, offset := h.pagination.parse(c)

	orders, total, err := h.service.ListOrders(c.Request.Context(), middleware.GetTenantID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list restock orders")
		return
	}

	c.JSON(http.StatusOK, models.RestockOrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: models.NewPaginationMeta(page, limit, total),
	})
}

// UpsertStockLevel sets the on-hand quantity and thresholds of a drug
// @Summary Upsert stock level
// @Tags Restock
// @Accept json
// @Produce json
// @Param request body models.UpsertStockLevelRequest true "Stock level"
// @Success 200 {object} models.StockLevel
// @Router /api/v1/stock-levels [put]
func (h *RestockHandler) UpsertStockLevel(c *gin.Context) {
	var req models.UpsertStockLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	level, err := h.service.UpsertStockLevel(c.Request.Context(), middleware.GetTenantID(c), middleware.GetActorName(c), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update stock level")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    level,
		Message: stringPtr("Stock level updated"),
	})
}
