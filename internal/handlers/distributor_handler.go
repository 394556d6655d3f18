package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
)

type DistributorHandler struct {
	repo       repository.DistributorRepositoryInterface
	pagination Pagination
}

func NewDistributorHandler(repo repository.DistributorRepositoryInterface, pagination Pagination) *DistributorHandler {
	return &DistributorHandler{repo: repo, pagination: pagination}
}

// CreateDistributor adds a distributor to the catalog
// POST /api/v1/distributors
func (h *DistributorHandler) CreateDistributor(c *gin.Context) {
	var req models.CreateDistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	distributor := distributorFromRequest(middleware.GetTenantID(c), req)
	distributor.CreatedBy = stringPtr(middleware.GetActorName(c))

	if err := h.repo.Create(c.Request.Context(), distributor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(c, http.StatusConflict, "DUPLICATE_CODE", "A distributor with this code already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create distributor")
		return
	}

	c.JSON(http.StatusCreated, models.DistributorResponse{
		Success: true,
		Data:    distributor,
		Message: stringPtr("Distributor created successfully"),
	})
}

// GetDistributor retrieves a distributor by ID
// GET /api/v1/distributors/:id
func (h *DistributorHandler) GetDistributor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid distributor ID")
		return
	}

	distributor, err := h.repo.GetByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Distributor not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load distributor")
		return
	}

	c.JSON(http.StatusOK, models.DistributorResponse{
		Success: true,
		Data:    distributor,
	})
}

// ListDistributors returns the catalog with pagination
// GET /api/v1/distributors
func (h *DistributorHandler) ListDistributors(c *gin.Context) {
	page, limit, offset := h.pagination.parse(c)

	distributors, total, err := h.repo.List(c.Request.Context(), middleware.GetTenantID(c), limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list distributors")
		return
	}

	c.JSON(http.StatusOK, models.DistributorListResponse{
		Success:    true,
		Data:       distributors,
		Pagination: models.NewPaginationMeta(page, limit, total),
	})
}

func distributorFromRequest(tenantID string, req models.CreateDistributorRequest) *models.Distributor {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &models.Distributor{
		TenantID:          tenantID,
		Code:              req.Code,
		Name:              req.Name,
		Address:           req.Address,
		Location:          req.Location,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Distance:          req.Distance,
		EstimatedDelivery: req.EstimatedDelivery,
		Available:         available,
		Rating:            req.Rating,
		Specialization:    req.Specialization,
		Inventory:         models.DrugQuantities(req.Inventory),
		Pricing:           models.DrugPrices(req.Pricing),
		Advantages:        req.Advantages,
	}
}
