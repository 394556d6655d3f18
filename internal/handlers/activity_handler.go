package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
)

type ActivityHandler struct {
	repo       repository.ActivityRepositoryInterface
	pagination Pagination
}

func NewActivityHandler(repo repository.ActivityRepositoryInterface, pagination Pagination) *ActivityHandler {
	return &ActivityHandler{repo: repo, pagination: pagination}
}

// ListActivity returns the audit trail, newest first, optionally by type
// GET /api/v1/activity
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	page, limit, offset := h.pagination.parse(c)

	entries, total, err := h.repo.List(c.Request.Context(), middleware.GetTenantID(c), c.Query("type"), limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list activity")
		return
	}

	c.JSON(http.StatusOK, models.ActivityListResponse{
		Success:    true,
		Data:       entries,
		Pagination: models.NewPaginationMeta(page, limit, total),
	})
}
