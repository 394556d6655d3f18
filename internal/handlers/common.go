package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

// Pagination bounds list endpoints
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (p Pagination) parse(c *gin.Context) (page, limit, offset int) {
	page = 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}

	limit = p.DefaultPageSize
	if limit <= 0 {
		limit = 20
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if p.MaxPageSize > 0 && limit > p.MaxPageSize {
		limit = p.MaxPageSize
	}

	return page, limit, (page - 1) * limit
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// respondServiceError maps service sentinel errors onto HTTP responses
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrLowStockItemNotFound),
		errors.Is(err, services.ErrDistributorNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrDrugNotStocked),
		errors.Is(err, services.ErrDistributorUnavailable):
		respondError(c, http.StatusUnprocessableEntity, "DISTRIBUTOR_UNSUITABLE", err.Error())
	case errors.Is(err, services.ErrLedger):
		respondError(c, http.StatusBadGateway, "LEDGER_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func stringPtr(s string) *string {
	return &s
}
