package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceName = "medsupply-service"

// CacheHealth is implemented by repositories backed by the shared cache layer
type CacheHealth interface {
	RedisHealth(ctx context.Context) error
	CacheStats() *cache.CacheStats
}

type HealthHandler struct {
	db    *gorm.DB
	cache CacheHealth
}

func NewHealthHandler(db *gorm.DB, cacheHealth CacheHealth) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheHealth}
}

// HealthCheck returns service health status (basic)
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// ReadinessCheck reports ready once the database answers a ping
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ExtendedHealthCheck returns detailed health status including Redis
func (h *HealthHandler) ExtendedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"checks":  gin.H{},
	}

	checks := health["checks"].(gin.H)

	if err := h.pingDB(ctx); err != nil {
		checks["database"] = gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = gin.H{
			"status": "healthy",
		}
	}

	if h.cache != nil {
		if err := h.cache.RedisHealth(ctx); err != nil {
			checks["redis"] = gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["redis"] = gin.H{
				"status": "healthy",
			}
		}

		if stats := h.cache.CacheStats(); stats != nil {
			checks["cache_stats"] = gin.H{
				"l1_hits":   stats.L1Hits,
				"l1_misses": stats.L1Misses,
				"l2_hits":   stats.L2Hits,
				"l2_misses": stats.L2Misses,
			}
		}
	}

	for _, check := range checks {
		if checkMap, ok := check.(gin.H); ok {
			if status, ok := checkMap["status"]; ok && status == "unhealthy" {
				health["status"] = "degraded"
				break
			}
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
