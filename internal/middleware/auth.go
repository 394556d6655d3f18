package middleware

import (
	"strings"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/gin-gonic/gin"
)

// DevelopmentAuthMiddleware stands in for Istio JWT auth outside production
func DevelopmentAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/health") ||
			strings.HasPrefix(c.Request.URL.Path, "/ready") {
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = "00000000-0000-0000-0000-000000000001"
		}

		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			tenantID = "00000000-0000-0000-0000-000000000001"
		}

		userName := c.GetHeader("X-User-Name")
		if userName == "" {
			userName = "Development User"
		}

		c.Set("user_id", userID)
		c.Set("staff_id", userID) // RBAC middleware checks staff_id first
		c.Set("user_email", "dev@example.com")
		c.Set("user_name", userName)
		c.Set("tenant_id", tenantID)
		c.Set("user_roles", []string{"admin", "pharmacist"})

		c.Next()
	}
}

// GetActorName returns a display name for audit entries
func GetActorName(c *gin.Context) string {
	if name := c.GetString("user_name"); name != "" {
		return name
	}
	if actor := gosharedmw.GetActorInfo(c); actor.ActorName != "" {
		return actor.ActorName
	}
	return GetUserID(c)
}
