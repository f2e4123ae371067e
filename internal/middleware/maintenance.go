package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MaintenanceSecretHeader carries the shared secret for maintenance endpoints
const MaintenanceSecretHeader = "X-Maintenance-Secret"

// MaintenanceSecret guards maintenance endpoints with a shared secret.
// An empty secret leaves them open.
func MaintenanceSecret(secret string, logger *logrus.Logger) gin.HandlerFunc {
	if secret == "" {
		logger.Warn("MAINTENANCE_SECRET is not set, maintenance endpoints are unauthenticated")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	expected := []byte(secret)
	return func(c *gin.Context) {
		provided := []byte(c.GetHeader(MaintenanceSecretHeader))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Rejected maintenance request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid maintenance secret",
				"code":    "INVALID_MAINTENANCE_SECRET",
			})
			return
		}
		c.Next()
	}
}
