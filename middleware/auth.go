package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-intake-api/monitor"
	"volunteer-intake-api/services"
)

// RequireApprovalToken rejects requests whose ?token= does not equal the shared approval
// secret. The secret is global: it does not identify the submission being approved.
func RequireApprovalToken(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.VerifyApprovalToken(secret, c.Query("token")); err != nil {
			monitor.Approvals.WithLabelValues(monitor.ResultUnauthorized).Inc()
			logger.Warn("approval rejected",
				zap.String("clientIP", c.ClientIP()),
				zap.String("email", c.Query("email")),
				zap.Error(err),
			)
			c.String(http.StatusForbidden, "Invalid approval token.")
			c.Abort()
			return
		}

		c.Next()
	}
}
