package middleware

import (
	"hrms-lite/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger decorated with the request and session ids.
// It must run after RequestID and Session.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		md := contextutil.ExtractMetadata(ctx)

		reqLogger := logger.With(
			zap.String("request_id", md.RequestID),
			zap.String("session_id", md.SessionID),
		)

		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))
		c.Next()
	}
}
