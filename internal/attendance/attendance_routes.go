package attendance

import (
	"hrms-lite/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	attendance := r.Group("/attendance")
	{
		attendance.GET("", handler.Page)
		attendance.GET("/new", handler.New)
		attendance.POST("/cancel", handler.Cancel)

		attendance.POST("",
			middleware.RateLimitBySession(1, 5),
			middleware.Idempotency(rdb, "/attendance"),
			handler.Create,
		)
	}

	r.GET("/export/attendance.xlsx", handler.Export)
}
