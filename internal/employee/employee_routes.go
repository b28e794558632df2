package employee

import (
	"hrms-lite/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.Page)
		employees.GET("/new", handler.New)
		employees.POST("/cancel", handler.Cancel)

		employees.POST("",
			middleware.RateLimitBySession(1, 5),
			middleware.Idempotency(rdb, "/employees"),
			handler.Create,
		)

		employees.GET("/delete", handler.ConfirmDelete)
		employees.POST("/delete",
			middleware.RateLimitBySession(0.5, 3),
			handler.Delete,
		)
	}

	r.GET("/export/employees.xlsx", handler.Export)
}
