package app

import (
	"net/http"

	"hrms-lite/internal/attendance"
	"hrms-lite/internal/dashboard"
	"hrms-lite/internal/employee"
	"hrms-lite/internal/shared/response"

	"github.com/gin-gonic/gin"
)

func registerModules(router *gin.Engine, a *App) {
	// --- Handlers ---
	dashboardHandler := dashboard.NewHandler(a.Client)
	employeeHandler := employee.NewHandler(a.Client, a.Publisher)
	attendanceHandler := attendance.NewHandler(a.Client, a.Publisher)

	// --- Routes Registration ---
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": a.Sessions.Len(),
		})
	})

	console := &router.RouterGroup
	{
		dashboard.RegisterRoutes(console, dashboardHandler)
		employee.RegisterRoutes(console, employeeHandler, a.Redis)
		attendance.RegisterRoutes(console, attendanceHandler, a.Redis)
	}
}
