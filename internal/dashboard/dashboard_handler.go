package dashboard

import (
	"net/http"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/middleware"
	"hrms-lite/internal/session"
	"hrms-lite/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const PageName = "dashboard"

type Handler struct {
	client apiclient.Client
	base   *zap.Logger
}

func NewHandler(client apiclient.Client, logger ...*zap.Logger) *Handler {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &Handler{client: client, base: base}
}

// Page handles GET /dashboard; every visit is a fresh mount.
func (h *Handler) Page(c *gin.Context) {
	ctrl := middleware.SessionFrom(c).Remount(PageName, func() session.Page {
		return NewController(h.client, h.base)
	}).(*Controller)
	_ = ctrl.Mount(c.Request.Context())

	view := ctrl.View()
	status := http.StatusOK
	if view.Phase == fetch.PhaseFailure {
		status = http.StatusBadGateway
	}
	web.Render(c, status, "dashboard.html", web.Page{
		Title:       "Dashboard",
		Description: "Daily HR snapshot and employee attendance aggregated stats.",
		Active:      PageName,
		Data:        view,
	})
}
