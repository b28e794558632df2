package attendance

import (
	"net/http"
	"time"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/events"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/middleware"
	"hrms-lite/internal/session"
	"hrms-lite/internal/shared/apperror"
	"hrms-lite/internal/shared/spreadsheet"
	"hrms-lite/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const PageName = "attendance"

const (
	pageTitle       = "Attendance details"
	pageDescription = "Track daily presence and analyze records."
)

type Handler struct {
	client    apiclient.Client
	publisher events.Publisher
	base      *zap.Logger
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(client apiclient.Client, publisher events.Publisher, logger ...*zap.Logger) *Handler {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &Handler{
		client:    client,
		publisher: publisher,
		base:      base,
		logger:    base.Named("attendance.handler"),
	}
}

// SetClock makes controllers built from now on use now for "today".
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

func (h *Handler) build() session.Page {
	ctrl := NewController(h.client, h.publisher, h.base)
	if h.now != nil {
		ctrl.SetClock(h.now)
	}
	return ctrl
}

// current returns the mounted controller, mounting one with the default
// filter when none is active.
func (h *Handler) current(c *gin.Context) *Controller {
	page, fresh := middleware.SessionFrom(c).Mount(PageName, h.build)
	ctrl := page.(*Controller)
	if fresh {
		_ = ctrl.Mount(c.Request.Context())
	}
	return ctrl
}

func (h *Handler) render(c *gin.Context, status int, ctrl *Controller) {
	view := ctrl.View()
	if status == http.StatusOK && view.Phase == fetch.PhaseFailure {
		status = http.StatusBadGateway
	}
	web.Render(c, status, "attendance.html", web.Page{
		Title:       pageTitle,
		Description: pageDescription,
		Active:      PageName,
		Data:        view,
	})
}

// backToList redirects to the page for the active filter, which the mounted
// controller serves without refetching.
func (h *Handler) backToList(c *gin.Context, ctrl *Controller) {
	f := ctrl.Filter()
	q := Query(f)
	q.Set("employee_id", f.EmployeeID)
	c.Redirect(http.StatusSeeOther, "/attendance?"+q.Encode())
}

// Page handles GET /attendance. Without date or employee_id it is a
// navigation and remounts with today's filter; otherwise the parameters
// given replace those of the active filter.
func (h *Handler) Page(c *gin.Context) {
	date, hasDate := c.GetQuery("date")
	employeeID, hasEmployee := c.GetQuery("employee_id")

	if !hasDate && !hasEmployee {
		ctrl := middleware.SessionFrom(c).Remount(PageName, h.build).(*Controller)
		_ = ctrl.Mount(c.Request.Context())
		h.render(c, http.StatusOK, ctrl)
		return
	}

	page, _ := middleware.SessionFrom(c).Mount(PageName, h.build)
	ctrl := page.(*Controller)

	f := ctrl.Filter()
	if hasDate {
		f.Date = date
	}
	if hasEmployee {
		f.EmployeeID = employeeID
	}
	changed, _ := ctrl.SetFilter(c.Request.Context(), f)
	h.logger.Debug("http attendance filter",
		zap.String("date", f.Date),
		zap.String("employee_id", f.EmployeeID),
		zap.Bool("changed", changed),
	)
	h.render(c, http.StatusOK, ctrl)
}

func (h *Handler) New(c *gin.Context) {
	ctrl := h.current(c)
	ctrl.OpenModal()
	h.render(c, http.StatusOK, ctrl)
}

func (h *Handler) Cancel(c *gin.Context) {
	ctrl := h.current(c)
	ctrl.CloseModal()
	h.backToList(c, ctrl)
}

func (h *Handler) Create(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http mark attendance bind failed", zap.Error(err))
		web.Failure(c, http.StatusBadRequest, apperror.CodeInvalidInput, apperror.ErrInvalidInput.Message)
		return
	}

	ctrl := h.current(c)
	if err := ctrl.Submit(c.Request.Context(), req); err != nil {
		h.logger.Debug("http mark attendance rejected", zap.Error(err))
		h.render(c, http.StatusUnprocessableEntity, ctrl)
		return
	}

	if web.WantsJSON(c) {
		h.render(c, http.StatusCreated, ctrl)
		return
	}
	h.backToList(c, ctrl)
}

// Export handles GET /export/attendance.xlsx with the records currently
// displayed.
func (h *Handler) Export(c *gin.Context) {
	view := h.current(c).View()
	if view.Phase == fetch.PhaseFailure {
		web.Failure(c, http.StatusBadGateway, apperror.CodeUpstream, view.Error)
		return
	}

	c.Header("Content-Type", spreadsheet.ContentType)
	c.Header("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	c.Status(http.StatusOK)
	if err := WriteAttendanceXLSX(c.Writer, view.Records); err != nil {
		h.logger.Error("export attendance failed", zap.Error(err))
	}
}
