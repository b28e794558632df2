package employee

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hrms-lite/internal/apiclient"
	employeeerrors "hrms-lite/internal/employee/errors"
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

const PageName = "employees"

const (
	pageTitle       = "Employees"
	pageDescription = "Manage your workforce and add new members."
)

type Handler struct {
	client    apiclient.Client
	publisher events.Publisher
	base      *zap.Logger
	logger    *zap.Logger
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
		logger:    base.Named("employee.handler"),
	}
}

// controller returns the session's employee controller. A fresh navigation
// (remount) always discards the previous one; other actions reuse the mounted
// controller and only mount when none is active.
func (h *Handler) controller(c *gin.Context, remount bool) *Controller {
	sess := middleware.SessionFrom(c)
	build := func() session.Page { return NewController(h.client, h.publisher, h.base) }

	if remount {
		ctrl := sess.Remount(PageName, build).(*Controller)
		_ = ctrl.Mount(c.Request.Context())
		return ctrl
	}

	page, fresh := sess.Mount(PageName, build)
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
	web.Render(c, status, "employees.html", web.Page{
		Title:       pageTitle,
		Description: pageDescription,
		Active:      PageName,
		Data:        view,
	})
}

func (h *Handler) backToList(c *gin.Context, ctrl *Controller) {
	c.Redirect(http.StatusSeeOther, "/employees?q="+url.QueryEscape(ctrl.View().Search))
}

// Page handles GET /employees. Without q it is a navigation and remounts the
// page; with q it searches the already mounted list.
func (h *Handler) Page(c *gin.Context) {
	q, searching := c.GetQuery("q")
	h.logger.Debug("http employees page", zap.Bool("searching", searching))

	ctrl := h.controller(c, !searching)
	if searching {
		ctrl.Search(q)
	}
	h.render(c, http.StatusOK, ctrl)
}

func (h *Handler) New(c *gin.Context) {
	ctrl := h.controller(c, false)
	ctrl.OpenModal()
	h.render(c, http.StatusOK, ctrl)
}

func (h *Handler) Cancel(c *gin.Context) {
	ctrl := h.controller(c, false)
	ctrl.CloseModal()
	h.backToList(c, ctrl)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http create employee bind failed", zap.Error(err))
		web.Failure(c, http.StatusBadRequest, apperror.CodeInvalidInput, apperror.ErrInvalidInput.Message)
		return
	}

	ctrl := h.controller(c, false)
	if err := ctrl.Submit(c.Request.Context(), req); err != nil {
		h.logger.Debug("http create employee rejected", zap.Error(err))
		h.render(c, http.StatusUnprocessableEntity, ctrl)
		return
	}

	if web.WantsJSON(c) {
		h.render(c, http.StatusCreated, ctrl)
		return
	}
	h.backToList(c, ctrl)
}

// ConfirmDelete handles GET /employees/delete?id=, which only asks for
// confirmation.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	id, err := parseID(c.Query("id"))
	if err != nil {
		web.Failure(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error())
		return
	}

	ctrl := h.controller(c, false)
	ctrl.RequestDelete(id)
	h.render(c, http.StatusOK, ctrl)
}

// Delete handles POST /employees/delete with the form fields id and confirm.
func (h *Handler) Delete(c *gin.Context) {
	ctrl := h.controller(c, false)
	if c.PostForm("confirm") != "yes" {
		ctrl.CancelDelete()
		h.backToList(c, ctrl)
		return
	}

	id, err := parseID(c.PostForm("id"))
	if err != nil {
		web.Failure(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error())
		return
	}

	if err := ctrl.Delete(c.Request.Context(), id, true); err != nil {
		status := apperror.ToHTTP(err).Status
		if errors.Is(err, employeeerrors.ErrInvalidEmployeeID) {
			status = http.StatusBadRequest
		}
		h.render(c, status, ctrl)
		return
	}

	if web.WantsJSON(c) {
		h.render(c, http.StatusOK, ctrl)
		return
	}
	h.backToList(c, ctrl)
}

// Export handles GET /export/employees.xlsx with the rows currently displayed.
func (h *Handler) Export(c *gin.Context) {
	ctrl := h.controller(c, false)
	if q, ok := c.GetQuery("q"); ok {
		ctrl.Search(q)
	}

	view := ctrl.View()
	if view.Phase == fetch.PhaseFailure {
		web.Failure(c, http.StatusBadGateway, apperror.CodeUpstream, view.Error)
		return
	}

	c.Header("Content-Type", spreadsheet.ContentType)
	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Status(http.StatusOK)
	if err := WriteEmployeesXLSX(c.Writer, view.Employees); err != nil {
		h.logger.Error("export employees failed", zap.Error(err))
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", employeeerrors.ErrInvalidEmployeeID, raw)
	}
	return id, nil
}
