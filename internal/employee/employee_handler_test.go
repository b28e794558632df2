package employee_test

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/apiclient/apiclienttest"
	"hrms-lite/internal/employee"
	"hrms-lite/internal/middleware"
	"hrms-lite/internal/session"
	"hrms-lite/internal/shared/spreadsheet"
	"hrms-lite/internal/web"
	"hrms-lite/internal/web/webtest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (*webtest.Browser, *apiclienttest.Backend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := apiclienttest.NewBackend(t)
	client := apiclient.New(apiclient.Config{BaseURL: backend.URL()}, zap.NewNop())

	r := gin.New()
	web.LoadTemplates(r)
	registry := session.NewRegistry(time.Minute, zap.NewNop())
	r.Use(middleware.RequestID(), middleware.Session(registry, time.Minute, false))

	h := employee.NewHandler(client, nil, zap.NewNop())
	employee.RegisterRoutes(&r.RouterGroup, h, nil)
	return webtest.NewBrowser(t, r), backend
}

func countRequests(backend *apiclienttest.Backend, line string) int {
	n := 0
	for _, r := range backend.Requests() {
		if r == line {
			n++
		}
	}
	return n
}

func TestEmployeeHandler_Page(t *testing.T) {
	b, backend := setupRouter(t)
	backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
	backend.SeedEmployee("OPS-002", "Grace Hopper", "grace@example.com", "Operations")

	t.Run("html", func(t *testing.T) {
		w := b.Get("/employees")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
		assert.Contains(t, w.Body.String(), "Grace Hopper")
	})

	t.Run("json", func(t *testing.T) {
		var v employee.View
		w := b.GetJSON("/employees", &v)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "success", v.Phase.String())
		assert.Len(t, v.Employees, 2)
	})

	t.Run("search uses the mounted list", func(t *testing.T) {
		before := countRequests(backend, "GET /employees/")

		var v employee.View
		b.GetJSON("/employees?q=grace", &v)
		assert.Len(t, v.Employees, 1)
		assert.Equal(t, "Grace Hopper", v.Employees[0].FullName)

		b.GetJSON("/employees?q=nobody", &v)
		assert.Equal(t, "empty", v.Phase.String())

		assert.Equal(t, before, countRequests(backend, "GET /employees/"))
	})

	t.Run("navigation refetches", func(t *testing.T) {
		before := countRequests(backend, "GET /employees/")
		var v employee.View
		b.GetJSON("/employees", &v)
		assert.Empty(t, v.Search)
		assert.Equal(t, before+1, countRequests(backend, "GET /employees/"))
	})
}

func TestEmployeeHandler_FetchFailure(t *testing.T) {
	b, backend := setupRouter(t)
	backend.FailNext(http.MethodGet, "/employees/", http.StatusInternalServerError, `{"detail":"boom"}`)

	w := b.Get("/employees")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch employees. Please check the backend connection.")
	assert.NotContains(t, w.Body.String(), "No employees found.")
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("missing field is rejected before the backend", func(t *testing.T) {
		b, backend := setupRouter(t)
		b.Get("/employees")
		b.Get("/employees/new")

		w := b.Post("/employees", url.Values{
			"employee_id": {"HR-001"},
			"email":       {"ada@example.com"},
			"department":  {"Engineering"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Full Name is required")
		assert.Zero(t, countRequests(backend, "POST /employees/"))
	})

	t.Run("success redirects back to the list", func(t *testing.T) {
		b, backend := setupRouter(t)
		b.Get("/employees")

		w := b.Post("/employees", url.Values{
			"employee_id": {"HR-001"},
			"full_name":   {"Ada Lovelace"},
			"email":       {"ada@example.com"},
			"department":  {"Engineering"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/employees?q=", w.Header().Get("Location"))
		assert.Equal(t, 1, countRequests(backend, "POST /employees/"))

		var v employee.View
		b.GetJSON(w.Header().Get("Location"), &v)
		assert.Len(t, v.Employees, 1)
		assert.False(t, v.Modal.Open)
	})

	t.Run("backend rejection stays in the modal", func(t *testing.T) {
		b, backend := setupRouter(t)
		backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
		b.Get("/employees")

		var v employee.View
		w := b.PostJSON("/employees", url.Values{
			"employee_id": {"HR-001"},
			"full_name":   {"Ada Again"},
			"email":       {"again@example.com"},
			"department":  {"Engineering"},
		}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		b.GetJSON("/employees?q=", &v)
		assert.True(t, v.Modal.Open)
		assert.Equal(t, "Employee with this ID or Email already exists.", v.Modal.Error)
		assert.Len(t, v.Employees, 1)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	b, backend := setupRouter(t)
	id := backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
	backend.SeedEmployee("OPS-002", "Grace Hopper", "grace@example.com", "Operations")
	idStr := strconv.FormatInt(id, 10)
	b.Get("/employees")

	t.Run("confirmation only", func(t *testing.T) {
		w := b.Get("/employees/delete?id=" + idStr)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Are you sure you want to delete this employee?")
		assert.Zero(t, countRequests(backend, "DELETE /employees/"+idStr+"/"))
	})

	t.Run("cancel sends nothing", func(t *testing.T) {
		w := b.Post("/employees/delete", url.Values{"id": {idStr}, "confirm": {"no"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Zero(t, countRequests(backend, "DELETE /employees/"+idStr+"/"))
	})

	t.Run("invalid id", func(t *testing.T) {
		w := b.Get("/employees/delete?id=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("confirm without the dialog sends nothing", func(t *testing.T) {
		w := b.Post("/employees/delete", url.Values{"id": {idStr}, "confirm": {"yes"}})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Zero(t, countRequests(backend, "DELETE /employees/"+idStr+"/"))
	})

	t.Run("failure shows notice", func(t *testing.T) {
		b.Get("/employees/delete?id=" + idStr)
		backend.FailNext(http.MethodDelete, "/employees/"+idStr+"/", http.StatusInternalServerError, "")
		w := b.Post("/employees/delete", url.Values{"id": {idStr}, "confirm": {"yes"}})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to delete employee.")
		assert.Contains(t, w.Body.String(), "Ada Lovelace")
	})

	t.Run("confirmed delete", func(t *testing.T) {
		b.Get("/employees/delete?id=" + idStr)
		w := b.Post("/employees/delete", url.Values{"id": {idStr}, "confirm": {"yes"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)

		var v employee.View
		b.GetJSON("/employees?q=", &v)
		assert.Len(t, v.Employees, 1)
		assert.Equal(t, "Grace Hopper", v.Employees[0].FullName)
		assert.Empty(t, v.Notice)
	})
}

func TestEmployeeHandler_Export(t *testing.T) {
	b, backend := setupRouter(t)
	backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
	backend.SeedEmployee("OPS-002", "Grace Hopper", "grace@example.com", "Operations")
	b.Get("/employees")

	w := b.Get("/export/employees.xlsx?q=hopper")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}
