// Package web renders console pages from embedded templates. Every page can
// also be negotiated as the JSON envelope used by the rest of the console.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"hrms-lite/internal/fetch"
	"hrms-lite/internal/shared/response"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/app.css
var appCSS []byte

// Page is the data handed to every page template.
type Page struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Active      string `json:"active"`
	Data        any    `json:"data"`
}

type navItem struct {
	Name  string
	Label string
	Path  string
}

var navigation = []navItem{
	{Name: "dashboard", Label: "Dashboard", Path: "/dashboard"},
	{Name: "employees", Label: "Employees", Path: "/employees"},
	{Name: "attendance", Label: "Attendance", Path: "/attendance"},
}

var funcs = template.FuncMap{
	"nav":       func() []navItem { return navigation },
	"lower":     strings.ToLower,
	"isLoading": func(p fetch.Phase) bool { return p == fetch.PhaseLoading },
	"isFailure": func(p fetch.Phase) bool { return p == fetch.PhaseFailure },
	"isEmpty":   func(p fetch.Phase) bool { return p == fetch.PhaseEmpty },
	"isSuccess": func(p fetch.Phase) bool { return p == fetch.PhaseSuccess },
	"inc":       func(i int) int { return i + 1 },
}

// Templates parses the embedded page set.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// LoadTemplates installs the page set on the engine and serves the stylesheet.
func LoadTemplates(engine *gin.Engine) {
	engine.SetHTMLTemplate(Templates())
	engine.GET("/assets/app.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", appCSS)
	})
}

// Render writes page as HTML, or as the JSON envelope when the client asks
// for application/json. Error statuses still carry the page data, since the
// page state holds the message to show.
func Render(c *gin.Context, status int, name string, page Page) {
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(status, response.ApiEnvelope{Ok: status < http.StatusBadRequest, Data: page.Data})
	default:
		c.HTML(status, name, page)
	}
}

// Failure renders an error outside of any page state, such as a malformed
// request parameter.
func Failure(c *gin.Context, status int, code, message string) {
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		response.Error(c, status, code, message, nil)
	default:
		c.HTML(status, "failure.html", Page{Title: "Something went wrong", Data: message})
	}
}

// WantsJSON reports whether the client negotiated the JSON envelope.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
