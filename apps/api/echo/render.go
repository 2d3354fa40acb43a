package echoapi

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/qa"
)

//go:embed templates/*.html
var templateFS embed.FS

type templateRenderer struct {
	templates *template.Template
}

func newTemplateRenderer() *templateRenderer {
	funcs := template.FuncMap{
		"day":   func(t time.Time) string { return t.Format(qa.DateLayout) },
		"field": gradeField,
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &templateRenderer{templates: tmpl}
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return errors.Wrapf(r.templates.ExecuteTemplate(w, name+".html", data), "rendering %s", name)
}

// render writes the page, or its data as JSON when the client asks for it.
func render(ctx echo.Context, code int, page string, data interface{}) error {
	if acceptsJSON(ctx) {
		return ctx.JSON(code, data)
	}
	return ctx.Render(code, page, data)
}

func acceptsJSON(ctx echo.Context) bool {
	return strings.Contains(ctx.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// gradeField renders a grade item field; JSON strings are unquoted.
func gradeField(item core.GradeItem, key string) string {
	raw, ok := item[key]
	if !ok || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
