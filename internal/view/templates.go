package view

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Greeting carries the personalized header data for authenticated pages.
type Greeting struct {
	Name      string
	RoleLabel string
	RoleIcon  string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Theme       string
	Greeting    *Greeting
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	titleCaser := cases.Title(language.English)
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"displayDate": func(s string) string {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.Format("02 Jan 2006")
			}
			if len(s) >= 10 {
				return s[:10]
			}
			return s
		},
		"label": func(s string) string {
			return titleCaser.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
