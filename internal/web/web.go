// Package web renders the HTML shell.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"agrisense/internal/model"
	"agrisense/internal/report"
	"agrisense/internal/session"
)

// Page names understood by Renderer.
const (
	PageLogin   = "login"
	PageCrops   = "crops"
	PageLogins  = "logins"
	PageHistory = "history"
	PageError   = "error"
)

// Navigation targets.
const (
	PathCrops   = "/crops"
	PathLogins  = "/admin/logins"
	PathHistory = "/admin/history"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"stamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	},
	"percent": func(value, max int) int {
		if max <= 0 {
			return 0
		}
		return value * 100 / max
	},
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Session *session.Session
	Nav     []NavItem
	CSRF    string
	Notice  string
	Error   string

	// Login page.
	Tab   string
	Email string

	// Crop analysis page. Crop fills the input; ResultCrop names the shown result.
	Crop       string
	ResultCrop string
	Fields     []model.Field
	Chart      report.ChartSpec

	// Admin pages.
	LoginLogs   []model.LoginLog
	CropQueries []model.CropQuery
}

// NavItem is one sidebar link.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Navigation returns the sidebar links s may see. Everyone signed in sees
// Crop Analysis; admins also see the two history views.
func Navigation(s *session.Session, active string) []NavItem {
	if s == nil || !s.Authenticated {
		return nil
	}
	items := []NavItem{{Label: "Crop Analysis", Href: PathCrops}}
	if s.IsAdmin() {
		items = append(items,
			NavItem{Label: "User Logs", Href: PathLogins},
			NavItem{Label: "Research History", Href: PathHistory},
		)
	}
	for i := range items {
		items[i].Active = items[i].Href == active
	}
	return items
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageCrops, PageLogins, PageHistory, PageError} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = clone
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
