package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "home", "planilla_form", "stats", "reports", "error"}

// Page is the data every template receives. Data holds the page-specific view.
type Page struct {
	Title       string
	Active      string
	User        *models.User
	Alert       *models.Alert
	AlertMillis int64
	Data        any
}

// DetalleView is one expanded planilla together with the filters it was listed under
type DetalleView struct {
	Detalle models.PlanillaDetalle
	Query   string
}

var templateFuncs = template.FuncMap{
	"fecha":     models.FormatDisplayDate,
	"pageSizes": func() []int { return models.PageSizeOptions },
	"inc":       func(n int) int { return n + 1 },
	"dec":       func(n int) int { return n - 1 },
	"voto": func(value string) string {
		switch strings.ToUpper(strings.TrimSpace(value)) {
		case "SI", "SÍ":
			return "si"
		case "NO":
			return "no"
		default:
			return "role"
		}
	},
	"link": func(path, query string) template.URL {
		if query == "" {
			return template.URL(path)
		}
		return template.URL(path + "?" + query)
	},
	"detalleView": func(detalle models.PlanillaDetalle, filters models.PlanillaFilters) DetalleView {
		return DetalleView{Detalle: detalle, Query: filters.QueryString()}
	},
}

// Views holds one parsed template set per page, each sharing the layout
type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	base, err := template.New("base").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if pages[name], err = clone.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
	}
	return &Views{pages: pages}, nil
}

// Render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (v *Views) Render(c *fiber.Ctx, status int, name string, page Page) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// newPage fills the layout fields for a signed-in user and consumes the
// session's pending alert if it is still visible.
func newPage(ctx context.Context, sessions *services.SessionManager, session *models.Session, title, active string, data any) Page {
	page := Page{Title: title, Active: active, Data: data}
	if session == nil {
		return page
	}

	user := session.User
	page.User = &user
	if alert := sessions.ActiveAlert(ctx, session); alert != nil {
		page.Alert = alert
		page.AlertMillis = alert.RemainingMillis(time.Now())
	}
	return page
}
