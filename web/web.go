// Package web provides the embedded roll history UI.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/dicer/pkg/dice"
	"github.com/lemonberrylabs/dicer/pkg/graph"
	"github.com/lemonberrylabs/dicer/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the web UI pages.
type Handler struct {
	store   *store.Store
	funcMap template.FuncMap
}

type pageData struct {
	Title string
	Data  interface{}
}

// New creates a new web UI handler.
func New(s *store.Store) *Handler {
	return &Handler{
		store: s,
		funcMap: template.FuncMap{
			"shortName": shortName,
			"rolledAt":  rolledAt,
			"dieClass":  dieClass,
			"dieLabel":  dieLabel,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, status int, page, title string, data interface{}) error {
	// Each page is parsed with the layout on its own so their "content"
	// blocks do not collide.
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pageData{Title: title, Data: data}); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.history)
	app.Get("/ui/rolls/:roll", h.rollDetail)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

type historyContent struct {
	Rolls []*store.Roll
}

type rollContent struct {
	Roll    *store.Roll
	DOT     string
	Mermaid string
}

type notFoundContent struct {
	Message string
}

func (h *Handler) history(c *fiber.Ctx) error {
	return h.render(c, 200, "history.html", "History", historyContent{
		Rolls: h.store.ListRolls(),
	})
}

func (h *Handler) rollDetail(c *fiber.Ctx) error {
	r, err := h.store.GetRoll("rolls/" + c.Params("roll"))
	if err != nil {
		return h.render(c, 404, "not_found.html", "Not Found", notFoundContent{
			Message: fmt.Sprintf("Roll %q does not exist or has been evicted from the history.", c.Params("roll")),
		})
	}

	content := rollContent{Roll: r}
	// The canonical form always parses; a failure leaves the graphs empty.
	if node, err := dice.Parse(r.Canonical); err == nil {
		content.DOT = graph.DOT(node)
		content.Mermaid = graph.Mermaid(node)
	}
	return h.render(c, 200, "roll.html", r.Canonical, content)
}

// --- Template Helpers ---

func shortName(fullName string) string {
	parts := strings.Split(fullName, "/")
	return parts[len(parts)-1]
}

// rolledAt describes when a roll happened: relative within the last day,
// the UTC date and minute after that.
func rolledAt(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.UTC().Format("2006-01-02 15:04")
	}
}

func dieClass(d dice.DieOutcome) string {
	if d.Kept {
		return "die-kept"
	}
	return "die-dropped"
}

func dieLabel(d dice.DieOutcome) string {
	return fmt.Sprintf("d%d:%d", d.Sides, d.Value)
}
