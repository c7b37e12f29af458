package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/medghazouan/bidayalab/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// partials holds the layout blocks every page template may call.
const partials = "partials.html"

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: defaultFuncs(),
	}
}

func (tc *TemplateCache) AddFunc(name string, fn any) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page in the embedded templates directory together
// with the shared partials.
func (tc *TemplateCache) Load() error {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return err
	}
	return tc.LoadFS(sub)
}

func (tc *TemplateCache) LoadFS(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return err
	}
	for _, file := range files {
		name := path.Base(file)
		if name == partials {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, partials, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"prevPage":  func(currentPage int) int { return currentPage - 1 },
		"nextPage":  func(currentPage int) int { return currentPage + 1 },
		"humanTime": humanize.Time,
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"price": formatPrice,
		"join":  strings.Join,
		"lines": func(items []string) string {
			return strings.Join(items, "\n")
		},
		"paragraphs": paragraphs,
		"stars": func(n int) string {
			return strings.Repeat("★", n) + strings.Repeat("☆", max(0, 5-n))
		},
		"orderStatuses": func() []models.OrderStatus { return models.OrderStatuses },
		"periods": func() []models.BillingPeriod {
			return []models.BillingPeriod{models.PeriodMonthly, models.PeriodYearly, models.PeriodOneTime}
		},
		"ratings": func() []int { return []int{5, 4, 3, 2, 1} },
		"roles":   func() []models.Role { return []models.Role{models.RoleAdmin, models.RoleEditor} },
	}
}

// formatPrice renders 1499.5 in USD as "1,499.50 USD"; whole amounts drop the cents.
func formatPrice(amount float64, currency string) string {
	format := "#,###.##"
	if amount == float64(int64(amount)) {
		format = "#,###."
	}
	return humanize.FormatFloat(format, amount) + " " + currency
}

// paragraphs splits plain text on blank lines.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
