// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/smartcafe/cafeteria-portal/pkg/validator"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page with the shared helper functions
func Templates() (*template.Template, error) {
	phones := validator.NewPhoneValidator()

	funcs := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"phone": phones.Display,
		"inc": func(i int) int {
			return i + 1
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
