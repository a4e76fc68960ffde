package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/vytor/phishdefense/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// percent renders a 0..1 fraction as a whole percentage.
		"percent": func(f float64) int { return int(f*100 + 0.5) },
		"clock":   models.FormatClock,
		"verdict": models.VerdictLabel,
		"when": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}

	return template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
