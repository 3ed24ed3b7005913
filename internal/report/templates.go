package report

import (
	"embed"

	"psychoreport/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind selects a built-in template.
type Kind string

const (
	KindReliability Kind = "reliability"
	KindPersonality Kind = "personality"
)

// DefaultTemplate returns the embedded template for kind.
func DefaultTemplate(kind Kind) string {
	b, err := templateFS.ReadFile("templates/" + string(kind) + ".html")
	if err != nil {
		// the set of kinds is closed and embedded at build time
		panic("report: missing embedded template " + string(kind))
	}
	return string(b)
}

// TemplateFor returns the custom template of cfg when set, else the default.
func TemplateFor(kind Kind, cfg *domain.ReportConfig) string {
	if cfg.HasCustomTemplate() {
		return *cfg.CustomTemplate
	}
	return DefaultTemplate(kind)
}
