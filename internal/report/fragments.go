package report

import (
	"fmt"
	"strings"

	"psychoreport/internal/domain"
	"psychoreport/internal/scoring"
)

// Fallback texts for a missing AI section.
const (
	AnalysisUnavailable    = "Análisis no disponible en este momento. El reporte se generó sin la interpretación asistida por IA."
	ConclusionsUnavailable = "Conclusiones no disponibles en este momento."
	AnalysisDisabled       = "El análisis asistido por IA no está habilitado para este reporte."
)

// Paragraphs escapes text and wraps each non-empty line in <p>. A nil text
// renders the fallback with the "ai-unavailable" class.
func Paragraphs(s *string, fallback string) HTML {
	if s == nil || strings.TrimSpace(*s) == "" {
		return HTML(`<p class="ai-unavailable">` + text(fallback) + `</p>`)
	}
	var b strings.Builder
	for _, line := range strings.Split(*s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(text(line))
		b.WriteString("</p>\n")
	}
	return HTML(strings.TrimRight(b.String(), "\n"))
}

// CategoryRows renders one table row per category.
func CategoryRows(categories []domain.CategoryResult) HTML {
	var b strings.Builder
	for _, c := range categories {
		alert := ""
		if c.SimulationAlert {
			alert = `<span class="simulation-alert">Posible simulación</span>`
		}
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%d</td><td>%.0f</td><td>%.2f</td><td>%.2f</td><td>%+.2f</td><td class="%s">%s</td><td>%s</td></tr>`+"\n",
			text(c.Category), c.TotalQuestions, c.TotalScore, c.Average, c.PopulationAverage, c.Difference,
			scoring.RiskClass(c.RiskLevel), text(string(c.RiskLevel)), alert)
	}
	return HTML(strings.TrimRight(b.String(), "\n"))
}

// DimensionRows renders one table row per OCEAN trait.
func DimensionRows(dims []domain.DimensionResult) HTML {
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%.1f</td><td class="level-%s">%s</td></tr>`+"\n",
			text(d.Label), text(string(d.Dimension)), d.Score, strings.ToLower(d.Level), text(d.Level))
	}
	return HTML(strings.TrimRight(b.String(), "\n"))
}

// MotivationRows renders the optional motivation scores.
func MotivationRows(m []domain.MotivationScore) HTML {
	if len(m) == 0 {
		return `<tr><td colspan="2">Sin información de motivación</td></tr>`
	}
	var b strings.Builder
	for _, s := range m {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%.0f</td></tr>\n", text(s.Name), s.Score)
	}
	return HTML(strings.TrimRight(b.String(), "\n"))
}
