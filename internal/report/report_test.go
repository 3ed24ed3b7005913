package report

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"psychoreport/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapContext map[Placeholder]string

func (m mapContext) Placeholders() map[Placeholder]string { return m }

func sampleCategories() []domain.CategoryResult {
	return []domain.CategoryResult{
		{Category: "Robo", TotalQuestions: 4, TotalScore: 6, Average: 1.5, PopulationAverage: 1.2, Difference: 0.3, RiskLevel: domain.RiskMedium},
		{Category: "Drogas <script>", TotalQuestions: 2, TotalScore: 6, Average: 3, PopulationAverage: 1.5, Difference: 1.5, RiskLevel: domain.RiskHigh, SimulationAlert: true},
	}
}

func sampleReliabilityContext() ReliabilityContext {
	analysis := "Primer párrafo.\n\nSegundo párrafo con <b>marcas</b>."
	return ReliabilityContext{
		Common: Common{
			FontFamily:         "Arial, sans-serif",
			CompanyName:        "Acme & Cía",
			CompanyLogoURL:     "https://acme.test/logo.png",
			GenerationDate:     "01/03/2025",
			CandidateName:      "Ana Pérez",
			CandidateEmail:     "ana@example.com",
			ExamDate:           "28/02/2025",
			ExamDuration:       FormatDuration(25 * time.Minute),
			AIDetailedAnalysis: Paragraphs(&analysis, AnalysisUnavailable),
			AIConclusions:      Paragraphs(nil, ConclusionsUnavailable),
		},
		OverallScore:      "50.0%",
		RiskLevel:         string(domain.RiskMedium),
		RiskLevelClass:    "risk-medium",
		QuestionsAnswered: "6",
		CategoryRows:      CategoryRows(sampleCategories()),
		ComparisonChart:   BarChartSVG(sampleCategories()),
	}
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	out := Render("Hola {{CANDIDATE_NAME}}, {{UNKNOWN}} {{CANDIDATE_NAME}}", mapContext{PlaceholderCandidateName: "Ana"})
	assert.Equal(t, "Hola Ana, {{UNKNOWN}} Ana", out)
}

func TestRender_IsPure(t *testing.T) {
	ctx := sampleReliabilityContext()
	tpl := DefaultTemplate(KindReliability)
	assert.Equal(t, Render(tpl, ctx), Render(tpl, ctx))
}

func TestRender_DefaultTemplatesFullySubstituted(t *testing.T) {
	token := regexp.MustCompile(`\{\{[A-Z_]+\}\}`)

	t.Run("reliability", func(t *testing.T) {
		ctx := sampleReliabilityContext()
		out := Render(DefaultTemplate(KindReliability), ctx)
		for k := range ctx.Placeholders() {
			assert.NotContains(t, out, k.Token())
		}
		assert.Empty(t, token.FindAllString(out, -1))
	})

	t.Run("personality", func(t *testing.T) {
		dims := []domain.DimensionResult{
			{Dimension: domain.DimensionOpenness, Label: "Apertura", Score: 75, Level: "Alto"},
			{Dimension: domain.DimensionNeuroticism, Label: "Neuroticismo", Score: 20, Level: "Bajo"},
		}
		ctx := PersonalityContext{
			Common:           Common{CandidateName: "Luis"},
			DimensionRows:    DimensionRows(dims),
			PersonalityChart: RadarChartSVG(dims),
			MotivationRows:   MotivationRows(nil),
		}
		out := Render(DefaultTemplate(KindPersonality), ctx)
		for k := range ctx.Placeholders() {
			assert.NotContains(t, out, k.Token())
		}
		assert.Empty(t, token.FindAllString(out, -1))
		assert.Contains(t, out, "Sin información de motivación")
	})
}

func TestRender_DefaultTemplateCoversAllReliabilityPlaceholders(t *testing.T) {
	tpl := DefaultTemplate(KindReliability)
	for k := range sampleReliabilityContext().Placeholders() {
		assert.Contains(t, tpl, k.Token(), "default reliability template should use %s", k)
	}
}

func TestRender_EscapesPlainValues(t *testing.T) {
	out := Render(DefaultTemplate(KindReliability), sampleReliabilityContext())
	assert.Contains(t, out, "Acme &amp; Cía")
	assert.Contains(t, out, "Drogas &lt;script&gt;")
	assert.NotContains(t, out, "<b>marcas</b>")
	assert.Contains(t, out, `<img src="https://acme.test/logo.png"`)
	assert.Contains(t, out, `<p class="ai-unavailable">`+ConclusionsUnavailable+`</p>`)
}

func TestParagraphs(t *testing.T) {
	s := "uno\n\n  dos  \n"
	assert.Equal(t, HTML("<p>uno</p>\n<p>dos</p>"), Paragraphs(&s, "x"))
	empty := "   "
	assert.Contains(t, string(Paragraphs(&empty, AnalysisUnavailable)), "Análisis no disponible")
}

func TestCategoryRows(t *testing.T) {
	rows := string(CategoryRows(sampleCategories()))
	assert.Equal(t, 2, strings.Count(rows, "<tr>"))
	assert.Contains(t, rows, `class="risk-medium"`)
	assert.Contains(t, rows, `class="risk-high"`)
	assert.Contains(t, rows, "Posible simulación")
	assert.Contains(t, rows, "+0.30")
}

func TestBarChartSVG(t *testing.T) {
	svg := string(BarChartSVG(sampleCategories()))
	require.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	// two bars per category
	assert.Equal(t, 4, strings.Count(svg, "<rect"))
	assert.Empty(t, BarChartSVG(nil))
}

func TestRadarChartSVG(t *testing.T) {
	dims := make([]domain.DimensionResult, 0, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		dims = append(dims, domain.DimensionResult{Dimension: d, Label: d.Label(), Score: 50})
	}
	svg := string(RadarChartSVG(dims))
	assert.Contains(t, svg, "Extraversión")
	// grid levels plus the value polygon
	assert.Equal(t, radarLevels+1, strings.Count(svg, "<polygon"))
	assert.Empty(t, RadarChartSVG(nil))
}

func TestTemplateFor(t *testing.T) {
	custom := "<h1>{{CANDIDATE_NAME}}</h1>"
	assert.Equal(t, custom, TemplateFor(KindReliability, &domain.ReportConfig{CustomTemplate: &custom}))

	empty := ""
	assert.Equal(t, DefaultTemplate(KindReliability), TemplateFor(KindReliability, &domain.ReportConfig{CustomTemplate: &empty}))
	assert.Equal(t, DefaultTemplate(KindPersonality), TemplateFor(KindPersonality, nil))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "25 min", FormatDuration(25*time.Minute))
	assert.Equal(t, "3 min 5 s", FormatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "", FormatDuration(0))
	d := time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "28/02/2025", FormatDate(&d))
	assert.Equal(t, "", FormatDate(nil))
	yes := true
	assert.Equal(t, "Sí", YesNo(&yes))
	assert.Equal(t, "", YesNo(nil))
	assert.Equal(t, "Arial, sans-serif", cssValue("Arial, sans-serif"))
	assert.Equal(t, "Arial/style", cssValue("Arial;}</style>"))
}
