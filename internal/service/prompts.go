package service

import (
	"fmt"
	"strings"

	"psychoreport/internal/domain"
	"psychoreport/internal/scoring"
)

// PromptVar names a {{variable}} usable in prompt templates.
type PromptVar string

const (
	VarCandidateName      PromptVar = "candidate_name"
	VarCandidateAge       PromptVar = "candidate_age"
	VarCandidateArea      PromptVar = "candidate_area"
	VarExamTitle          PromptVar = "exam_title"
	VarCategoryBreakdown  PromptVar = "category_breakdown"
	VarOverallRisk        PromptVar = "overall_risk"
	VarOverallScore       PromptVar = "overall_score"
	VarQuestionsAnswered  PromptVar = "questions_answered"
	VarSimulationAlerts   PromptVar = "simulation_alerts"
	VarPersonalAdjustment PromptVar = "personal_adjustment"
	VarDimensionBreakdown PromptVar = "dimension_breakdown"
	VarMotivation         PromptVar = "motivation"
	VarAnalysis           PromptVar = "analysis"
)

// PromptVars is the variable set substituted into one prompt pair.
type PromptVars map[PromptVar]string

// With returns a copy of v with one more variable.
func (v PromptVars) With(name PromptVar, value string) PromptVars {
	out := make(PromptVars, len(v)+1)
	for k, val := range v {
		out[k] = val
	}
	out[name] = value
	return out
}

// FillPrompt replaces every {{name}} present in vars. Unknown names stay as written.
func FillPrompt(tpl string, vars PromptVars) string {
	if len(vars) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+string(k)+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

type promptPair struct {
	system string
	user   string
}

const psychologistRole = "Eres un psicólogo organizacional experto en evaluaciones de selección de personal. " +
	"Redactas en español, con tono profesional, objetivo y respetuoso, sin diagnósticos clínicos."

var defaultPrompts = map[domain.AnalysisType]map[domain.AnalysisPhase]promptPair{
	domain.AnalysisReliabilityReport: {
		domain.PhaseAnalysis: {
			system: psychologistRole + " Analizas pruebas de confiabilidad e integridad.",
			user: "Analiza los resultados de la prueba \"{{exam_title}}\" de {{candidate_name}}.\n\n" +
				"Resultado global: {{overall_risk}} ({{overall_score}}% del puntaje máximo, {{questions_answered}} preguntas respondidas).\n\n" +
				"Resultados por categoría (puntaje, promedio, promedio poblacional, diferencia, nivel de riesgo):\n{{category_breakdown}}\n\n" +
				"Alertas de simulación: {{simulation_alerts}}\n" +
				"Ajuste personal: {{personal_adjustment}}\n\n" +
				"Redacta un análisis detallado por categoría, señalando las áreas de mayor riesgo y su comparación con la población.",
		},
		domain.PhaseConclusions: {
			system: psychologistRole + " Redactas conclusiones y recomendaciones breves para el reclutador.",
			user: "Con base en el siguiente análisis de la prueba de {{candidate_name}}:\n\n{{analysis}}\n\n" +
				"Nivel de riesgo global: {{overall_risk}}.\n" +
				"Redacta conclusiones y recomendaciones concretas para la decisión de contratación en no más de tres párrafos.",
		},
	},
	domain.AnalysisOceanReport: {
		domain.PhaseAnalysis: {
			system: psychologistRole + " Interpretas perfiles de personalidad del modelo de los Cinco Grandes (OCEAN).",
			user: "Interpreta el perfil de personalidad de {{candidate_name}} en la prueba \"{{exam_title}}\".\n\n" +
				"Puntajes por dimensión (0 a 100):\n{{dimension_breakdown}}\n\n" +
				"Motivaciones: {{motivation}}\n\n" +
				"Describe fortalezas, áreas de desarrollo y el estilo de trabajo esperado.",
		},
		domain.PhaseConclusions: {
			system: psychologistRole + " Redactas conclusiones breves sobre perfiles OCEAN.",
			user: "A partir de este análisis del perfil de {{candidate_name}}:\n\n{{analysis}}\n\n" +
				"Redacta conclusiones sobre el ajuste al puesto y recomendaciones de desarrollo.",
		},
	},
	domain.AnalysisOceanInterpretation: {
		domain.PhaseAnalysis: {
			system: psychologistRole + " Explicas resultados de personalidad directamente al evaluado.",
			user: "Explica a {{candidate_name}} su perfil de personalidad en lenguaje sencillo.\n\n" +
				"Puntajes por dimensión (0 a 100):\n{{dimension_breakdown}}\n\nMotivaciones: {{motivation}}",
		},
		domain.PhaseConclusions: {
			system: psychologistRole,
			user:   "Resume en tres recomendaciones prácticas para {{candidate_name}} lo siguiente:\n\n{{analysis}}",
		},
	},
}

// CategoryBreakdown formats category results one per line.
func CategoryBreakdown(categories []domain.CategoryResult) string {
	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %.0f puntos en %d preguntas, promedio %.2f, promedio poblacional %.2f, diferencia %+.2f, %s",
			c.Category, c.TotalScore, c.TotalQuestions, c.Average, c.PopulationAverage, c.Difference, c.RiskLevel)
		if c.SimulationAlert {
			b.WriteString(" (alerta de simulación)")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// SimulationAlerts lists the categories that raised an alert.
func SimulationAlerts(categories []domain.CategoryResult) string {
	var names []string
	for _, c := range categories {
		if c.SimulationAlert {
			names = append(names, c.Category)
		}
	}
	if len(names) == 0 {
		return "ninguna"
	}
	return strings.Join(names, ", ")
}

// DimensionBreakdown formats OCEAN scores one per line in report order.
func DimensionBreakdown(dims []domain.DimensionResult) string {
	lines := make([]string, 0, len(dims))
	for _, d := range dims {
		lines = append(lines, fmt.Sprintf("- %s (%s): %.1f, nivel %s", d.Label, d.Dimension, d.Score, d.Level))
	}
	return strings.Join(lines, "\n")
}

// MotivationSummary formats the optional motivation scores.
func MotivationSummary(m []domain.MotivationScore) string {
	if len(m) == 0 {
		return "no disponibles"
	}
	parts := make([]string, 0, len(m))
	for _, s := range m {
		parts = append(parts, fmt.Sprintf("%s %.0f", s.Name, s.Score))
	}
	return strings.Join(parts, ", ")
}

// reliabilityPromptVars builds the variables of a reliability narrative.
func reliabilityPromptVars(a *domain.ExamAttempt, agg scoring.Aggregation, adjustment string) PromptVars {
	vars := PromptVars{
		VarCandidateName:      a.Candidate.Name,
		VarCandidateArea:      a.Candidate.Area,
		VarExamTitle:          a.ExamTitle,
		VarCategoryBreakdown:  CategoryBreakdown(agg.Categories),
		VarOverallRisk:        string(agg.Overall.RiskLevel),
		VarOverallScore:       fmt.Sprintf("%.1f", agg.Overall.Percentage),
		VarQuestionsAnswered:  fmt.Sprintf("%d", agg.Answered),
		VarSimulationAlerts:   SimulationAlerts(agg.Categories),
		VarPersonalAdjustment: adjustment,
	}
	if a.Candidate.Age != nil {
		vars[VarCandidateAge] = fmt.Sprintf("%d", *a.Candidate.Age)
	}
	return vars
}

func personalityPromptVars(r *domain.PersonalityResult, dims []domain.DimensionResult) PromptVars {
	vars := PromptVars{
		VarCandidateName:      r.Candidate.Name,
		VarCandidateArea:      r.Candidate.Area,
		VarExamTitle:          r.TestTitle,
		VarDimensionBreakdown: DimensionBreakdown(dims),
		VarMotivation:         MotivationSummary(r.Motivation),
	}
	if r.Candidate.Age != nil {
		vars[VarCandidateAge] = fmt.Sprintf("%d", *r.Candidate.Age)
	}
	return vars
}
