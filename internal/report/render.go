// Package report renders assessment reports as self-contained HTML.
package report

import (
	"html"
	"strings"
)

// Placeholder is a {{KEY}} token of a report template.
type Placeholder string

const (
	PlaceholderCompanyName        Placeholder = "COMPANY_NAME"
	PlaceholderCompanyLogo        Placeholder = "COMPANY_LOGO"
	PlaceholderGenerationDate     Placeholder = "GENERATION_DATE"
	PlaceholderCandidateName      Placeholder = "CANDIDATE_NAME"
	PlaceholderCandidateEmail     Placeholder = "CANDIDATE_EMAIL"
	PlaceholderCandidateCompany   Placeholder = "CANDIDATE_COMPANY"
	PlaceholderCandidateArea      Placeholder = "CANDIDATE_AREA"
	PlaceholderCandidateSection   Placeholder = "CANDIDATE_SECTION"
	PlaceholderExamDate           Placeholder = "EXAM_DATE"
	PlaceholderExamDuration       Placeholder = "EXAM_DURATION"
	PlaceholderExamStatus         Placeholder = "EXAM_STATUS"
	PlaceholderOverallScore       Placeholder = "OVERALL_SCORE"
	PlaceholderRiskLevel          Placeholder = "RISK_LEVEL"
	PlaceholderRiskLevelClass     Placeholder = "RISK_LEVEL_CLASS"
	PlaceholderQuestionsAnswered  Placeholder = "QUESTIONS_ANSWERED"
	PlaceholderCategoryRows       Placeholder = "CATEGORY_ROWS"
	PlaceholderComparisonChart    Placeholder = "COMPARISON_CHART"
	PlaceholderMaritalStatus      Placeholder = "MARITAL_STATUS"
	PlaceholderHasChildren        Placeholder = "HAS_CHILDREN"
	PlaceholderHousingStatus      Placeholder = "HOUSING_STATUS"
	PlaceholderAge                Placeholder = "AGE"
	PlaceholderPersonalAdjustment Placeholder = "PERSONAL_ADJUSTMENT"
	PlaceholderAIDetailedAnalysis Placeholder = "AI_DETAILED_ANALYSIS"
	PlaceholderAIConclusions      Placeholder = "AI_CONCLUSIONS"
	PlaceholderFooterLogo         Placeholder = "FOOTER_LOGO"
	PlaceholderCompanyAddress     Placeholder = "COMPANY_ADDRESS"
	PlaceholderCompanyPhone       Placeholder = "COMPANY_PHONE"
	PlaceholderCompanyEmail       Placeholder = "COMPANY_EMAIL"

	PlaceholderFontFamily       Placeholder = "FONT_FAMILY"
	PlaceholderDimensionRows    Placeholder = "DIMENSION_ROWS"
	PlaceholderPersonalityChart Placeholder = "PERSONALITY_CHART"
	PlaceholderMotivationRows   Placeholder = "MOTIVATION_ROWS"
)

// Token returns the literal template token, e.g. "{{COMPANY_NAME}}".
func (p Placeholder) Token() string {
	return "{{" + string(p) + "}}"
}

// HTML is a fragment that is already safe to insert verbatim.
type HTML string

// Context supplies the values of one report.
type Context interface {
	Placeholders() map[Placeholder]string
}

// Render replaces every placeholder the context defines. Tokens the
// context does not know are left untouched.
func Render(template string, ctx Context) string {
	values := ctx.Placeholders()
	if len(values) == 0 {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k.Token(), v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func text(s string) string {
	return html.EscapeString(s)
}
