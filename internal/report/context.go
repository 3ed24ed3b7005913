package report

import (
	"fmt"
	"strings"
	"time"
)

// Common holds the fields shared by every report type. Plain strings are
// escaped on output; HTML fields are inserted as is.
type Common struct {
	FontFamily     string
	CompanyName    string
	CompanyLogoURL string
	FooterLogoURL  string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	GenerationDate string

	CandidateName    string
	CandidateEmail   string
	CandidateCompany string
	CandidateArea    string
	CandidateSection string
	MaritalStatus    string
	HasChildren      string
	HousingStatus    string
	Age              string

	ExamDate     string
	ExamDuration string
	ExamStatus   string

	AIDetailedAnalysis HTML
	AIConclusions      HTML
}

func (c Common) placeholders() map[Placeholder]string {
	return map[Placeholder]string{
		PlaceholderFontFamily:         cssValue(c.FontFamily),
		PlaceholderCompanyName:        text(c.CompanyName),
		PlaceholderCompanyLogo:        string(imageTag(c.CompanyLogoURL, c.CompanyName, "company-logo")),
		PlaceholderFooterLogo:         string(imageTag(c.FooterLogoURL, c.CompanyName, "footer-logo")),
		PlaceholderCompanyAddress:     text(c.CompanyAddress),
		PlaceholderCompanyPhone:       text(c.CompanyPhone),
		PlaceholderCompanyEmail:       text(c.CompanyEmail),
		PlaceholderGenerationDate:     text(c.GenerationDate),
		PlaceholderCandidateName:      text(c.CandidateName),
		PlaceholderCandidateEmail:     text(c.CandidateEmail),
		PlaceholderCandidateCompany:   text(c.CandidateCompany),
		PlaceholderCandidateArea:      text(c.CandidateArea),
		PlaceholderCandidateSection:   text(c.CandidateSection),
		PlaceholderMaritalStatus:      text(c.MaritalStatus),
		PlaceholderHasChildren:        text(c.HasChildren),
		PlaceholderHousingStatus:      text(c.HousingStatus),
		PlaceholderAge:                text(c.Age),
		PlaceholderExamDate:           text(c.ExamDate),
		PlaceholderExamDuration:       text(c.ExamDuration),
		PlaceholderExamStatus:         text(c.ExamStatus),
		PlaceholderAIDetailedAnalysis: string(c.AIDetailedAnalysis),
		PlaceholderAIConclusions:      string(c.AIConclusions),
	}
}

// ReliabilityContext is the value set of a reliability report.
type ReliabilityContext struct {
	Common

	OverallScore       string
	RiskLevel          string
	RiskLevelClass     string
	QuestionsAnswered  string
	PersonalAdjustment string
	CategoryRows       HTML
	ComparisonChart    HTML
}

func (c ReliabilityContext) Placeholders() map[Placeholder]string {
	m := c.Common.placeholders()
	m[PlaceholderOverallScore] = text(c.OverallScore)
	m[PlaceholderRiskLevel] = text(c.RiskLevel)
	m[PlaceholderRiskLevelClass] = text(c.RiskLevelClass)
	m[PlaceholderQuestionsAnswered] = text(c.QuestionsAnswered)
	m[PlaceholderPersonalAdjustment] = text(c.PersonalAdjustment)
	m[PlaceholderCategoryRows] = string(c.CategoryRows)
	m[PlaceholderComparisonChart] = string(c.ComparisonChart)
	return m
}

// PersonalityContext is the value set of an OCEAN report.
type PersonalityContext struct {
	Common

	PersonalAdjustment string
	DimensionRows      HTML
	PersonalityChart   HTML
	MotivationRows     HTML
}

func (c PersonalityContext) Placeholders() map[Placeholder]string {
	m := c.Common.placeholders()
	m[PlaceholderPersonalAdjustment] = text(c.PersonalAdjustment)
	m[PlaceholderDimensionRows] = string(c.DimensionRows)
	m[PlaceholderPersonalityChart] = string(c.PersonalityChart)
	m[PlaceholderMotivationRows] = string(c.MotivationRows)
	return m
}

// FormatDate renders a date as dd/mm/yyyy, empty for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatDuration renders minutes and seconds, empty for zero.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if minutes == 0 {
		return fmt.Sprintf("%d s", seconds)
	}
	if seconds == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d min %d s", minutes, seconds)
}

// YesNo renders an optional boolean in Spanish.
func YesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Sí"
	default:
		return "No"
	}
}

func imageTag(url, alt, class string) HTML {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	return HTML(fmt.Sprintf(`<img src="%s" alt="%s" class="%s">`, text(url), text(alt), class))
}

// cssValue drops characters that could close the declaration or the style element.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}', ';', '\\':
			return -1
		}
		return r
	}, s)
}
