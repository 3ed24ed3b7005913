package domain

// ReportConfig holds per-exam rendering preferences.
type ReportConfig struct {
	ExamID               string
	IncludeCharts        bool
	IncludeAnalysis      bool
	IncludePersonalData  bool
	IncludeCategoryTable bool
	FontFamily           string
	CompanyName          string
	CompanyLogoURL       string
	FooterLogoURL        string
	CompanyAddress       string
	CompanyPhone         string
	CompanyEmail         string
	CustomTemplate       *string
}

// DefaultReportConfig is used when no row exists for an exam.
func DefaultReportConfig(examID string) *ReportConfig {
	return &ReportConfig{
		ExamID:               examID,
		IncludeCharts:        true,
		IncludeAnalysis:      true,
		IncludePersonalData:  true,
		IncludeCategoryTable: true,
		FontFamily:           "Arial, sans-serif",
	}
}

// HasCustomTemplate reports whether a non-empty custom template is set.
func (c *ReportConfig) HasCustomTemplate() bool {
	return c != nil && c.CustomTemplate != nil && *c.CustomTemplate != ""
}

// AIPromptConfig is an administrator override for one (type, phase).
type AIPromptConfig struct {
	AnalysisType AnalysisType
	Phase        AnalysisPhase
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  *float64
	MaxTokens    int
}
