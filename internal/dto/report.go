package dto

// ReliabilityReportRequest is the body of POST /api/reports/reliability.
// @Description Request body for a reliability report
type ReliabilityReportRequest struct {
	ExamAttemptID   string `json:"examAttemptId"`
	IncludeCharts   *bool  `json:"includeCharts,omitempty"`
	IncludeAnalysis *bool  `json:"includeAnalysis,omitempty"`
	ForceRegenerate bool   `json:"forceRegenerate,omitempty"`
}

// PersonalityReportRequest is the body of POST /api/reports/ocean.
// @Description Request body for an OCEAN personality report
type PersonalityReportRequest struct {
	PersonalityResultID string `json:"personalityResultId"`
	IncludeCharts       *bool  `json:"includeCharts,omitempty"`
	IncludeAnalysis     *bool  `json:"includeAnalysis,omitempty"`
	ForceRegenerate     bool   `json:"forceRegenerate,omitempty"`
	SelectedModel       string `json:"selectedModel,omitempty"`
}

// ReportMetadata identifies the rendered report.
type ReportMetadata struct {
	Candidate string `json:"candidate"`
	Exam      string `json:"exam"`
	Date      string `json:"date"`
}

// CategoryScore is a category row of the report summary.
type CategoryScore struct {
	Category          string  `json:"category"`
	TotalQuestions    int     `json:"totalQuestions"`
	TotalScore        float64 `json:"totalScore"`
	Average           float64 `json:"average"`
	PopulationAverage float64 `json:"populationAverage"`
	Difference        float64 `json:"difference"`
	RiskLevel         string  `json:"riskLevel"`
	SimulationAlert   bool    `json:"simulationAlert"`
}

// DimensionScore is an OCEAN trait of the report summary.
type DimensionScore struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Level     string  `json:"level"`
}

// AIAnalysis is the narrative included in the report. Nil parts were unavailable.
type AIAnalysis struct {
	Analysis    *string `json:"analysis"`
	Conclusions *string `json:"conclusions"`
	Cached      bool    `json:"cached"`
}

// ReportResponse is returned by both report endpoints.
// @Description Rendered report
type ReportResponse struct {
	HTML       string           `json:"html"`
	Success    bool             `json:"success"`
	Metadata   ReportMetadata   `json:"metadata"`
	RiskLevel  string           `json:"riskLevel,omitempty"`
	Categories []CategoryScore  `json:"categories,omitempty"`
	Dimensions []DimensionScore `json:"dimensions,omitempty"`
	AI         *AIAnalysis      `json:"ai,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports dependency status.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
