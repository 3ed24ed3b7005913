package domain

import (
	"encoding/json"
	"time"
)

// Orientation tells whether a Likert item is scored as answered or inverted.
type Orientation string

const (
	OrientationPositive Orientation = "positive"
	OrientationNegative Orientation = "negative"
)

// UncategorizedCategory is the bucket for questions without a category.
const UncategorizedCategory = "Sin categoría"

// DefaultPopulationAverage is used when a question has no configured norm.
const DefaultPopulationAverage = 1.5

// Question is one item of the snapshot stored with an attempt.
type Question struct {
	ID                string      `json:"id"`
	Text              string      `json:"text"`
	CategoryID        string      `json:"categoryId,omitempty"`
	CategoryName      string      `json:"categoryName,omitempty"`
	PopulationAverage *float64    `json:"populationAverage,omitempty"`
	Orientation       Orientation `json:"orientation,omitempty"`
}

// Category returns the aggregation bucket of the question.
func (q Question) Category() string {
	if q.CategoryName != "" {
		return q.CategoryName
	}
	if q.CategoryID != "" {
		return q.CategoryID
	}
	return UncategorizedCategory
}

// NormOrDefault returns the configured population average or fallback.
func (q Question) NormOrDefault(fallback float64) float64 {
	if q.PopulationAverage == nil {
		return fallback
	}
	return *q.PopulationAverage
}

// Answer holds the selected option. Reliability answers carry a Label,
// Likert answers carry a Value.
type Answer struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label,omitempty"`
	Value      *int   `json:"value,omitempty"`
}

// Candidate is the person who took the assessment.
type Candidate struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Company       string `json:"company,omitempty"`
	Area          string `json:"area,omitempty"`
	Section       string `json:"section,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	HasChildren   *bool  `json:"hasChildren,omitempty"`
	HousingStatus string `json:"housingStatus,omitempty"`
	Age           *int   `json:"age,omitempty"`
}

// ExamAttempt is a completed reliability exam. Questions and Answers are the
// immutable snapshot taken at completion time.
type ExamAttempt struct {
	ID                 string
	ExamID             string
	ExamTitle          string
	UserID             string
	Candidate          Candidate
	Questions          []Question
	Answers            []Answer
	StartedAt          *time.Time
	CompletedAt        *time.Time
	Status             string
	RiskAnalysis       json.RawMessage
	PersonalAdjustment json.RawMessage
}

// Duration returns the time spent on the attempt, zero when unknown.
func (a *ExamAttempt) Duration() time.Duration {
	if a.StartedAt == nil || a.CompletedAt == nil {
		return 0
	}
	d := a.CompletedAt.Sub(*a.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// RiskLevel is the ordinal risk label shown in reports.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "RIESGO ALTO"
	RiskMedium RiskLevel = "RIESGO MEDIO"
	RiskLow    RiskLevel = "RIESGO BAJO"
)

// CategoryResult is derived from an attempt and never authoritative.
type CategoryResult struct {
	Category          string    `json:"category"`
	TotalQuestions    int       `json:"totalQuestions"`
	TotalScore        float64   `json:"totalScore"`
	Average           float64   `json:"average"`
	PopulationAverage float64   `json:"populationAverage"`
	Difference        float64   `json:"difference"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	SimulationAlert   bool      `json:"simulationAlert"`
}

// OverallResult applies the category tiers to the whole attempt.
type OverallResult struct {
	TotalScore     float64   `json:"totalScore"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// RiskAnalysis is the snapshot written back to the attempt row.
type RiskAnalysis struct {
	Categories         []CategoryResult `json:"categories"`
	Overall            OverallResult    `json:"overall"`
	UnrecognizedLabels int              `json:"unrecognizedLabels"`
	ComputedAt         time.Time        `json:"computedAt"`
}
