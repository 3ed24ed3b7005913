package models

import (
	"database/sql"
	"time"

	"psychoreport/internal/domain"
)

// ExamAttempt is a row of EXAM_ATTEMPTS joined with the exam title.
type ExamAttempt struct {
	ID                 string                  `db:"ID"`
	ExamID             string                  `db:"EXAM_ID"`
	ExamTitle          sql.NullString          `db:"EXAM_TITLE"`
	UserID             string                  `db:"USER_ID"`
	Candidate          JSON[domain.Candidate]  `db:"CANDIDATE_SNAPSHOT"`
	Questions          JSON[[]domain.Question] `db:"QUESTIONS_SNAPSHOT"`
	Answers            JSON[[]domain.Answer]   `db:"ANSWERS_SNAPSHOT"`
	Status             sql.NullString          `db:"STATUS"`
	StartedAt          sql.NullTime            `db:"STARTED_AT"`
	CompletedAt        sql.NullTime            `db:"COMPLETED_AT"`
	RiskAnalysis       sql.NullString          `db:"RISK_ANALYSIS"`
	PersonalAdjustment sql.NullString          `db:"PERSONAL_ADJUSTMENT"`
}

// PersonalityResult is a row of PERSONALITY_RESULTS joined with the test title.
type PersonalityResult struct {
	ID                string                         `db:"ID"`
	UserID            string                         `db:"USER_ID"`
	TestID            string                         `db:"TEST_ID"`
	TestTitle         sql.NullString                 `db:"TEST_TITLE"`
	Candidate         JSON[domain.Candidate]         `db:"CANDIDATE_SNAPSHOT"`
	Items             JSON[[]domain.PersonalityItem] `db:"ITEMS_SNAPSHOT"`
	Openness          sql.NullFloat64                `db:"OPENNESS"`
	Conscientiousness sql.NullFloat64                `db:"CONSCIENTIOUSNESS"`
	Extraversion      sql.NullFloat64                `db:"EXTRAVERSION"`
	Agreeableness     sql.NullFloat64                `db:"AGREEABLENESS"`
	Neuroticism       sql.NullFloat64                `db:"NEUROTICISM"`
	Motivation        JSON[[]domain.MotivationScore] `db:"MOTIVATION_SCORES"`
	AIInterpretation  sql.NullString                 `db:"AI_INTERPRETATION"`
	CreatedAt         time.Time                      `db:"CREATED_AT"`
}

// ReportConfig is a row of EXAM_REPORT_CONFIGS. Flags are NUMBER(1).
type ReportConfig struct {
	ExamID               string         `db:"EXAM_ID"`
	IncludeCharts        int            `db:"INCLUDE_CHARTS"`
	IncludeAnalysis      int            `db:"INCLUDE_ANALYSIS"`
	IncludePersonalData  int            `db:"INCLUDE_PERSONAL_DATA"`
	IncludeCategoryTable int            `db:"INCLUDE_CATEGORY_TABLE"`
	FontFamily           sql.NullString `db:"FONT_FAMILY"`
	CompanyName          sql.NullString `db:"COMPANY_NAME"`
	CompanyLogoURL       sql.NullString `db:"COMPANY_LOGO_URL"`
	FooterLogoURL        sql.NullString `db:"FOOTER_LOGO_URL"`
	CompanyAddress       sql.NullString `db:"COMPANY_ADDRESS"`
	CompanyPhone         sql.NullString `db:"COMPANY_PHONE"`
	CompanyEmail         sql.NullString `db:"COMPANY_EMAIL"`
	CustomTemplate       sql.NullString `db:"CUSTOM_TEMPLATE"`
}

// AIPromptConfig is a row of AI_PROMPT_CONFIGS.
type AIPromptConfig struct {
	AnalysisType string          `db:"ANALYSIS_TYPE"`
	Phase        string          `db:"PHASE"`
	SystemPrompt sql.NullString  `db:"SYSTEM_PROMPT"`
	UserPrompt   sql.NullString  `db:"USER_PROMPT"`
	Model        sql.NullString  `db:"MODEL"`
	Temperature  sql.NullFloat64 `db:"TEMPERATURE"`
	MaxTokens    sql.NullInt64   `db:"MAX_TOKENS"`
}

// AnalysisCacheEntry is a row of AI_ANALYSIS_CACHE.
type AnalysisCacheEntry struct {
	ID               string                       `db:"ID"`
	UserID           string                       `db:"USER_ID"`
	ScopeID          sql.NullString               `db:"SCOPE_ID"`
	AnalysisType     string                       `db:"ANALYSIS_TYPE"`
	InputFingerprint string                       `db:"INPUT_FINGERPRINT"`
	Payload          JSON[domain.AnalysisPayload] `db:"PAYLOAD"`
	GeneratedAt      time.Time                    `db:"GENERATED_AT"`
	ExpiresAt        time.Time                    `db:"EXPIRES_AT"`
	IsActive         int                          `db:"IS_ACTIVE"`
	Version          int                          `db:"VERSION"`
}
