package domain

import "context"

// ExamAttemptRepository reads attempts. GetByID returns (nil, nil) when the
// row does not exist.
type ExamAttemptRepository interface {
	GetByID(ctx context.Context, id string) (*ExamAttempt, error)
	UpdateRiskAnalysis(ctx context.Context, id string, analysis []byte) error
}

// PersonalityResultRepository reads OCEAN results.
type PersonalityResultRepository interface {
	GetByID(ctx context.Context, id string) (*PersonalityResult, error)
	UpdateAIInterpretation(ctx context.Context, id string, interpretation []byte) error
}

// ReportConfigRepository returns (nil, nil) when an exam has no config.
type ReportConfigRepository interface {
	GetByExamID(ctx context.Context, examID string) (*ReportConfig, error)
}

// AIPromptConfigRepository returns (nil, nil) when no override exists.
type AIPromptConfigRepository interface {
	GetPrompt(ctx context.Context, analysisType AnalysisType, phase AnalysisPhase) (*AIPromptConfig, error)
}

// AnalysisCacheRepository persists narrative cache entries.
type AnalysisCacheRepository interface {
	FindActive(ctx context.Context, userID string, scopeID *string, analysisType AnalysisType) (*AnalysisCacheEntry, error)
	Deactivate(ctx context.Context, userID string, scopeID *string, analysisType AnalysisType) (int64, error)
	Insert(ctx context.Context, entry *AnalysisCacheEntry) error
}

// TransactionManager runs fn inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
