package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"psychoreport/internal/domain"
	"psychoreport/internal/repository/models"
)

type aiPromptConfigRepository struct {
	db DBTX
}

// NewAIPromptConfigRepository creates a read-only repository over AI_PROMPT_CONFIGS.
func NewAIPromptConfigRepository(db DBTX) domain.AIPromptConfigRepository {
	return &aiPromptConfigRepository{db: db}
}

// GetPrompt returns the active override for (type, phase) or (nil, nil).
func (r *aiPromptConfigRepository) GetPrompt(ctx context.Context, analysisType domain.AnalysisType, phase domain.AnalysisPhase) (*domain.AIPromptConfig, error) {
	var row models.AIPromptConfig
	query := `SELECT analysis_type, phase, system_prompt, user_prompt, model, temperature, max_tokens
	FROM ai_prompt_configs
	WHERE analysis_type = :1 AND phase = :2 AND is_active = 1
	ORDER BY updated_at DESC
	FETCH FIRST 1 ROWS ONLY`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, string(analysisType), string(phase)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prompt config %s/%s: %w", analysisType, phase, err)
	}
	return toDomainPromptConfig(&row), nil
}

func toDomainPromptConfig(m *models.AIPromptConfig) *domain.AIPromptConfig {
	cfg := &domain.AIPromptConfig{
		AnalysisType: domain.AnalysisType(m.AnalysisType),
		Phase:        domain.AnalysisPhase(m.Phase),
		SystemPrompt: m.SystemPrompt.String,
		UserPrompt:   m.UserPrompt.String,
		Model:        m.Model.String,
	}
	if m.Temperature.Valid {
		t := m.Temperature.Float64
		cfg.Temperature = &t
	}
	if m.MaxTokens.Valid {
		cfg.MaxTokens = int(m.MaxTokens.Int64)
	}
	return cfg
}
