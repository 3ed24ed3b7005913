package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"psychoreport/internal/domain"
	"psychoreport/internal/repository/models"
)

type personalityResultRepository struct {
	db DBTX
}

// NewPersonalityResultRepository creates a repository over PERSONALITY_RESULTS.
func NewPersonalityResultRepository(db DBTX) domain.PersonalityResultRepository {
	return &personalityResultRepository{db: db}
}

func (r *personalityResultRepository) GetByID(ctx context.Context, id string) (*domain.PersonalityResult, error) {
	var row models.PersonalityResult
	query := `SELECT
		r.id, r.user_id, r.test_id, t.title test_title,
		r.candidate_snapshot, r.items_snapshot,
		r.openness, r.conscientiousness, r.extraversion, r.agreeableness, r.neuroticism,
		r.motivation_scores, r.ai_interpretation, r.created_at
	FROM personality_results r
	LEFT JOIN personality_tests t ON t.id = r.test_id
	WHERE r.id = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get personality result %s: %w", id, err)
	}
	return toDomainPersonalityResult(&row), nil
}

func (r *personalityResultRepository) UpdateAIInterpretation(ctx context.Context, id string, interpretation []byte) error {
	query := `UPDATE personality_results SET ai_interpretation = :1 WHERE id = :2`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, string(interpretation), id); err != nil {
		return fmt.Errorf("failed to store AI interpretation for result %s: %w", id, err)
	}
	return nil
}

func toDomainPersonalityResult(m *models.PersonalityResult) *domain.PersonalityResult {
	if m == nil {
		return nil
	}
	res := &domain.PersonalityResult{
		ID:         m.ID,
		UserID:     m.UserID,
		TestID:     m.TestID,
		TestTitle:  m.TestTitle.String,
		Candidate:  m.Candidate.Data,
		Items:      m.Items.Data,
		Motivation: m.Motivation.Data,
		CreatedAt:  m.CreatedAt,
	}
	stored := map[domain.Dimension]sql.NullFloat64{
		domain.DimensionOpenness:          m.Openness,
		domain.DimensionConscientiousness: m.Conscientiousness,
		domain.DimensionExtraversion:      m.Extraversion,
		domain.DimensionAgreeableness:     m.Agreeableness,
		domain.DimensionNeuroticism:       m.Neuroticism,
	}
	for d, v := range stored {
		if !v.Valid {
			continue
		}
		if res.Scores == nil {
			res.Scores = make(domain.DimensionScores, len(stored))
		}
		res.Scores[d] = v.Float64
	}
	if m.AIInterpretation.Valid && m.AIInterpretation.String != "" {
		res.AIInterpretation = json.RawMessage(m.AIInterpretation.String)
	}
	return res
}
