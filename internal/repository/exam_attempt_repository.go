package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"psychoreport/internal/domain"
	"psychoreport/internal/repository/models"
	"psychoreport/internal/util"
)

type examAttemptRepository struct {
	db DBTX
}

// NewExamAttemptRepository creates a repository over EXAM_ATTEMPTS.
func NewExamAttemptRepository(db DBTX) domain.ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

// GetByID returns (nil, nil) when the attempt does not exist.
func (r *examAttemptRepository) GetByID(ctx context.Context, id string) (*domain.ExamAttempt, error) {
	var row models.ExamAttempt
	query := `SELECT
		a.id, a.exam_id, e.title exam_title, a.user_id,
		a.candidate_snapshot, a.questions_snapshot, a.answers_snapshot,
		a.status, a.started_at, a.completed_at,
		a.risk_analysis, a.personal_adjustment
	FROM exam_attempts a
	LEFT JOIN exams e ON e.id = a.exam_id
	WHERE a.id = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam attempt %s: %w", id, err)
	}
	return toDomainExamAttempt(&row), nil
}

// UpdateRiskAnalysis overwrites the cached risk analysis snapshot.
func (r *examAttemptRepository) UpdateRiskAnalysis(ctx context.Context, id string, analysis []byte) error {
	query := `UPDATE exam_attempts SET risk_analysis = :1, updated_at = :2 WHERE id = :3`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, string(analysis), time.Now(), id); err != nil {
		return fmt.Errorf("failed to update risk analysis for attempt %s: %w", id, err)
	}
	return nil
}

func toDomainExamAttempt(m *models.ExamAttempt) *domain.ExamAttempt {
	if m == nil {
		return nil
	}
	a := &domain.ExamAttempt{
		ID:          m.ID,
		ExamID:      m.ExamID,
		ExamTitle:   m.ExamTitle.String,
		UserID:      m.UserID,
		Candidate:   m.Candidate.Data,
		Questions:   m.Questions.Data,
		Answers:     m.Answers.Data,
		Status:      m.Status.String,
		StartedAt:   util.NullTimeToPtr(m.StartedAt),
		CompletedAt: util.NullTimeToPtr(m.CompletedAt),
	}
	if m.RiskAnalysis.Valid && m.RiskAnalysis.String != "" {
		a.RiskAnalysis = json.RawMessage(m.RiskAnalysis.String)
	}
	if m.PersonalAdjustment.Valid && m.PersonalAdjustment.String != "" {
		a.PersonalAdjustment = json.RawMessage(m.PersonalAdjustment.String)
	}
	return a
}
