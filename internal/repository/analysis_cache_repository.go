package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"psychoreport/internal/domain"
	"psychoreport/internal/repository/models"
	"psychoreport/internal/util"
)

type analysisCacheRepository struct {
	db DBTX
}

// NewAnalysisCacheRepository creates a repository over AI_ANALYSIS_CACHE.
// Deactivate and Insert pick up the transaction from ctx when present.
func NewAnalysisCacheRepository(db DBTX) domain.AnalysisCacheRepository {
	return &analysisCacheRepository{db: db}
}

// scopeClause matches a nullable scope; Oracle never matches NULL with "=".
func scopeClause(scopeID *string, placeholder string, args []any) (string, []any) {
	if scopeID == nil {
		return "scope_id IS NULL", args
	}
	return "scope_id = " + placeholder, append(args, *scopeID)
}

func (r *analysisCacheRepository) FindActive(ctx context.Context, userID string, scopeID *string, analysisType domain.AnalysisType) (*domain.AnalysisCacheEntry, error) {
	clause, args := scopeClause(scopeID, ":3", []any{userID, string(analysisType)})
	query := `SELECT id, user_id, scope_id, analysis_type, input_fingerprint, payload,
		generated_at, expires_at, is_active, version
	FROM ai_analysis_cache
	WHERE user_id = :1 AND analysis_type = :2 AND ` + clause + ` AND is_active = 1
	ORDER BY generated_at DESC
	FETCH FIRST 1 ROWS ONLY`

	var row models.AnalysisCacheEntry
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active analysis: %w", err)
	}
	return toDomainAnalysisEntry(&row), nil
}

func (r *analysisCacheRepository) Deactivate(ctx context.Context, userID string, scopeID *string, analysisType domain.AnalysisType) (int64, error) {
	clause, args := scopeClause(scopeID, ":3", []any{userID, string(analysisType)})
	query := `UPDATE ai_analysis_cache SET is_active = 0
	WHERE user_id = :1 AND analysis_type = :2 AND ` + clause + ` AND is_active = 1`

	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// some drivers cannot report it; the update itself succeeded
		return 0, nil
	}
	return n, nil
}

func (r *analysisCacheRepository) Insert(ctx context.Context, entry *domain.AnalysisCacheEntry) error {
	row := fromDomainAnalysisEntry(entry)
	query := `INSERT INTO ai_analysis_cache
		(id, user_id, scope_id, analysis_type, input_fingerprint, payload, generated_at, expires_at, is_active, version)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		row.ID, row.UserID, row.ScopeID, row.AnalysisType, row.InputFingerprint,
		row.Payload, row.GeneratedAt, row.ExpiresAt, row.IsActive, row.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", entry.ID, err)
	}
	return nil
}

func toDomainAnalysisEntry(m *models.AnalysisCacheEntry) *domain.AnalysisCacheEntry {
	return &domain.AnalysisCacheEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		ScopeID:     util.NullStringToPtr(m.ScopeID),
		Type:        domain.AnalysisType(m.AnalysisType),
		Fingerprint: m.InputFingerprint,
		Payload:     m.Payload.Data,
		GeneratedAt: m.GeneratedAt,
		ExpiresAt:   m.ExpiresAt,
		IsActive:    m.IsActive == 1,
		Version:     m.Version,
	}
}

func fromDomainAnalysisEntry(e *domain.AnalysisCacheEntry) *models.AnalysisCacheEntry {
	return &models.AnalysisCacheEntry{
		ID:               e.ID,
		UserID:           e.UserID,
		ScopeID:          util.StringPtrToNullString(e.ScopeID),
		AnalysisType:     string(e.Type),
		InputFingerprint: e.Fingerprint,
		Payload:          models.NewJSON(e.Payload),
		GeneratedAt:      e.GeneratedAt,
		ExpiresAt:        e.ExpiresAt,
		IsActive:         util.BoolToNumber(e.IsActive),
		Version:          e.Version,
	}
}
