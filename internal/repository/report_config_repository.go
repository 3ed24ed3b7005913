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

type reportConfigRepository struct {
	db DBTX
}

// NewReportConfigRepository creates a read-only repository over EXAM_REPORT_CONFIGS.
func NewReportConfigRepository(db DBTX) domain.ReportConfigRepository {
	return &reportConfigRepository{db: db}
}

func (r *reportConfigRepository) GetByExamID(ctx context.Context, examID string) (*domain.ReportConfig, error) {
	var row models.ReportConfig
	query := `SELECT exam_id, include_charts, include_analysis, include_personal_data,
		include_category_table, font_family, company_name, company_logo_url,
		footer_logo_url, company_address, company_phone, company_email, custom_template
	FROM exam_report_configs
	WHERE exam_id = :1`

	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report config for exam %s: %w", examID, err)
	}
	return toDomainReportConfig(&row), nil
}

func toDomainReportConfig(m *models.ReportConfig) *domain.ReportConfig {
	if m == nil {
		return nil
	}
	return &domain.ReportConfig{
		ExamID:               m.ExamID,
		IncludeCharts:        m.IncludeCharts == 1,
		IncludeAnalysis:      m.IncludeAnalysis == 1,
		IncludePersonalData:  m.IncludePersonalData == 1,
		IncludeCategoryTable: m.IncludeCategoryTable == 1,
		FontFamily:           m.FontFamily.String,
		CompanyName:          m.CompanyName.String,
		CompanyLogoURL:       m.CompanyLogoURL.String,
		FooterLogoURL:        m.FooterLogoURL.String,
		CompanyAddress:       m.CompanyAddress.String,
		CompanyPhone:         m.CompanyPhone.String,
		CompanyEmail:         m.CompanyEmail.String,
		CustomTemplate:       util.NullStringToPtr(m.CustomTemplate),
	}
}
