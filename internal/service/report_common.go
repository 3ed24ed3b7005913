package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/logger"
	"psychoreport/internal/metrics"
	"psychoreport/internal/report"
	"psychoreport/internal/scoring"
	"psychoreport/internal/util"

	"go.uber.org/zap"
)

// ReportDependencies wires the report services.
type ReportDependencies struct {
	Attempts         domain.ExamAttemptRepository
	Personality      domain.PersonalityResultRepository
	Configs          domain.ReportConfigRepository
	Adjuster         domain.PersonalAdjuster
	Narrator         NarrativeGenerator
	Analyses         AnalysisCacheService
	Thresholds       scoring.Thresholds
	AlgorithmVersion string
	Metrics          *metrics.Metrics
	Now              func() time.Time
}

func (d *ReportDependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// loadReportConfig never fails: a missing or unreadable config yields the defaults.
func (d *ReportDependencies) loadReportConfig(ctx context.Context, id string) *domain.ReportConfig {
	if d.Configs == nil {
		return domain.DefaultReportConfig(id)
	}
	cfg, err := d.Configs.GetByExamID(ctx, id)
	if err != nil {
		logger.Get().Warn("ReportService: failed to load report config, using defaults", zap.Error(err), zap.String("examID", id))
		return domain.DefaultReportConfig(id)
	}
	if cfg == nil {
		return domain.DefaultReportConfig(id)
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = domain.DefaultReportConfig(id).FontFamily
	}
	return cfg
}

// adjust calls the personal adjustment service. Any failure is logged and
// yields nil so the report keeps the base scores.
func (d *ReportDependencies) adjust(ctx context.Context, req domain.AdjustmentRequest) *domain.AdjustmentResult {
	if d.Adjuster == nil {
		return nil
	}
	req.SessionID = util.NewULID()
	res, err := d.Adjuster.Adjust(ctx, req)
	switch {
	case err != nil:
		if !errors.Is(err, domain.ErrAdjustmentUnavailable) {
			d.Metrics.AdjustmentFailed()
			logger.Get().Warn("ReportService: personal adjustment failed, using base scores",
				zap.Error(err), zap.String("resultType", req.ResultType))
		}
		return nil
	case res == nil || !res.Success:
		d.Metrics.AdjustmentFailed()
		logger.Get().Warn("ReportService: personal adjustment unsuccessful, using base scores", zap.String("resultType", req.ResultType))
		return nil
	}
	return res
}

// storedAdjustment decodes an adjustment cached on the record, if any.
func storedAdjustment(raw json.RawMessage) *domain.AdjustmentResult {
	if len(raw) == 0 {
		return nil
	}
	var res domain.AdjustmentResult
	if err := json.Unmarshal(raw, &res); err != nil {
		logger.Get().Warn("ReportService: ignoring undecodable stored adjustment", zap.Error(err))
		return nil
	}
	return &res
}

func describeAdjustment(res *domain.AdjustmentResult) string {
	if res == nil {
		return "Sin ajuste"
	}
	return fmt.Sprintf("%+.2f", res.Adjustment)
}

// narrative serves the AI payload through the analysis cache. Any failure
// yields a nil payload so the report renders its fallback text.
func (d *ReportDependencies) narrative(ctx context.Context, key domain.AnalysisCacheKey, force bool, req NarrativeRequest, meta map[string]string) (*domain.AnalysisPayload, bool) {
	if d.Narrator == nil {
		return nil, false
	}
	generate := func(ctx context.Context) (*domain.AnalysisPayload, error) {
		n, err := d.Narrator.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		if n.Empty() {
			return nil, nil
		}
		return &domain.AnalysisPayload{Analysis: n.Analysis, Conclusions: n.Conclusions, Metadata: meta}, nil
	}

	if d.Analyses == nil {
		payload, err := generate(ctx)
		if err != nil {
			logger.Get().Warn("ReportService: narrative generation failed", zap.Error(err))
			return nil, false
		}
		return payload, false
	}

	payload, cached, err := d.Analyses.GetOrGenerate(ctx, key, GenerateOptions{Force: force}, generate)
	if err != nil {
		logger.Get().Warn("ReportService: narrative unavailable", zap.Error(err), zap.String("type", string(key.Type)))
		return nil, false
	}
	return payload, cached
}

// aiSections renders the AI fragments of a report.
func aiSections(enabled bool, payload *domain.AnalysisPayload) (report.HTML, report.HTML) {
	if !enabled {
		return report.Paragraphs(nil, report.AnalysisDisabled), ""
	}
	if payload == nil {
		return report.Paragraphs(nil, report.AnalysisUnavailable), report.Paragraphs(nil, report.ConclusionsUnavailable)
	}
	return report.Paragraphs(payload.Analysis, report.AnalysisUnavailable), report.Paragraphs(payload.Conclusions, report.ConclusionsUnavailable)
}

func aiDTO(payload *domain.AnalysisPayload, cached bool) *dto.AIAnalysis {
	if payload == nil {
		return &dto.AIAnalysis{}
	}
	return &dto.AIAnalysis{Analysis: payload.Analysis, Conclusions: payload.Conclusions, Cached: cached}
}

// flag combines a report config switch with an optional request override.
func flag(configured bool, requested *bool) bool {
	if requested == nil {
		return configured
	}
	return configured && *requested
}

// commonFields fills the shared report fields from the config and candidate.
func commonFields(cfg *domain.ReportConfig, cand domain.Candidate, generatedAt time.Time) report.Common {
	c := report.Common{
		FontFamily:       cfg.FontFamily,
		CompanyName:      cfg.CompanyName,
		CompanyLogoURL:   cfg.CompanyLogoURL,
		FooterLogoURL:    cfg.FooterLogoURL,
		CompanyAddress:   cfg.CompanyAddress,
		CompanyPhone:     cfg.CompanyPhone,
		CompanyEmail:     cfg.CompanyEmail,
		GenerationDate:   report.FormatDate(&generatedAt),
		CandidateName:    cand.Name,
		CandidateEmail:   cand.Email,
		CandidateCompany: cand.Company,
		CandidateArea:    cand.Area,
		CandidateSection: cand.Section,
	}
	if cfg.IncludePersonalData {
		c.MaritalStatus = cand.MaritalStatus
		c.HasChildren = report.YesNo(cand.HasChildren)
		c.HousingStatus = cand.HousingStatus
		if cand.Age != nil {
			c.Age = fmt.Sprintf("%d", *cand.Age)
		}
	}
	return c
}

func strPtr(s string) *string {
	return &s
}
