package service

import (
	"context"
	"encoding/json"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/logger"
	"psychoreport/internal/report"
	"psychoreport/internal/scoring"
	"psychoreport/internal/util"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// PersonalityReportService renders OCEAN reports and interpretations.
type PersonalityReportService interface {
	Generate(ctx context.Context, req *dto.PersonalityReportRequest) (*dto.ReportResponse, error)
	// Interpret returns the narrative addressed to the candidate and stores it on the result.
	Interpret(ctx context.Context, resultID, model string, force bool) (*dto.AIAnalysis, error)
}

type personalityReportServiceImpl struct {
	deps *ReportDependencies
}

func NewPersonalityReportService(deps *ReportDependencies) PersonalityReportService {
	return &personalityReportServiceImpl{deps: deps}
}

func (s *personalityReportServiceImpl) load(ctx context.Context, id string) (*domain.PersonalityResult, error) {
	res, err := s.deps.Personality.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load personality result", err)
	}
	if res == nil {
		return nil, domain.NewPersonalityResultNotFoundError(id)
	}
	return res, nil
}

func (s *personalityReportServiceImpl) Generate(ctx context.Context, req *dto.PersonalityReportRequest) (*dto.ReportResponse, error) {
	d := s.deps
	start := d.now()
	defer func() { d.Metrics.ObserveReport("personality", d.now().Sub(start)) }()

	result, err := s.load(ctx, req.PersonalityResultID)
	if err != nil {
		return nil, err
	}

	cfg := d.loadReportConfig(ctx, result.TestID)
	includeCharts := flag(cfg.IncludeCharts, req.IncludeCharts)
	includeAnalysis := flag(cfg.IncludeAnalysis, req.IncludeAnalysis)

	dims := scoring.DimensionResults(scoring.ResolveScores(result))
	adjustment := d.adjust(ctx, domain.AdjustmentRequest{
		BaseScores:          personalityBaseScores(dims),
		ResultType:          domain.AdjustmentResultPersonality,
		PersonalityResultID: result.ID,
	})

	var payload *domain.AnalysisPayload
	var cached bool
	if includeAnalysis {
		payload, cached = s.narrative(ctx, result, dims, domain.AnalysisOceanReport, req.SelectedModel, req.ForceRegenerate)
	}

	generatedAt := d.now()
	pc := report.PersonalityContext{
		Common:             commonFields(cfg, result.Candidate, generatedAt),
		PersonalAdjustment: describeAdjustment(adjustment),
		DimensionRows:      report.DimensionRows(dims),
		MotivationRows:     report.MotivationRows(result.Motivation),
	}
	pc.ExamDate = report.FormatDate(&result.CreatedAt)
	pc.ExamStatus = "completed"
	if includeCharts {
		pc.PersonalityChart = report.RadarChartSVG(dims)
	}
	pc.AIDetailedAnalysis, pc.AIConclusions = aiSections(includeAnalysis, payload)

	resp := &dto.ReportResponse{
		HTML:    report.Render(report.TemplateFor(report.KindPersonality, cfg), pc),
		Success: true,
		Metadata: dto.ReportMetadata{
			Candidate: result.Candidate.Name,
			Exam:      result.TestTitle,
			Date:      report.FormatDate(&generatedAt),
		},
	}
	if err := copier.Copy(&resp.Dimensions, &dims); err != nil {
		logger.Get().Warn("PersonalityReportService: failed to map dimension summary", zap.Error(err))
	}
	if includeAnalysis {
		resp.AI = aiDTO(payload, cached)
	}

	logger.Get().Info("PersonalityReportService: report generated",
		zap.String("resultID", result.ID),
		zap.Bool("aiAvailable", payload != nil),
		zap.Bool("aiCached", cached))
	return resp, nil
}

func (s *personalityReportServiceImpl) Interpret(ctx context.Context, resultID, model string, force bool) (*dto.AIAnalysis, error) {
	result, err := s.load(ctx, resultID)
	if err != nil {
		return nil, err
	}
	dims := scoring.DimensionResults(scoring.ResolveScores(result))

	payload, cached := s.narrative(ctx, result, dims, domain.AnalysisOceanInterpretation, model, force)
	if payload != nil && !cached {
		if b, err := json.Marshal(payload); err != nil {
			logger.Get().Warn("PersonalityReportService: failed to encode interpretation", zap.Error(err))
		} else if err := s.deps.Personality.UpdateAIInterpretation(ctx, result.ID, b); err != nil {
			logger.Get().Warn("PersonalityReportService: failed to store interpretation", zap.Error(err), zap.String("resultID", result.ID))
		}
	}
	return aiDTO(payload, cached), nil
}

func (s *personalityReportServiceImpl) narrative(ctx context.Context, result *domain.PersonalityResult, dims []domain.DimensionResult, t domain.AnalysisType, model string, force bool) (*domain.AnalysisPayload, bool) {
	d := s.deps
	fingerprint, err := util.Fingerprint(
		d.AlgorithmVersion,
		t,
		result.TestID,
		result.Candidate.Name,
		dims,
		result.Motivation,
		model,
	)
	if err != nil {
		logger.Get().Warn("PersonalityReportService: failed to fingerprint inputs", zap.Error(err))
		return nil, false
	}

	key := domain.AnalysisCacheKey{
		UserID:      result.UserID,
		ScopeID:     strPtr(result.ID),
		Type:        t,
		Fingerprint: fingerprint,
	}
	req := NarrativeRequest{
		Type:  t,
		Vars:  personalityPromptVars(result, dims),
		Model: model,
	}
	meta := map[string]string{
		"personalityResultId": result.ID,
		"algorithmVersion":    d.AlgorithmVersion,
	}
	if model != "" {
		meta["model"] = model
	}
	return d.narrative(ctx, key, force, req, meta)
}

func personalityBaseScores(dims []domain.DimensionResult) map[string]float64 {
	scores := make(map[string]float64, len(dims))
	for _, dim := range dims {
		scores[string(dim.Dimension)] = dim.Score
	}
	return scores
}
