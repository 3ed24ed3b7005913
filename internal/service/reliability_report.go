package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/logger"
	"psychoreport/internal/report"
	"psychoreport/internal/scoring"
	"psychoreport/internal/util"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// ReliabilityReportService renders the report of a reliability exam attempt.
type ReliabilityReportService interface {
	Generate(ctx context.Context, req *dto.ReliabilityReportRequest) (*dto.ReportResponse, error)
}

type reliabilityReportServiceImpl struct {
	deps *ReportDependencies
}

func NewReliabilityReportService(deps *ReportDependencies) ReliabilityReportService {
	return &reliabilityReportServiceImpl{deps: deps}
}

func (s *reliabilityReportServiceImpl) Generate(ctx context.Context, req *dto.ReliabilityReportRequest) (*dto.ReportResponse, error) {
	d := s.deps
	start := d.now()
	defer func() { d.Metrics.ObserveReport("reliability", d.now().Sub(start)) }()

	attempt, err := d.Attempts.GetByID(ctx, req.ExamAttemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load exam attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(req.ExamAttemptID)
	}

	cfg := d.loadReportConfig(ctx, attempt.ExamID)
	includeCharts := flag(cfg.IncludeCharts, req.IncludeCharts)
	includeAnalysis := flag(cfg.IncludeAnalysis, req.IncludeAnalysis)

	agg := scoring.Aggregate(attempt.Questions, attempt.Answers, d.Thresholds)
	for _, u := range agg.Unrecognized {
		// scored as 0 like "Nunca"; logged separately so the two stay distinguishable
		logger.Get().Warn("answer_label_unrecognized",
			zap.String("attemptID", attempt.ID),
			zap.String("questionID", u.QuestionID),
			zap.String("label", u.Label))
	}

	adjustment := d.adjust(ctx, domain.AdjustmentRequest{
		BaseScores: reliabilityBaseScores(agg),
		ResultType: domain.AdjustmentResultReliability,
		AttemptID:  attempt.ID,
	})
	if adjustment == nil {
		adjustment = storedAdjustment(attempt.PersonalAdjustment)
	}

	var payload *domain.AnalysisPayload
	var cached bool
	if includeAnalysis {
		payload, cached = s.narrative(ctx, attempt, agg, adjustment, req.ForceRegenerate)
	}

	generatedAt := d.now()
	rc := report.ReliabilityContext{
		Common:             commonFields(cfg, attempt.Candidate, generatedAt),
		OverallScore:       fmt.Sprintf("%.1f%%", agg.Overall.Percentage),
		RiskLevel:          string(agg.Overall.RiskLevel),
		RiskLevelClass:     scoring.RiskClass(agg.Overall.RiskLevel),
		QuestionsAnswered:  fmt.Sprintf("%d", agg.Answered),
		PersonalAdjustment: describeAdjustment(adjustment),
	}
	rc.ExamDate = report.FormatDate(attempt.CompletedAt)
	rc.ExamDuration = report.FormatDuration(attempt.Duration())
	rc.ExamStatus = attempt.Status
	if cfg.IncludeCategoryTable {
		rc.CategoryRows = report.CategoryRows(agg.Categories)
	}
	if includeCharts {
		rc.ComparisonChart = report.BarChartSVG(agg.Categories)
	}
	rc.AIDetailedAnalysis, rc.AIConclusions = aiSections(includeAnalysis, payload)

	html := report.Render(report.TemplateFor(report.KindReliability, cfg), rc)
	s.saveRiskAnalysis(ctx, attempt.ID, agg, generatedAt)

	resp := &dto.ReportResponse{
		HTML:    html,
		Success: true,
		Metadata: dto.ReportMetadata{
			Candidate: attempt.Candidate.Name,
			Exam:      attempt.ExamTitle,
			Date:      report.FormatDate(&generatedAt),
		},
		RiskLevel: string(agg.Overall.RiskLevel),
	}
	if err := copier.Copy(&resp.Categories, &agg.Categories); err != nil {
		logger.Get().Warn("ReliabilityReportService: failed to map category summary", zap.Error(err))
	}
	if includeAnalysis {
		resp.AI = aiDTO(payload, cached)
	}

	logger.Get().Info("ReliabilityReportService: report generated",
		zap.String("attemptID", attempt.ID),
		zap.String("riskLevel", string(agg.Overall.RiskLevel)),
		zap.Int("categories", len(agg.Categories)),
		zap.Bool("aiAvailable", payload != nil),
		zap.Bool("aiCached", cached))
	return resp, nil
}

func (s *reliabilityReportServiceImpl) narrative(ctx context.Context, attempt *domain.ExamAttempt, agg scoring.Aggregation, adjustment *domain.AdjustmentResult, force bool) (*domain.AnalysisPayload, bool) {
	d := s.deps
	adjustmentText := describeAdjustment(adjustment)
	fingerprint, err := util.Fingerprint(
		d.AlgorithmVersion,
		domain.AnalysisReliabilityReport,
		attempt.ExamID,
		attempt.Candidate.Name,
		agg.Categories,
		agg.Overall,
		adjustmentText,
	)
	if err != nil {
		logger.Get().Warn("ReliabilityReportService: failed to fingerprint inputs", zap.Error(err))
		return nil, false
	}

	key := domain.AnalysisCacheKey{
		UserID:      attempt.UserID,
		ScopeID:     strPtr(attempt.ID),
		Type:        domain.AnalysisReliabilityReport,
		Fingerprint: fingerprint,
	}
	req := NarrativeRequest{
		Type: domain.AnalysisReliabilityReport,
		Vars: reliabilityPromptVars(attempt, agg, adjustmentText),
	}
	meta := map[string]string{
		"attemptId":        attempt.ID,
		"algorithmVersion": d.AlgorithmVersion,
	}
	return d.narrative(ctx, key, force, req, meta)
}

// saveRiskAnalysis refreshes the snapshot on the attempt. Failures are logged only.
func (s *reliabilityReportServiceImpl) saveRiskAnalysis(ctx context.Context, attemptID string, agg scoring.Aggregation, at time.Time) {
	snapshot, err := json.Marshal(domain.RiskAnalysis{
		Categories:         agg.Categories,
		Overall:            agg.Overall,
		UnrecognizedLabels: len(agg.Unrecognized),
		ComputedAt:         at,
	})
	if err != nil {
		logger.Get().Warn("ReliabilityReportService: failed to encode risk analysis", zap.Error(err))
		return
	}
	if err := s.deps.Attempts.UpdateRiskAnalysis(ctx, attemptID, snapshot); err != nil {
		logger.Get().Warn("ReliabilityReportService: failed to store risk analysis", zap.Error(err), zap.String("attemptID", attemptID))
	}
}

func reliabilityBaseScores(agg scoring.Aggregation) map[string]float64 {
	scores := make(map[string]float64, len(agg.Categories)+1)
	for _, c := range agg.Categories {
		scores[c.Category] = c.TotalScore
	}
	scores["overall"] = agg.Overall.Percentage
	return scores
}
