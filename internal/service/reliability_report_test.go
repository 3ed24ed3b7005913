package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"psychoreport/internal/adapter/llm"
	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/logger"
	"psychoreport/internal/metrics"
	"psychoreport/internal/report"
	"psychoreport/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func sampleAttempt(labels ...string) *domain.ExamAttempt {
	started := fixedNow.Add(-26 * time.Minute)
	completed := fixedNow.Add(-time.Minute)
	age := 31
	a := &domain.ExamAttempt{
		ID:        "attempt-1",
		ExamID:    "exam-1",
		ExamTitle: "Prueba de Confiabilidad",
		UserID:    "user-1",
		Candidate: domain.Candidate{
			Name:  "Ana Pérez",
			Email: "ana@example.com",
			Area:  "Finanzas",
			Age:   &age,
		},
		StartedAt:   &started,
		CompletedAt: &completed,
		Status:      "completed",
	}
	for i, label := range labels {
		id := string(rune('a' + i))
		a.Questions = append(a.Questions, domain.Question{ID: id, Text: "Pregunta " + id, CategoryName: "Honestidad"})
		a.Answers = append(a.Answers, domain.Answer{QuestionID: id, Label: label})
	}
	return a
}

type reliabilityFixture struct {
	attempts *MockExamAttemptRepository
	configs  *MockReportConfigRepository
	adjuster *MockPersonalAdjuster
	analyses *memoryAnalysisRepo
	deps     *ReportDependencies
}

func newReliabilityFixture(client domain.CompletionClient) *reliabilityFixture {
	f := &reliabilityFixture{
		attempts: new(MockExamAttemptRepository),
		configs:  new(MockReportConfigRepository),
		adjuster: new(MockPersonalAdjuster),
		analyses: &memoryAnalysisRepo{},
	}
	m := metrics.New()
	f.deps = &ReportDependencies{
		Attempts:         f.attempts,
		Configs:          f.configs,
		Adjuster:         f.adjuster,
		Narrator:         newTestNarrator(client, nil, m),
		Analyses:         newTestAnalysisCache(f.analyses, newMemoryCache(), m, fixedNow),
		Thresholds:       scoring.DefaultThresholds(),
		AlgorithmVersion: "v1",
		Metrics:          m,
		Now:              func() time.Time { return fixedNow },
	}
	return f
}

func TestReliabilityReport_HighRiskWithNarrative(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, phaseIs("Analiza los resultados")).Return("Análisis detallado", nil).Once()
	client.On("Complete", mock.Anything, phaseIs("Con base en")).Return("Conclusiones finales", nil).Once()

	f := newReliabilityFixture(client)
	attempt := sampleAttempt("Frecuentemente", "Frecuentemente", "Frecuentemente", "Frecuentemente")
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(attempt, nil)
	f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(nil)
	f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(nil, nil)
	f.adjuster.On("Adjust", mock.Anything, mock.MatchedBy(func(req domain.AdjustmentRequest) bool {
		return req.ResultType == domain.AdjustmentResultReliability && req.BaseScores["Honestidad"] == 12 && req.SessionID != ""
	})).Return(&domain.AdjustmentResult{Success: true, Adjustment: 0.25}, nil)

	svc := NewReliabilityReportService(f.deps)
	resp, err := svc.Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "RIESGO ALTO", resp.RiskLevel)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, dto.CategoryScore{
		Category:          "Honestidad",
		TotalQuestions:    4,
		TotalScore:        12,
		Average:           3,
		PopulationAverage: 1.5,
		Difference:        1.5,
		RiskLevel:         "RIESGO ALTO",
	}, resp.Categories[0])
	assert.Equal(t, "Ana Pérez", resp.Metadata.Candidate)
	assert.Equal(t, "02/03/2026", resp.Metadata.Date)

	assert.Contains(t, resp.HTML, "Ana Pérez")
	assert.Contains(t, resp.HTML, "100.0%")
	assert.Contains(t, resp.HTML, `class="risk-high"`)
	assert.Contains(t, resp.HTML, "+0.25")
	assert.Contains(t, resp.HTML, "<p>Análisis detallado</p>")
	assert.Contains(t, resp.HTML, "<p>Conclusiones finales</p>")
	assert.Contains(t, resp.HTML, "<svg")
	assert.NotContains(t, resp.HTML, "{{")

	require.NotNil(t, resp.AI)
	assert.False(t, resp.AI.Cached)
	f.attempts.AssertCalled(t, "UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything)

	again, err := svc.Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})
	require.NoError(t, err)
	assert.True(t, again.AI.Cached)
	assert.Equal(t, "Análisis detallado", *again.AI.Analysis)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestReliabilityReport_CompletionServerErrorRendersFallback(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
	}))
	defer srv.Close()
	client, err := llm.NewOpenAIClient("test-key", srv.URL+"/v1", srv.Client(), nil)
	require.NoError(t, err)

	f := newReliabilityFixture(client)
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(sampleAttempt("Nunca", "Rara vez", "A veces"), nil)
	f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(nil)
	f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(nil, errors.New("ORA-03113: end-of-file on communication channel"))
	f.deps.Adjuster = nil

	resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.HTML, report.AnalysisUnavailable)
	assert.Contains(t, resp.HTML, report.ConclusionsUnavailable)
	assert.Contains(t, resp.HTML, "Sin ajuste")
	assert.Equal(t, "RIESGO MEDIO", resp.RiskLevel)
	require.NotNil(t, resp.AI)
	assert.Nil(t, resp.AI.Analysis)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one retry on a 5xx")
	assert.Empty(t, f.analyses.entries, "failed narratives are not cached")
}

func TestReliabilityReport_NotFound(t *testing.T) {
	f := newReliabilityFixture(nil)
	f.attempts.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "missing"})

	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
}

func TestReliabilityReport_RepositoryError(t *testing.T) {
	f := newReliabilityFixture(nil)
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(nil, errors.New("ORA-12541: TNS:no listener"))

	_, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}

func TestReliabilityReport_AdjustmentFailureIsNonFatal(t *testing.T) {
	f := newReliabilityFixture(nil)
	attempt := sampleAttempt("A veces", "A veces")
	attempt.PersonalAdjustment = []byte(`{"success":true,"adjustment":-0.5}`)
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(attempt, nil)
	f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(errors.New("ORA-00054: resource busy"))
	f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(nil, nil)
	f.adjuster.On("Adjust", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "RIESGO ALTO", resp.RiskLevel)
	assert.Contains(t, resp.HTML, "-0.50", "stored adjustment is shown when the service fails")
	assert.Contains(t, scrape(t, f.deps.Metrics), "psychoreport_adjustment_failures_total 1")
}

func TestReliabilityReport_ConfigAndRequestFlags(t *testing.T) {
	client := new(MockCompletionClient)
	f := newReliabilityFixture(client)
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(sampleAttempt("Rara vez", "Nunca"), nil)
	f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(nil)
	cfg := domain.DefaultReportConfig("exam-1")
	cfg.CompanyName = "Acme & Co"
	cfg.IncludePersonalData = false
	cfg.IncludeCategoryTable = false
	f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(cfg, nil)
	f.adjuster.On("Adjust", mock.Anything, mock.Anything).Return(&domain.AdjustmentResult{Success: false}, nil)

	resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{
		ExamAttemptID:   "attempt-1",
		IncludeCharts:   boolPtr(false),
		IncludeAnalysis: boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, "RIESGO BAJO", resp.RiskLevel)
	assert.Nil(t, resp.AI)
	assert.Contains(t, resp.HTML, report.AnalysisDisabled)
	assert.Contains(t, resp.HTML, "Acme &amp; Co")
	assert.NotContains(t, resp.HTML, "<svg")
	assert.NotContains(t, resp.HTML, ">31<", "personal data is hidden")
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestReliabilityReport_UnrecognizedLabelScoresZero(t *testing.T) {
	f := newReliabilityFixture(nil)
	f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(sampleAttempt("Siempre", "Frecuentemente"), nil)
	f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(nil)
	f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(nil, nil)
	f.deps.Adjuster = nil

	resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})

	require.NoError(t, err)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, float64(3), resp.Categories[0].TotalScore)
	assert.Equal(t, "RIESGO MEDIO", resp.RiskLevel)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func TestReliabilityReport_UnrecognizedLabelIsLoggedApartFromNunca(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		wantLabel string
		wantQID   string
	}{
		{name: "unknown label", labels: []string{"Nunca", "Siempre"}, wantLabel: "Siempre", wantQID: "b"},
		{name: "all nunca", labels: []string{"Nunca", "Nunca"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			f := newReliabilityFixture(nil)
			f.attempts.On("GetByID", mock.Anything, "attempt-1").Return(sampleAttempt(tt.labels...), nil)
			f.attempts.On("UpdateRiskAnalysis", mock.Anything, "attempt-1", mock.Anything).Return(nil)
			f.configs.On("GetByExamID", mock.Anything, "exam-1").Return(nil, nil)
			f.deps.Adjuster = nil

			resp, err := NewReliabilityReportService(f.deps).Generate(context.Background(), &dto.ReliabilityReportRequest{ExamAttemptID: "attempt-1"})
			require.NoError(t, err)
			require.Len(t, resp.Categories, 1)
			assert.Equal(t, float64(0), resp.Categories[0].TotalScore)

			entries := logs.FilterMessage("answer_label_unrecognized").AllUntimed()
			if tt.wantLabel == "" {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.wantQID, fields["questionID"])
			assert.Equal(t, tt.wantLabel, fields["label"])
			assert.Equal(t, "attempt-1", fields["attemptID"])
		})
	}
}
