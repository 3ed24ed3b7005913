package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"psychoreport/internal/config"
	"psychoreport/internal/domain"
	"psychoreport/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestNarrator(client domain.CompletionClient, prompts domain.AIPromptConfigRepository, m *metrics.Metrics) *narrativeGeneratorImpl {
	cfg := config.LLMConfig{Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 1500}
	g := NewNarrativeGenerator(client, prompts, cfg, m).(*narrativeGeneratorImpl)
	g.retryInterval = time.Millisecond
	return g
}

func phaseIs(marker string) interface{} {
	return mock.MatchedBy(func(req domain.CompletionRequest) bool {
		return strings.Contains(req.UserPrompt, marker)
	})
}

var testVars = PromptVars{
	VarCandidateName: "Ana Pérez",
	VarExamTitle:     "Confiabilidad",
	VarOverallRisk:   "RIESGO MEDIO",
}

func TestFillPrompt(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars PromptVars
		want string
	}{
		{"replaces known", "Hola {{candidate_name}}", PromptVars{VarCandidateName: "Ana"}, "Hola Ana"},
		{"keeps unknown", "{{candidate_name}} {{unknown}}", PromptVars{VarCandidateName: "Ana"}, "Ana {{unknown}}"},
		{"repeated", "{{exam_title}}/{{exam_title}}", PromptVars{VarExamTitle: "X"}, "X/X"},
		{"no vars", "{{exam_title}}", nil, "{{exam_title}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FillPrompt(tt.tpl, tt.vars))
		})
	}
}

func TestPromptVars_WithDoesNotMutate(t *testing.T) {
	base := PromptVars{VarCandidateName: "Ana"}
	next := base.With(VarAnalysis, "texto")
	assert.NotContains(t, base, VarAnalysis)
	assert.Equal(t, "texto", next[VarAnalysis])
}

func TestNarrativeGenerator_NilClient(t *testing.T) {
	g := NewNarrativeGenerator(nil, nil, config.LLMConfig{}, nil)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestNarrativeGenerator_Success(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, phaseIs("Analiza los resultados")).Return("Análisis detallado", nil).Once()
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req domain.CompletionRequest) bool {
		return strings.Contains(req.UserPrompt, "Análisis detallado") && strings.Contains(req.UserPrompt, "Ana Pérez")
	})).Return("Conclusiones finales", nil).Once()

	m := metrics.New()
	g := newTestNarrator(client, nil, m)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Análisis detallado", *n.Analysis)
	assert.Equal(t, "Conclusiones finales", *n.Conclusions)
	client.AssertExpectations(t)
	assert.Contains(t, scrape(t, m), `psychoreport_llm_completions_total{outcome="ok",phase="conclusions"} 1`)
}

func TestNarrativeGenerator_TransientErrorRetriedOnce(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return("", &domain.ErrCompletionHTTP{Status: 500}).Times(2)

	m := metrics.New()
	g := newTestNarrator(client, nil, m)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	assert.NoError(t, err)
	assert.Nil(t, n)
	client.AssertNumberOfCalls(t, "Complete", 2)
	assert.Contains(t, scrape(t, m), `psychoreport_llm_completions_total{outcome="http_error",phase="analysis"} 1`)
}

func TestNarrativeGenerator_TransientErrorRecovers(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, phaseIs("Analiza los resultados")).Return("", &domain.ErrCompletionHTTP{Status: 429}).Once()
	client.On("Complete", mock.Anything, phaseIs("Analiza los resultados")).Return("Análisis", nil).Once()
	client.On("Complete", mock.Anything, phaseIs("Con base en")).Return("Conclusiones", nil).Once()

	g := newTestNarrator(client, nil, nil)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Análisis", *n.Analysis)
	client.AssertNumberOfCalls(t, "Complete", 3)
}

func TestNarrativeGenerator_PermanentErrorNotRetried(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return("", &domain.ErrCompletionHTTP{Status: 401, Message: "invalid api key"}).Once()

	g := newTestNarrator(client, nil, nil)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	assert.NoError(t, err)
	assert.Nil(t, n)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestNarrativeGenerator_MalformedResponse(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return("", domain.ErrCompletionMalformed).Once()

	g := newTestNarrator(client, nil, nil)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisOceanReport, Vars: testVars})

	assert.NoError(t, err)
	assert.Nil(t, n)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestNarrativeGenerator_ConclusionsFailureKeepsAnalysis(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, phaseIs("Analiza los resultados")).Return("Análisis", nil).Once()
	client.On("Complete", mock.Anything, phaseIs("Con base en")).Return("", errors.New("unexpected EOF")).Once()

	g := newTestNarrator(client, nil, nil)
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Análisis", *n.Analysis)
	assert.Nil(t, n.Conclusions)
}

func TestNarrativeGenerator_TimeoutPerCall(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	g := newTestNarrator(client, nil, nil)
	g.cfg.Timeout = 10 * time.Millisecond
	n, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})

	assert.NoError(t, err)
	assert.Nil(t, n)
	client.AssertNumberOfCalls(t, "Complete", 2)
}

func TestNarrativeGenerator_OverridesAndSelectedModel(t *testing.T) {
	temperature := 0.2
	prompts := new(MockAIPromptConfigRepository)
	prompts.On("GetPrompt", mock.Anything, domain.AnalysisOceanReport, domain.PhaseAnalysis).Return(&domain.AIPromptConfig{
		SystemPrompt: "Sistema personalizado",
		UserPrompt:   "Perfil de {{candidate_name}}",
		Model:        "admin-model",
		Temperature:  &temperature,
		MaxTokens:    800,
	}, nil)
	prompts.On("GetPrompt", mock.Anything, domain.AnalysisOceanReport, domain.PhaseConclusions).Return(nil, errors.New("ORA-12541: TNS:no listener"))

	var seen []domain.CompletionRequest
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { seen = append(seen, args.Get(1).(domain.CompletionRequest)) }).
		Return("ok", nil)

	g := newTestNarrator(client, prompts, nil)
	_, err := g.Generate(context.Background(), NarrativeRequest{Type: domain.AnalysisOceanReport, Vars: testVars, Model: "llama3"})
	require.NoError(t, err)
	require.Len(t, seen, 2)

	analysis := seen[0]
	assert.Equal(t, "Sistema personalizado", analysis.SystemPrompt)
	assert.Equal(t, "Perfil de Ana Pérez", analysis.UserPrompt)
	assert.Equal(t, "llama3", analysis.Model)
	assert.Equal(t, 0.2, *analysis.Temperature)
	assert.Equal(t, 800, analysis.MaxTokens)

	conclusions := seen[1]
	assert.Equal(t, "llama3", conclusions.Model)
	assert.Equal(t, 0.7, *conclusions.Temperature)
	assert.Equal(t, 1500, conclusions.MaxTokens)
	assert.Contains(t, conclusions.UserPrompt, "ok")
}

func TestNarrativeGenerator_CanceledContext(t *testing.T) {
	client := new(MockCompletionClient)
	g := newTestNarrator(client, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, NarrativeRequest{Type: domain.AnalysisReliabilityReport, Vars: testVars})
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
