package service

import (
	"context"
	"errors"
	"net"
	"time"

	"psychoreport/internal/config"
	"psychoreport/internal/domain"
	"psychoreport/internal/logger"
	"psychoreport/internal/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultCompletionTimeout = 60 * time.Second
	defaultRetryInterval     = 500 * time.Millisecond
	maxCompletionRetries     = 1
)

// NarrativeRequest asks for the narrative of one analysis type.
type NarrativeRequest struct {
	Type domain.AnalysisType
	Vars PromptVars
	// Model overrides the model of both phases when set.
	Model string
}

// NarrativeGenerator produces the AI analysis and conclusions of a report.
// A nil narrative means the AI section is unavailable; callers render the
// fallback text and keep going.
type NarrativeGenerator interface {
	Generate(ctx context.Context, req NarrativeRequest) (*domain.Narrative, error)
}

type narrativeGeneratorImpl struct {
	client        domain.CompletionClient
	prompts       domain.AIPromptConfigRepository
	cfg           config.LLMConfig
	metrics       *metrics.Metrics
	retryInterval time.Duration
}

// NewNarrativeGenerator creates a generator. client may be nil when no
// credential is configured; prompts may be nil to use the built-in prompts only.
func NewNarrativeGenerator(client domain.CompletionClient, prompts domain.AIPromptConfigRepository, cfg config.LLMConfig, m *metrics.Metrics) NarrativeGenerator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCompletionTimeout
	}
	return &narrativeGeneratorImpl{
		client:        client,
		prompts:       prompts,
		cfg:           cfg,
		metrics:       m,
		retryInterval: defaultRetryInterval,
	}
}

func (g *narrativeGeneratorImpl) Generate(ctx context.Context, req NarrativeRequest) (*domain.Narrative, error) {
	if g.client == nil {
		logger.Get().Debug("NarrativeGenerator: no completion client configured, skipping", zap.String("type", string(req.Type)))
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis, err := g.complete(ctx, g.buildRequest(ctx, req, domain.PhaseAnalysis, req.Vars), domain.PhaseAnalysis)
	if err != nil {
		logger.Get().Warn("NarrativeGenerator: analysis call failed, AI section unavailable",
			zap.Error(err),
			zap.String("type", string(req.Type)))
		return nil, nil
	}
	narrative := &domain.Narrative{Analysis: &analysis}

	conclusionVars := req.Vars.With(VarAnalysis, analysis)
	conclusions, err := g.complete(ctx, g.buildRequest(ctx, req, domain.PhaseConclusions, conclusionVars), domain.PhaseConclusions)
	if err != nil {
		logger.Get().Warn("NarrativeGenerator: conclusions call failed, keeping analysis only",
			zap.Error(err),
			zap.String("type", string(req.Type)))
		return narrative, nil
	}
	narrative.Conclusions = &conclusions
	return narrative, nil
}

// buildRequest resolves prompts and sampling for one phase. Admin overrides
// win over built-ins, and req.Model wins over both.
func (g *narrativeGeneratorImpl) buildRequest(ctx context.Context, req NarrativeRequest, phase domain.AnalysisPhase, vars PromptVars) domain.CompletionRequest {
	pair := defaultPrompts[req.Type][phase]
	temperature := g.cfg.Temperature
	creq := domain.CompletionRequest{
		Model:       g.cfg.Model,
		Temperature: &temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}

	if override := g.promptOverride(ctx, req.Type, phase); override != nil {
		if override.SystemPrompt != "" {
			pair.system = override.SystemPrompt
		}
		if override.UserPrompt != "" {
			pair.user = override.UserPrompt
		}
		if override.Model != "" {
			creq.Model = override.Model
		}
		if override.Temperature != nil {
			t := *override.Temperature
			creq.Temperature = &t
		}
		if override.MaxTokens > 0 {
			creq.MaxTokens = override.MaxTokens
		}
	}
	if req.Model != "" {
		creq.Model = req.Model
	}

	creq.SystemPrompt = FillPrompt(pair.system, vars)
	creq.UserPrompt = FillPrompt(pair.user, vars)
	return creq
}

func (g *narrativeGeneratorImpl) promptOverride(ctx context.Context, t domain.AnalysisType, phase domain.AnalysisPhase) *domain.AIPromptConfig {
	if g.prompts == nil {
		return nil
	}
	cfg, err := g.prompts.GetPrompt(ctx, t, phase)
	if err != nil {
		logger.Get().Warn("NarrativeGenerator: failed to load prompt config, using defaults",
			zap.Error(err),
			zap.String("type", string(t)),
			zap.String("phase", string(phase)))
		return nil
	}
	return cfg
}

// complete runs one completion with its own timeout and at most one retry
// for transient failures.
func (g *narrativeGeneratorImpl) complete(ctx context.Context, creq domain.CompletionRequest, phase domain.AnalysisPhase) (string, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = g.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, maxCompletionRetries), ctx)

	var text string
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
		out, err := g.client.Complete(callCtx, creq)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		text = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Get().Info("NarrativeGenerator: retrying completion",
			zap.Error(err),
			zap.String("phase", string(phase)),
			zap.Duration("wait", wait))
	}

	err := backoff.RetryNotify(op, b, notify)
	g.metrics.Completion(string(phase), completionOutcome(err))
	return text, err
}

// isTransient reports failures worth one retry: timeouts, network errors,
// 429 and 5xx.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var httpErr *domain.ErrCompletionHTTP
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func completionOutcome(err error) string {
	var httpErr *domain.ErrCompletionHTTP
	switch {
	case err == nil:
		return metrics.CompletionOK
	case errors.As(err, &httpErr):
		return metrics.CompletionHTTPError
	case errors.Is(err, domain.ErrCompletionMalformed):
		return metrics.CompletionMalformed
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.CompletionTimeout
	default:
		return metrics.CompletionError
	}
}
