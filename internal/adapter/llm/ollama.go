package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"psychoreport/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaClient implements domain.CompletionClient against a local Ollama server.
type OllamaClient struct {
	llm *ollama.LLM
}

// NewOllamaClient creates a client. model is used when a request names none.
func NewOllamaClient(serverURL, model string, httpClient *http.Client) (*OllamaClient, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	hc := &http.Client{}
	if httpClient != nil {
		copied := *httpClient
		hc = &copied
	}
	hc.Transport = statusTransport{base: hc.Transport}
	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(hc),
	}
	l, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaClient{llm: l}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt),
	}
	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	rec := &statusRecorder{}
	resp, err := c.llm.GenerateContent(context.WithValue(ctx, statusKey{}, rec), messages, opts...)
	if err != nil {
		if rec.status != 0 {
			return "", &domain.ErrCompletionHTTP{Status: rec.status, Message: err.Error()}
		}
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.ErrCompletionMalformed
	}
	content := strings.TrimSpace(stripThinking(resp.Choices[0].Content))
	if content == "" {
		return "", domain.ErrCompletionMalformed
	}
	return content, nil
}

type statusKey struct{}

// statusRecorder holds the status of a failed response for one call.
type statusRecorder struct {
	status int
}

// statusTransport records error statuses so they surface as typed errors.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if rec, ok := r.Context().Value(statusKey{}).(*statusRecorder); ok {
			rec.status = resp.StatusCode
		}
	}
	return resp, nil
}

// stripThinking drops a <think>...</think> block some local models emit.
func stripThinking(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return s[:start] + s[end+len("</think>"):]
}
