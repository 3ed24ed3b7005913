package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"psychoreport/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements domain.CompletionClient with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client. endpoint may be empty.
func NewGeminiClient(ctx context.Context, apiKey, endpoint string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := c.client.GenerativeModel(req.Model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	if req.Temperature != nil {
		model.SetTemperature(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", mapGeminiError(err)
	}
	return geminiText(resp)
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", domain.ErrCompletionMalformed
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", domain.ErrCompletionMalformed
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", domain.ErrCompletionMalformed
	}
	return text, nil
}

type httpCoder interface {
	HTTPCode() int
}

func mapGeminiError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code != 0 {
		return &domain.ErrCompletionHTTP{Status: gErr.Code, Message: gErr.Message}
	}
	var coder httpCoder
	if errors.As(err, &coder) && coder.HTTPCode() > 0 {
		return &domain.ErrCompletionHTTP{Status: coder.HTTPCode(), Message: err.Error()}
	}
	return fmt.Errorf("gemini generate: %w", err)
}
