package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"psychoreport/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements domain.CompletionClient with the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	caps   *CapabilityTable
}

// NewOpenAIClient creates a client. baseURL may be empty for the public API.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client, caps *CapabilityTable) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if caps == nil {
		caps = DefaultCapabilities()
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), caps: caps}, nil
}

// BuildRequest shapes the chat payload for the model's capabilities.
func (c *OpenAIClient) BuildRequest(req domain.CompletionRequest) openai.ChatCompletionRequest {
	caps := c.caps.Lookup(req.Model)
	chat := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}
	if caps.SupportsTemperature && req.Temperature != nil {
		chat.Temperature = float32(*req.Temperature)
		if chat.Temperature == 0 {
			// the field is omitempty; zero would fall back to the API default of 1
			chat.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if req.MaxTokens > 0 {
		if caps.TokenParam == TokenParamMaxTokens {
			chat.MaxTokens = req.MaxTokens
		} else {
			chat.MaxCompletionTokens = req.MaxTokens
		}
	}
	return chat
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.BuildRequest(req))
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrCompletionMalformed
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", domain.ErrCompletionMalformed
	}
	return content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &domain.ErrCompletionHTTP{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &domain.ErrCompletionHTTP{Status: reqErr.HTTPStatusCode, Message: http.StatusText(reqErr.HTTPStatusCode)}
	}
	return fmt.Errorf("openai chat completion: %w", err)
}
