package adjustment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"psychoreport/internal/domain"
)

const maxResponseBytes = 1 << 20

// HTTPAdjuster calls the personal adjustment service over JSON/HTTP.
type HTTPAdjuster struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// New returns an HTTPAdjuster, or a no-op adjuster when url is empty.
func New(url string, timeout time.Duration, client *http.Client) domain.PersonalAdjuster {
	if url == "" {
		return noopAdjuster{}
	}
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPAdjuster{url: url, client: client, timeout: timeout}
}

func (a *HTTPAdjuster) Adjust(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode adjustment request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build adjustment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call adjustment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("adjustment service returned status %d", resp.StatusCode)
	}

	var result domain.AdjustmentResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode adjustment response: %w", err)
	}
	return &result, nil
}

type noopAdjuster struct{}

func (noopAdjuster) Adjust(context.Context, domain.AdjustmentRequest) (*domain.AdjustmentResult, error) {
	return nil, domain.ErrAdjustmentUnavailable
}
