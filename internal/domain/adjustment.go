package domain

import (
	"context"
	"errors"
)

// ErrAdjustmentUnavailable is returned when no adjustment service is configured.
var ErrAdjustmentUnavailable = errors.New("personal adjustment service unavailable")

// Result types understood by the adjustment service.
const (
	AdjustmentResultReliability = "reliability"
	AdjustmentResultPersonality = "personality"
)

// AdjustmentRequest is sent to the personal adjustment service.
type AdjustmentRequest struct {
	SessionID           string             `json:"sessionId"`
	BaseScores          map[string]float64 `json:"baseScores"`
	ResultType          string             `json:"resultType"`
	AttemptID           string             `json:"attemptId,omitempty"`
	PersonalityResultID string             `json:"personalityResultId,omitempty"`
}

// AdjustmentResult is the service reply. Adjustment is the signed delta.
type AdjustmentResult struct {
	Success         bool               `json:"success"`
	AdjustedScores  map[string]float64 `json:"adjustedScores"`
	Adjustment      float64            `json:"adjustment"`
	PersonalFactors map[string]any     `json:"personalFactors"`
}

// PersonalAdjuster perturbs base scores using demographic factors.
type PersonalAdjuster interface {
	Adjust(ctx context.Context, req AdjustmentRequest) (*AdjustmentResult, error)
}
