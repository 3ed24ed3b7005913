package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AnalysisType identifies which narrative a cache entry holds.
type AnalysisType string

const (
	AnalysisReliabilityReport   AnalysisType = "reliability_report"
	AnalysisOceanReport         AnalysisType = "ocean_report"
	AnalysisOceanInterpretation AnalysisType = "ocean_interpretation"
)

// AnalysisPhase selects the prompt pair used for a completion call.
type AnalysisPhase string

const (
	PhaseAnalysis    AnalysisPhase = "analysis"
	PhaseConclusions AnalysisPhase = "conclusions"
)

// Narrative is the output of the generator. Nil parts mean unavailable.
type Narrative struct {
	Analysis    *string `json:"analysis"`
	Conclusions *string `json:"conclusions"`
}

// Empty reports whether nothing was generated.
func (n *Narrative) Empty() bool {
	return n == nil || (n.Analysis == nil && n.Conclusions == nil)
}

// AnalysisPayload is what gets cached for a narrative.
type AnalysisPayload struct {
	Analysis    *string           `json:"analysis"`
	Conclusions *string           `json:"conclusions"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// AnalysisCacheKey addresses the active entry of one (user, scope, type).
type AnalysisCacheKey struct {
	UserID      string
	ScopeID     *string
	Type        AnalysisType
	Fingerprint string
}

// Scope returns the scope id or an empty string.
func (k AnalysisCacheKey) Scope() string {
	if k.ScopeID == nil {
		return ""
	}
	return *k.ScopeID
}

// AnalysisCacheEntry is a stored narrative. At most one entry per
// (UserID, ScopeID, Type) is active.
type AnalysisCacheEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ScopeID     *string         `json:"scopeId,omitempty"`
	Type        AnalysisType    `json:"analysisType"`
	Fingerprint string          `json:"inputFingerprint"`
	Payload     AnalysisPayload `json:"payload"`
	GeneratedAt time.Time       `json:"generatedAt"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	IsActive    bool            `json:"isActive"`
	Version     int             `json:"version"`
}

// Fresh reports whether the entry can serve a lookup at now.
func (e *AnalysisCacheEntry) Fresh(fingerprint string, maxAge time.Duration, now time.Time) bool {
	if e == nil || !e.IsActive || e.Fingerprint != fingerprint {
		return false
	}
	if !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt) {
		return false
	}
	if maxAge > 0 && now.Sub(e.GeneratedAt) > maxAge {
		return false
	}
	return true
}

// CompletionRequest is a single chat completion.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64
	MaxTokens    int
}

// CompletionClient calls an external language model.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ErrCompletionMalformed is returned when the response has no usable content.
var ErrCompletionMalformed = errors.New("completion response has no choices")

// ErrCompletionHTTP is returned for non-2xx responses from the provider.
type ErrCompletionHTTP struct {
	Status  int
	Message string
}

func (e *ErrCompletionHTTP) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion API returned status %d", e.Status)
	}
	return fmt.Sprintf("completion API returned status %d: %s", e.Status, e.Message)
}

// Transient reports whether the status is worth one retry.
func (e *ErrCompletionHTTP) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}
