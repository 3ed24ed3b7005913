package llm

import (
	"sort"
	"strings"
	"sync"
)

// TokenParam is the request field carrying the output token budget.
type TokenParam string

const (
	TokenParamMaxTokens           TokenParam = "max_tokens"
	TokenParamMaxCompletionTokens TokenParam = "max_completion_tokens"
)

// ModelCapabilities describes what a chat model accepts.
type ModelCapabilities struct {
	SupportsTemperature bool
	TokenParam          TokenParam
}

var (
	legacyCapabilities = ModelCapabilities{SupportsTemperature: true, TokenParam: TokenParamMaxTokens}
	modernCapabilities = ModelCapabilities{SupportsTemperature: false, TokenParam: TokenParamMaxCompletionTokens}
)

// CapabilityTable resolves a model name: exact match first, then the
// longest registered family prefix, then the fallback.
type CapabilityTable struct {
	mu       sync.RWMutex
	exact    map[string]ModelCapabilities
	families map[string]ModelCapabilities
	prefixes []string
	fallback ModelCapabilities
}

// NewCapabilityTable returns an empty table with the given fallback.
func NewCapabilityTable(fallback ModelCapabilities) *CapabilityTable {
	return &CapabilityTable{
		exact:    make(map[string]ModelCapabilities),
		families: make(map[string]ModelCapabilities),
		fallback: fallback,
	}
}

// DefaultCapabilities knows the legacy allowlist. Anything not listed is
// treated as a newer model: no temperature, max_completion_tokens.
func DefaultCapabilities() *CapabilityTable {
	t := NewCapabilityTable(modernCapabilities)
	for _, m := range []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-4", "gpt-3.5-turbo"} {
		t.Register(m, legacyCapabilities)
	}
	// dated snapshots of the legacy models
	for _, f := range []string{"gpt-4o-", "gpt-4o-mini-", "gpt-4-turbo-", "gpt-4-0", "gpt-3.5-turbo-"} {
		t.RegisterFamily(f, legacyCapabilities)
	}
	for _, f := range []string{"gpt-5", "o1", "o3", "o4"} {
		t.RegisterFamily(f, modernCapabilities)
	}
	return t
}

// Register sets the capabilities of one exact model name.
func (t *CapabilityTable) Register(model string, caps ModelCapabilities) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exact[strings.ToLower(model)] = caps
}

// RegisterFamily sets the capabilities of every model starting with prefix.
func (t *CapabilityTable) RegisterFamily(prefix string, caps ModelCapabilities) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix = strings.ToLower(prefix)
	if _, ok := t.families[prefix]; !ok {
		t.prefixes = append(t.prefixes, prefix)
		sort.Slice(t.prefixes, func(i, j int) bool { return len(t.prefixes[i]) > len(t.prefixes[j]) })
	}
	t.families[prefix] = caps
}

// Lookup returns the capabilities for model.
func (t *CapabilityTable) Lookup(model string) ModelCapabilities {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := strings.ToLower(strings.TrimSpace(model))
	if caps, ok := t.exact[m]; ok {
		return caps
	}
	for _, p := range t.prefixes {
		if strings.HasPrefix(m, p) {
			return t.families[p]
		}
	}
	return t.fallback
}
