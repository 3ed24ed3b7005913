package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"psychoreport/internal/config"
	"psychoreport/internal/domain"
	"psychoreport/internal/logger"

	"github.com/stretchr/testify/mock"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- MockExamAttemptRepository ---
type MockExamAttemptRepository struct {
	mock.Mock
}

func (m *MockExamAttemptRepository) GetByID(ctx context.Context, id string) (*domain.ExamAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExamAttempt), args.Error(1)
}

func (m *MockExamAttemptRepository) UpdateRiskAnalysis(ctx context.Context, id string, analysis []byte) error {
	args := m.Called(ctx, id, analysis)
	return args.Error(0)
}

// --- MockPersonalityResultRepository ---
type MockPersonalityResultRepository struct {
	mock.Mock
}

func (m *MockPersonalityResultRepository) GetByID(ctx context.Context, id string) (*domain.PersonalityResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonalityResult), args.Error(1)
}

func (m *MockPersonalityResultRepository) UpdateAIInterpretation(ctx context.Context, id string, interpretation []byte) error {
	args := m.Called(ctx, id, interpretation)
	return args.Error(0)
}

// --- MockReportConfigRepository ---
type MockReportConfigRepository struct {
	mock.Mock
}

func (m *MockReportConfigRepository) GetByExamID(ctx context.Context, examID string) (*domain.ReportConfig, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportConfig), args.Error(1)
}

// --- MockAIPromptConfigRepository ---
type MockAIPromptConfigRepository struct {
	mock.Mock
}

func (m *MockAIPromptConfigRepository) GetPrompt(ctx context.Context, t domain.AnalysisType, phase domain.AnalysisPhase) (*domain.AIPromptConfig, error) {
	args := m.Called(ctx, t, phase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AIPromptConfig), args.Error(1)
}

// --- MockCompletionClient ---
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- MockPersonalAdjuster ---
type MockPersonalAdjuster struct {
	mock.Mock
}

func (m *MockPersonalAdjuster) Adjust(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdjustmentResult), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ domain.Cache                    = (*MockCache)(nil)
	_ domain.CompletionClient         = (*MockCompletionClient)(nil)
	_ domain.PersonalAdjuster         = (*MockPersonalAdjuster)(nil)
	_ domain.AIPromptConfigRepository = (*MockAIPromptConfigRepository)(nil)
)

// --- in-memory fakes for the analysis cache ---

// memoryCache is a domain.Cache backed by a map.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

// memoryAnalysisRepo keeps every inserted entry, like the table does.
type memoryAnalysisRepo struct {
	mu        sync.Mutex
	entries   []*domain.AnalysisCacheEntry
	findCalls int
	insertErr error
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *memoryAnalysisRepo) FindActive(_ context.Context, userID string, scopeID *string, t domain.AnalysisType) (*domain.AnalysisCacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.IsActive && e.UserID == userID && e.Type == t && sameScope(e.ScopeID, scopeID) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryAnalysisRepo) Deactivate(_ context.Context, userID string, scopeID *string, t domain.AnalysisType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.IsActive && e.UserID == userID && e.Type == t && sameScope(e.ScopeID, scopeID) {
			e.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *memoryAnalysisRepo) Insert(_ context.Context, entry *domain.AnalysisCacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memoryAnalysisRepo) active() []*domain.AnalysisCacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AnalysisCacheEntry
	for _, e := range r.entries {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out
}

// passthroughTx runs fn without a real transaction.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
