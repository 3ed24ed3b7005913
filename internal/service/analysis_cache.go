package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"psychoreport/internal/cache"
	"psychoreport/internal/config"
	"psychoreport/internal/domain"
	"psychoreport/internal/logger"
	"psychoreport/internal/metrics"
	"psychoreport/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultAnalysisMaxAge = 720 * time.Hour
	DefaultAnalysisTTL    = 720 * time.Hour
)

// GenerateFunc produces a fresh payload. A nil payload means nothing could
// be generated and is not cached.
type GenerateFunc func(ctx context.Context) (*domain.AnalysisPayload, error)

// GenerateOptions controls GetOrGenerate. Zero durations use the configured defaults.
type GenerateOptions struct {
	MaxAge time.Duration
	TTL    time.Duration
	Force  bool
}

// AnalysisCacheService stores AI narratives keyed by (user, scope, type) and
// an input fingerprint.
type AnalysisCacheService interface {
	// Lookup returns the active, fresh entry for key or domain.ErrCacheMiss.
	Lookup(ctx context.Context, key domain.AnalysisCacheKey, maxAge time.Duration) (*domain.AnalysisCacheEntry, error)
	// Store replaces the active entry in a single transaction.
	Store(ctx context.Context, key domain.AnalysisCacheKey, payload domain.AnalysisPayload, ttl time.Duration) (*domain.AnalysisCacheEntry, error)
	// GetOrGenerate serves from cache or calls generate and stores the result.
	// The bool result reports a cache hit.
	GetOrGenerate(ctx context.Context, key domain.AnalysisCacheKey, opts GenerateOptions, generate GenerateFunc) (*domain.AnalysisPayload, bool, error)
	Invalidate(ctx context.Context, userID string, scopeID *string, analysisType domain.AnalysisType) error
}

type analysisCacheServiceImpl struct {
	repo    domain.AnalysisCacheRepository
	tx      domain.TransactionManager
	cache   domain.Cache
	metrics *metrics.Metrics
	group   singleflight.Group
	maxAge  time.Duration
	ttl     time.Duration
	now     func() time.Time
}

// NewAnalysisCacheService creates the service. cache may be nil, in which
// case only the database is used.
func NewAnalysisCacheService(repo domain.AnalysisCacheRepository, tx domain.TransactionManager, c domain.Cache, cfg config.AnalysisConfig, m *metrics.Metrics) AnalysisCacheService {
	s := &analysisCacheServiceImpl{
		repo:    repo,
		tx:      tx,
		cache:   c,
		metrics: m,
		maxAge:  cfg.CacheMaxAge,
		ttl:     cfg.CacheTTL,
		now:     time.Now,
	}
	if s.maxAge <= 0 {
		s.maxAge = DefaultAnalysisMaxAge
	}
	if s.ttl <= 0 {
		s.ttl = DefaultAnalysisTTL
	}
	return s
}

func frontKey(userID string, scopeID *string, analysisType domain.AnalysisType) string {
	scope := ""
	if scopeID != nil {
		scope = *scopeID
	}
	return cache.AnalysisKey(string(analysisType), userID, scope)
}

func (s *analysisCacheServiceImpl) Lookup(ctx context.Context, key domain.AnalysisCacheKey, maxAge time.Duration) (*domain.AnalysisCacheEntry, error) {
	if maxAge <= 0 {
		maxAge = s.maxAge
	}
	now := s.now()
	redisKey := frontKey(key.UserID, key.ScopeID, key.Type)

	if entry := s.readFront(ctx, redisKey); entry != nil && entry.Fresh(key.Fingerprint, maxAge, now) {
		s.metrics.CacheLookup(string(key.Type), metrics.CacheHit)
		logger.Get().Debug("AnalysisCacheService: front cache hit", zap.String("key", redisKey), zap.String("entryID", entry.ID))
		return entry, nil
	}

	entry, err := s.repo.FindActive(ctx, key.UserID, key.ScopeID, key.Type)
	if err != nil {
		return nil, fmt.Errorf("analysis cache lookup: %w", err)
	}
	if entry == nil {
		s.metrics.CacheLookup(string(key.Type), metrics.CacheMiss)
		return nil, domain.ErrCacheMiss
	}
	if !entry.Fresh(key.Fingerprint, maxAge, now) {
		s.metrics.CacheLookup(string(key.Type), metrics.CacheStale)
		logger.Get().Debug("AnalysisCacheService: active entry is stale",
			zap.String("entryID", entry.ID),
			zap.Bool("fingerprintMatch", entry.Fingerprint == key.Fingerprint),
			zap.Time("generatedAt", entry.GeneratedAt))
		return nil, domain.ErrCacheMiss
	}

	s.metrics.CacheLookup(string(key.Type), metrics.CacheHit)
	s.writeFront(ctx, redisKey, entry, now)
	return entry, nil
}

func (s *analysisCacheServiceImpl) Store(ctx context.Context, key domain.AnalysisCacheKey, payload domain.AnalysisPayload, ttl time.Duration) (*domain.AnalysisCacheEntry, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	redisKey := frontKey(key.UserID, key.ScopeID, key.Type)
	s.deleteFront(ctx, redisKey)

	now := s.now()
	entry := &domain.AnalysisCacheEntry{
		ID:          util.NewULID(),
		UserID:      key.UserID,
		ScopeID:     key.ScopeID,
		Type:        key.Type,
		Fingerprint: key.Fingerprint,
		Payload:     payload,
		GeneratedAt: now,
		ExpiresAt:   now.Add(ttl),
		IsActive:    true,
		Version:     1,
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		prev, err := s.repo.FindActive(txCtx, key.UserID, key.ScopeID, key.Type)
		if err != nil {
			return err
		}
		if prev != nil {
			entry.Version = prev.Version + 1
		}
		if _, err := s.repo.Deactivate(txCtx, key.UserID, key.ScopeID, key.Type); err != nil {
			return err
		}
		return s.repo.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("analysis cache store: %w", err)
	}

	s.writeFront(ctx, redisKey, entry, now)
	logger.Get().Info("AnalysisCacheService: stored analysis",
		zap.String("entryID", entry.ID),
		zap.String("userID", key.UserID),
		zap.String("type", string(key.Type)),
		zap.Int("version", entry.Version))
	return entry, nil
}

func (s *analysisCacheServiceImpl) Invalidate(ctx context.Context, userID string, scopeID *string, analysisType domain.AnalysisType) error {
	s.deleteFront(ctx, frontKey(userID, scopeID, analysisType))
	n, err := s.repo.Deactivate(ctx, userID, scopeID, analysisType)
	if err != nil {
		return fmt.Errorf("analysis cache invalidate: %w", err)
	}
	logger.Get().Debug("AnalysisCacheService: invalidated entries", zap.String("userID", userID), zap.String("type", string(analysisType)), zap.Int64("rows", n))
	return nil
}

func (s *analysisCacheServiceImpl) GetOrGenerate(ctx context.Context, key domain.AnalysisCacheKey, opts GenerateOptions, generate GenerateFunc) (*domain.AnalysisPayload, bool, error) {
	if opts.Force {
		if err := s.Invalidate(ctx, key.UserID, key.ScopeID, key.Type); err != nil {
			logger.Get().Warn("AnalysisCacheService: invalidate before regeneration failed", zap.Error(err))
		}
	} else {
		entry, err := s.Lookup(ctx, key, opts.MaxAge)
		switch {
		case err == nil:
			payload := entry.Payload
			return &payload, true, nil
		case errors.Is(err, domain.ErrCacheMiss):
		default:
			logger.Get().Warn("AnalysisCacheService: lookup failed, generating fresh analysis", zap.Error(err))
		}
	}

	flightKey := string(key.Type) + "|" + key.UserID + "|" + key.Scope() + "|" + key.Fingerprint
	v, err, shared := s.group.Do(flightKey, func() (interface{}, error) {
		// callers share this flight; one of them going away must not cancel it
		ctx := context.WithoutCancel(ctx)
		payload, err := generate(ctx)
		if err != nil {
			return nil, err
		}
		if payload == nil || (payload.Analysis == nil && payload.Conclusions == nil) {
			return nil, nil
		}
		if _, err := s.Store(ctx, key, *payload, opts.TTL); err != nil {
			// the narrative is still returned
			logger.Get().Error("AnalysisCacheService: failed to store analysis", zap.Error(err), zap.String("userID", key.UserID))
		}
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		logger.Get().Debug("AnalysisCacheService: shared in-flight generation", zap.String("key", flightKey))
	}
	payload, _ := v.(*domain.AnalysisPayload)
	return payload, false, nil
}

func (s *analysisCacheServiceImpl) readFront(ctx context.Context, key string) *domain.AnalysisCacheEntry {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("AnalysisCacheService: front cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil
	}
	var entry domain.AnalysisCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logger.Get().Warn("AnalysisCacheService: discarding undecodable front cache entry", zap.Error(err), zap.String("key", key))
		return nil
	}
	return &entry
}

func (s *analysisCacheServiceImpl) writeFront(ctx context.Context, key string, entry *domain.AnalysisCacheEntry, now time.Time) {
	if s.cache == nil {
		return
	}
	remaining := entry.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return
	}
	b, err := json.Marshal(entry)
	if err != nil {
		logger.Get().Warn("AnalysisCacheService: failed to encode entry for front cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(b), remaining); err != nil {
		logger.Get().Warn("AnalysisCacheService: front cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func (s *analysisCacheServiceImpl) deleteFront(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("AnalysisCacheService: front cache delete failed", zap.Error(err), zap.String("key", key))
	}
}
