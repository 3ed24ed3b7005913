package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"psychoreport/internal/cache"
	"psychoreport/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var analysisKey = cache.AnalysisKey(string(domain.AnalysisReliabilityReport), "user-1", "exam-1")

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(analysisKey).SetVal(`{"id":"01"}`)
		val, err := adapter.Get(ctx, analysisKey)
		assert.NoError(t, err)
		assert.Equal(t, `{"id":"01"}`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(analysisKey).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, analysisKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(analysisKey).SetErr(redisErr)
		_, err := adapter.Get(ctx, analysisKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	ttl := 720 * time.Hour

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(analysisKey, "payload", ttl).SetVal("OK")
		assert.NoError(t, adapter.Set(ctx, analysisKey, "payload", ttl))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("OOM")
		mock.ExpectSet(analysisKey, "payload", ttl).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Set(ctx, analysisKey, "payload", ttl), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Deleted", func(t *testing.T) {
		mock.ExpectDel(analysisKey).SetVal(1)
		assert.NoError(t, adapter.Delete(ctx, analysisKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeyNotFound", func(t *testing.T) {
		mock.ExpectDel(analysisKey).SetVal(0)
		assert.NoError(t, adapter.Delete(ctx, analysisKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("READONLY")
		mock.ExpectDel(analysisKey).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Delete(ctx, analysisKey), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	redisErr := errors.New("down")
	mock.ExpectPing().SetErr(redisErr)
	assert.ErrorIs(t, adapter.Ping(ctx), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
