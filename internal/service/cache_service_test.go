package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceDisabled(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())

	hit, err := nilCache.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, nilCache.Invalidate(context.Background(), "*"))

	off := NewCacheService(newFakeCacheRepo(), nil, 0, nil, false)
	require.NoError(t, off.Set(context.Background(), "k", 1, 0))
	hit, err = off.Get(context.Background(), "k", new(int))
	assert.False(t, hit)
	assert.NoError(t, err)
}

func TestCacheServiceHitMissMetrics(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(newFakeCacheRepo(), metrics, time.Minute, nil, true)

	var value int
	hit, err := cache.Get(context.Background(), "answer", &value)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(context.Background(), "answer", 42, 0))
	hit, err = cache.Get(context.Background(), "answer", &value)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, value)

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 1, snapshot.CacheHits)
	assert.EqualValues(t, 1, snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceErrorsAreReturned(t *testing.T) {
	cache := NewCacheService(brokenCacheRepo{}, nil, 0, nil, true)

	hit, err := cache.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), "k", 1, 0))
	assert.Error(t, cache.Invalidate(context.Background(), "*"))
}

func TestCacheServiceGenerationAdvancesOnInvalidate(t *testing.T) {
	var nilCache *CacheService
	assert.Zero(t, nilCache.Generation())

	cache := NewCacheService(newFakeCacheRepo(), nil, 0, nil, true)
	assert.Zero(t, cache.Generation())
	cache.invalidateDashboard(context.Background())
	cache.invalidateDashboard(context.Background())
	assert.EqualValues(t, 2, cache.Generation())
	assert.Equal(t, "dash:summary:2", dashboardKey(cache.Generation()))

	broken := NewCacheService(brokenCacheRepo{}, nil, 0, nil, true)
	assert.Error(t, broken.Invalidate(context.Background(), dashboardCachePattern))
	assert.EqualValues(t, 1, broken.Generation())
}
