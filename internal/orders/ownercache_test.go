package orders

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/authz"
)

type countingSource struct {
	info  authz.OwnerInfo
	err   error
	calls int
}

func (s *countingSource) OwnerInfo(context.Context, int64) (authz.OwnerInfo, error) {
	s.calls++
	if s.err != nil {
		return authz.OwnerInfo{}, s.err
	}
	return s.info, nil
}

func newTestCache(t *testing.T, source authz.OwnerInfoSource) (*OwnerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOwnerCache(client, source, 30*time.Second), mr
}

func TestOwnerCacheReadThrough(t *testing.T) {
	source := &countingSource{info: authz.OwnerInfo{OwnerID: 10, MerchantID: 2}}
	cache, _ := newTestCache(t, source)

	first, err := cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.OwnerID)
	assert.Equal(t, int64(2), first.MerchantID)
	assert.Equal(t, 1, source.calls)

	second, err := cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second read must be served from cache")
}

func TestOwnerCacheMissPropagatesError(t *testing.T) {
	source := &countingSource{err: authz.ErrNotFound}
	cache, mr := newTestCache(t, source)

	_, err := cache.OwnerInfo(context.Background(), 404)
	assert.ErrorIs(t, err, authz.ErrNotFound)
	assert.False(t, mr.Exists(ownerKey(404)), "failed lookups must not be cached")
}

func TestOwnerCacheInvalidate(t *testing.T) {
	source := &countingSource{info: authz.OwnerInfo{OwnerID: 10, MerchantID: 2}}
	cache, mr := newTestCache(t, source)

	_, err := cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(ownerKey(1)))

	cache.Invalidate(context.Background(), 1)
	assert.False(t, mr.Exists(ownerKey(1)))

	_, err = cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestOwnerCacheCorruptEntryRefills(t *testing.T) {
	source := &countingSource{info: authz.OwnerInfo{OwnerID: 10, MerchantID: 2}}
	cache, mr := newTestCache(t, source)
	require.NoError(t, mr.Set(ownerKey(1), "not json"))

	info, err := cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.OwnerID)
	assert.Equal(t, 1, source.calls)
}

func TestOwnerCacheEntryExpires(t *testing.T) {
	source := &countingSource{info: authz.OwnerInfo{OwnerID: 10, MerchantID: 2}}
	cache, mr := newTestCache(t, source)

	_, err := cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)

	mr.FastForward(time.Minute)

	_, err = cache.OwnerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
