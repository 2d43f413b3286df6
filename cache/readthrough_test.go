package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Names []string `json:"names"`
}

func TestWithCacheMissThenHit(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (listing, error) {
		calls++
		return listing{Names: []string{"plumbing", "cleaning"}}, nil
	}

	val, fromCache, err := WithCache(ctx, store, "services:list", time.Minute, compute)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []string{"plumbing", "cleaning"}, val.Names)

	val, fromCache, err = WithCache(ctx, store, "services:list", time.Minute, compute)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, []string{"plumbing", "cleaning"}, val.Names)
	assert.Equal(t, 1, calls)
}

func TestWithCacheRecomputesAfterInvalidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (listing, error) {
		calls++
		return listing{}, nil
	}

	_, _, err := WithCache(ctx, store, "services:list", time.Minute, compute)
	require.NoError(t, err)

	store.Invalidate(ctx, "services:")

	_, fromCache, err := WithCache(ctx, store, "services:list", time.Minute, compute)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, calls)
}

func TestWithCacheFallsBackWhenStoreDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	val, fromCache, err := WithCache(context.Background(), store, "k", time.Minute, func(context.Context) (listing, error) {
		return listing{Names: []string{"fresh"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []string{"fresh"}, val.Names)
}

func TestWithCachePropagatesComputeError(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := WithCache(context.Background(), store, "k", time.Minute, func(context.Context) (listing, error) {
		return listing{}, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWithCacheDropsCorruptEntry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("{not json"), time.Minute))

	val, fromCache, err := WithCache(ctx, store, "k", time.Minute, func(context.Context) (listing, error) {
		return listing{Names: []string{"recovered"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []string{"recovered"}, val.Names)
}
