package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAllowsUnderLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	allowed, remaining, resetSeconds, err := s.Hit(ctx, []byte("k"), 3, 60)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
	assert.Greater(t, resetSeconds, 0)
}

func TestMemoryStoreDeniesOverLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := s.Hit(ctx, []byte("k"), 3, 60)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, _, err := s.Hit(ctx, []byte("k"), 3, 60)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestMemoryStoreBucketsAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, _, err := s.Hit(ctx, []byte("a"), 3, 60)
		require.NoError(t, err)
	}

	allowed, _, _, err := s.Hit(ctx, []byte("b"), 3, 60)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryStoreResetsAfterWindowExpires(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _, _, err := s.Hit(ctx, []byte("k"), 1, 0)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	allowed, _, _, err := s.Hit(ctx, []byte("k"), 1, 0)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDeriveResultClampsNegatives(t *testing.T) {
	now := time.Now()
	allowed, remaining, resetSeconds, err := deriveResult(5, 3, now.Add(-time.Second), now)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 0, resetSeconds)
}
