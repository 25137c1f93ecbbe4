package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Burst(t *testing.T) {
	l := New(Config{RequestsPerSecond: 1, BurstSize: 2})

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestLimiter_Unlimited(t *testing.T) {
	l := New(Config{})
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow())
	}
}

func TestLimiter_Backoff(t *testing.T) {
	l := New(Config{})
	l.Backoff(time.Hour)
	assert.False(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestLimiter_Wait(t *testing.T) {
	l := New(DefaultOllama)
	require.NoError(t, l.Wait(context.Background()))
}
