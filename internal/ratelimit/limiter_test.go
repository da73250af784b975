package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BudgetPerKey(t *testing.T) {
	limiter := NewMemoryLimiter(time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be within budget", i+1)
	}

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "attempt over budget must be denied")

	// A different origin has its own budget.
	ok, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	limiter := NewMemoryLimiter(30*time.Millisecond, 1)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)

	time.Sleep(40 * time.Millisecond)

	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "budget resets after the window passes")
}

func TestMemoryLimiter_DefaultsOnZeroConfig(t *testing.T) {
	limiter := NewMemoryLimiter(0, 0)

	ok, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}
