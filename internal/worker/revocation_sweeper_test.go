package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func (m *memRevocations) Add(_ context.Context, token string, expiresAt time.Time, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = expiresAt
	return nil
}

func (m *memRevocations) Contains(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[token]
	return ok, nil
}

func (m *memRevocations) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for token, expiresAt := range m.entries {
		if expiresAt.Before(before) {
			delete(m.entries, token)
			deleted++
		}
	}
	return deleted, nil
}

func TestSweeper_RemovesOnlyExpiredRecords(t *testing.T) {
	repo := &memRevocations{entries: map[string]time.Time{
		"expired-token": time.Now().Add(-time.Hour),
		"live-token":    time.Now().Add(time.Hour),
	}}
	sweeper := NewRevocationSweeper(repo, time.Hour, zap.NewNop())

	sweeper.sweep(context.Background())

	gone, err := repo.Contains(context.Background(), "expired-token")
	require.NoError(t, err)
	assert.False(t, gone)

	kept, err := repo.Contains(context.Background(), "live-token")
	require.NoError(t, err)
	assert.True(t, kept, "a revocation must outlive its token's expiry window")
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	repo := &memRevocations{entries: map[string]time.Time{}}
	sweeper := NewRevocationSweeper(repo, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
