package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/repository"
)

// RevocationSweeper garbage-collects revocation records once the underlying
// token has passed its natural expiry. An expired token fails verification
// on its own and no longer needs an explicit revocation row.
type RevocationSweeper struct {
	revocations repository.RevocationRepository
	interval    time.Duration
	logger      *zap.Logger
}

// NewRevocationSweeper builds the sweeper.
func NewRevocationSweeper(revocations repository.RevocationRepository, interval time.Duration, logger *zap.Logger) *RevocationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RevocationSweeper{revocations: revocations, interval: interval, logger: logger}
}

// Run sweeps periodically until the context is cancelled.
func (s *RevocationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RevocationSweeper) sweep(ctx context.Context) {
	deleted, err := s.revocations.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Warn("revocation sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("revocation sweep", zap.Int64("deleted", deleted))
	}
}
