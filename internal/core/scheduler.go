package core

// scheduler.go runs background maintenance for the catalog.
//
// Currently this is import history retention: reports older than the
// retention window are deleted on a fixed interval. A failed run is logged
// and retried on the next tick; it never stops the server.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls import history pruning.
type RetentionConfig struct {
	Retention time.Duration // Age after which reports are deleted; 0 disables pruning
	Interval  time.Duration // How often to run (default: 24h)
}

// StartImportHistoryPruner blocks, pruning immediately and then every
// Interval, until ctx is cancelled. With Retention <= 0 it returns at once.
func (s *Service) StartImportHistoryPruner(ctx context.Context, cfg RetentionConfig) {
	if cfg.Retention <= 0 {
		slog.Info("import history pruning disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}

	slog.Info("import history pruner started",
		"retention", cfg.Retention.String(),
		"interval", cfg.Interval.String(),
	)

	s.pruneImportHistory(ctx, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("import history pruner stopped")
			return
		case <-ticker.C:
			s.pruneImportHistory(ctx, cfg.Retention)
		}
	}
}

// PruneImportHistory deletes import reports older than retention and
// returns how many were removed.
func (s *Service) PruneImportHistory(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, invalidf("retention must be positive")
	}
	n, err := s.store.DeleteImportRunsBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, classify("prune import history", err)
	}
	return n, nil
}

func (s *Service) pruneImportHistory(ctx context.Context, retention time.Duration) {
	start := time.Now()
	n, err := s.PruneImportHistory(ctx, retention)
	if err != nil {
		slog.Error("import history prune failed", "error", err)
		return
	}
	slog.Info("pruned import history",
		"runs_deleted", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
