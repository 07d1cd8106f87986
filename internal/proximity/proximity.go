// Package proximity stands in for the badge radio that looks for last
// year's badge.
package proximity

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Scanner reports a configurable answer after a scan window.
type Scanner struct {
	nearby atomic.Bool
	window time.Duration
	logger *slog.Logger
}

func New(nearby bool, window time.Duration, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{window: window, logger: logger}
	s.nearby.Store(nearby)
	return s
}

// SetNearby changes what the next scan finds.
func (s *Scanner) SetNearby(v bool) { s.nearby.Store(v) }

// ScanForLegacyBadge waits out the scan window and reports whether a legacy
// badge was seen.
func (s *Scanner) ScanForLegacyBadge(ctx context.Context) (bool, error) {
	if s.window > 0 {
		t := time.NewTimer(s.window)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-t.C:
		}
	}
	found := s.nearby.Load()
	s.logger.Debug("legacy badge scan", "found", found, "window", s.window)
	return found, nil
}
