// Package scheduler runs the periodic cache reconciliation.
//
// A flush failure stops the scheduler and is returned to the caller,
// which is expected to treat it as fatal. Contention can optionally be
// tolerated; poisoning and write failures never are.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/log"
)

// Flusher is implemented by *cache.Store.
type Flusher interface {
	Flush() error
}

// Scheduler calls Flush at a fixed interval.
type Scheduler struct {
	flusher            Flusher
	interval           time.Duration
	tolerateContention bool
	logger             *log.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// TolerateContention makes a tick that failed with cache.ErrWouldBlock
// log and wait for the next tick instead of stopping.
func TolerateContention(tolerate bool) Option {
	return func(s *Scheduler) { s.tolerateContention = tolerate }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a scheduler. The interval must be positive.
func New(f Flusher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("flush interval must be positive, got %s", interval)
	}
	s := &Scheduler{flusher: f, interval: interval, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run flushes every interval until ctx is done or a flush fails. It
// returns nil on cancellation and the flush error otherwise.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("flush scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("flush scheduler stopped")
			return nil
		case <-ticker.C:
		}

		err := s.flusher.Flush()
		if err == nil {
			continue
		}
		if s.tolerateContention && errors.Is(err, cache.ErrWouldBlock) {
			s.logger.Printf("flush skipped: %v\n", err)
			continue
		}
		return fmt.Errorf("flush: %w", err)
	}
}

// FlushWithRetry runs one flush, retrying cache.ErrWouldBlock up to
// attempts times with delay between tries. Used for the final flush on
// shutdown, when in-flight requests may still hold the lock.
func FlushWithRetry(ctx context.Context, f Flusher, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if err = f.Flush(); !errors.Is(err, cache.ErrWouldBlock) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}
	return err
}
