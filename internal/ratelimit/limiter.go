// Package ratelimit provides a shared sliding-window request limiter for
// outbound catalog-provider calls.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Default quota: 40 requests per rolling minute, swept every 30 seconds.
const (
	DefaultMaxRequests   = 40
	DefaultWindow        = time.Minute
	DefaultSweepInterval = 30 * time.Second
)

// Limiter tracks recent request instants in a sliding window and delays
// callers once the quota is reached. It never fails, only waits.
type Limiter struct {
	maxRequests int
	window      time.Duration
	logger      zerolog.Logger

	mu       sync.Mutex
	requests []time.Time

	scheduler gocron.Scheduler
}

// New creates a limiter allowing maxRequests per rolling window.
func New(maxRequests int, window time.Duration, logger zerolog.Logger) *Limiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		logger:      logger.With().Str("component", "rate-limiter").Logger(),
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// Acquire blocks until issuing one more request stays within the quota,
// then records the request instant. It returns early only when ctx is
// canceled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.pruneLocked(now)

		if len(l.requests) < l.maxRequests {
			l.requests = append(l.requests, now)
			l.mu.Unlock()
			return nil
		}

		// Quota reached: wait until the oldest recorded request leaves
		// the window, then re-check.
		oldest := l.requests[0]
		wait := l.window - now.Sub(oldest)
		l.mu.Unlock()

		l.logger.Debug().
			Dur("wait", wait).
			Int("limit", l.maxRequests).
			Msg("request quota reached, delaying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Len returns the number of request instants currently inside the window.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(time.Now())
	return len(l.requests)
}

// Sweep discards request instants older than the window. Acquire prunes on
// every call as well; the periodic sweep just keeps memory bounded between
// bursts.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(time.Now())
}

// StartSweeper schedules a background sweep at the given interval.
func (l *Limiter) StartSweeper(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(l.Sweep),
	); err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	s.Start()
	l.scheduler = s

	l.logger.Debug().Dur("interval", interval).Msg("sweep job started")
	return nil
}

// Close stops the background sweeper if one is running.
func (l *Limiter) Close() error {
	if l.scheduler == nil {
		return nil
	}
	return l.scheduler.Shutdown()
}

// pruneLocked drops entries older than the window. Caller holds l.mu.
// Insertion order is monotonic, so the slice stays sorted and we only
// need to find the first entry still inside the window.
func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	keep := 0
	for keep < len(l.requests) && !l.requests[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		l.requests = append(l.requests[:0], l.requests[keep:]...)
	}
}
