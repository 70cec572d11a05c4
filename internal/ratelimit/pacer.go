package ratelimit

import (
	"context"
	"time"

	"github.com/pybossa/pbs/pkg/pbs"
)

// Prober reports the server's rate-limit state for an endpoint path.
type Prober interface {
	RateLimit(ctx context.Context, path string) (pbs.RateLimit, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer probes an endpoint before each call and pauses when the server's
// remaining budget runs low.
//
// Like the With* helpers below, a Pacer is never mutated after construction,
// so one value may be shared by sequential callers.
type Pacer struct {
	prober     Prober
	logger     pbs.Logger
	now        func() time.Time
	sleep      SleepFunc
	onThrottle func(remaining int, delay time.Duration)
}

// NewPacer creates a Pacer using the wall clock and a context-aware timer.
// Panics if prober or logger is nil.
func NewPacer(prober Prober, logger pbs.Logger) *Pacer {
	if prober == nil {
		panic("prober cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Pacer{
		prober: prober,
		logger: logger,
		now:    time.Now,
		sleep:  Sleep,
	}
}

// WithClock returns a copy of the Pacer that reads the time from now.
func (p *Pacer) WithClock(now func() time.Time) *Pacer {
	clone := *p
	clone.now = now
	return &clone
}

// WithSleep returns a copy of the Pacer that pauses with sleep.
func (p *Pacer) WithSleep(sleep SleepFunc) *Pacer {
	clone := *p
	clone.sleep = sleep
	return &clone
}

// WithOnThrottle returns a copy of the Pacer that calls callback before every pause.
func (p *Pacer) WithOnThrottle(callback func(remaining int, delay time.Duration)) *Pacer {
	clone := *p
	clone.onThrottle = callback
	return &clone
}

// Wait probes path and pauses when the remaining budget is at or below the
// low-water mark. A failed probe is returned unchanged.
func (p *Pacer) Wait(ctx context.Context, path string) error {
	rl, err := p.prober.RateLimit(ctx, path)
	if err != nil {
		return err
	}

	delay, msg := Evaluate(rl, p.now())
	if msg == "" {
		return nil
	}

	p.logger.Info("%s", msg)
	if p.onThrottle != nil {
		p.onThrottle(rl.Remaining, delay)
	}
	if delay <= 0 {
		return nil
	}
	p.logger.Verbose("Pausing %s until the rate limit resets", delay.Round(time.Millisecond))
	return p.sleep(ctx, delay)
}

// Sleep waits for d, returning ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
