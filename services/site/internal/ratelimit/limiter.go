// Package ratelimit paces outbound calls to upstream APIs.
package ratelimit

import (
	"context"
	"time"
)

// Limiter hands out one slot per tick. A nil *Limiter never blocks.
type Limiter struct {
	t *time.Ticker
}

// NewRPS allows up to rps operations per second. rps <= 0 disables pacing.
func NewRPS(rps int) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{t: time.NewTicker(time.Second / time.Duration(rps))}
}

func (l *Limiter) Stop() {
	if l != nil && l.t != nil {
		l.t.Stop()
	}
}

func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.t == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.t.C:
		return nil
	}
}
