package rate

import (
	"context"
	"fmt"
	"time"
)

// Result reports one limiter decision. RetryAfterSec is only meaningful when
// Allowed is false.
type Result struct {
	Allowed       bool
	RetryAfterSec int64
}

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter is a fixed-window counter per client key. It is a defense-in-depth
// measure, not the sole abuse control, so consistency is best-effort.
type Limiter struct {
	store  WindowStore
	limit  int
	window time.Duration
}

func NewLimiter(store WindowStore, limit int, window time.Duration) *Limiter {
	if limit < 0 {
		limit = 0
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *Limiter) Check(ctx context.Context, clientKey string) (Result, error) {
	if clientKey == "" {
		return Result{}, fmt.Errorf("client key is required")
	}
	if l.store == nil {
		return Result{}, fmt.Errorf("rate limiter store is nil")
	}
	if l.limit == 0 {
		return Result{Allowed: true}, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, windowKey(clientKey), l.window)
	if err != nil {
		return Result{}, err
	}

	if count > int64(l.limit) {
		return Result{Allowed: false, RetryAfterSec: ceilSeconds(ttl)}, nil
	}

	return Result{Allowed: true}, nil
}

func windowKey(clientKey string) string {
	return "rate:generate:" + clientKey
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
