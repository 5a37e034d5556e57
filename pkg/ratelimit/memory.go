package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-memory sliding-window rate limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  *Config
	stopCh  chan struct{}
	closed  bool
}

type window struct {
	requests []time.Time
}

// NewMemoryLimiter creates an in-memory rate limiter.
func NewMemoryLimiter(cfg *Config) *MemoryLimiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := &MemoryLimiter{
		windows: make(map[string]*window),
		config:  cfg,
		stopCh:  make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.AllowN(ctx, key, 1)
}

func (l *MemoryLimiter) AllowN(ctx context.Context, key string, n int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false, ErrLimiterClosed
	}

	w, ok := l.windows[key]
	if !ok {
		w = &window{requests: make([]time.Time, 0, l.config.Requests)}
		l.windows[key] = w
	}

	now := time.Now()
	windowStart := now.Add(-l.config.Window)

	valid := w.requests[:0]
	for _, t := range w.requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	w.requests = valid

	if len(w.requests)+n <= l.config.Requests {
		for i := 0; i < n; i++ {
			w.requests = append(w.requests, now)
		}
		return true, nil
	}

	return false, nil
}

func (l *MemoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

func (l *MemoryLimiter) GetInfo(ctx context.Context, key string) (*LimitInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info := &LimitInfo{
		Limit:     l.config.Requests,
		Remaining: l.config.Requests,
		ResetAt:   time.Now().Add(l.config.Window),
	}

	w, ok := l.windows[key]
	if !ok {
		return info, nil
	}

	windowStart := time.Now().Add(-l.config.Window)
	count := 0
	for _, t := range w.requests {
		if t.After(windowStart) {
			count++
		}
	}

	info.Remaining = l.config.Requests - count
	if info.Remaining < 0 {
		info.Remaining = 0
	}

	return info, nil
}

func (l *MemoryLimiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	close(l.stopCh)
	l.windows = nil

	return nil
}

func (l *MemoryLimiter) cleanupLoop() {
	interval := l.config.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// keep 2x window of history so GetInfo stays accurate around the edge
	windowStart := time.Now().Add(-l.config.Window * 2)

	for key, w := range l.windows {
		valid := w.requests[:0]
		for _, t := range w.requests {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		w.requests = valid

		if len(w.requests) == 0 {
			delete(l.windows, key)
		}
	}
}
