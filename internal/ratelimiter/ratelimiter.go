// Package ratelimiter spaces out outbound calls that share a key.
package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const queueSize = 1000

var ErrStopped = errors.New("rate limiter is stopped")

type request struct {
	ctx      context.Context
	key      string
	call     func() error
	response chan error
}

// RateLimiter runs queued calls one at a time, keeping at least interval
// between two calls with the same key.
type RateLimiter struct {
	interval time.Duration
	queue    chan request
	lastCall map[string]time.Time
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	log      *slog.Logger
}

func New(interval time.Duration, log *slog.Logger) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())

	rl := &RateLimiter{
		interval: interval,
		queue:    make(chan request, queueSize),
		lastCall: make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}

	go rl.processQueue()

	return rl
}

// Do waits for key's turn and runs call. It returns call's error, or the
// context error if ctx ends before call starts.
func (rl *RateLimiter) Do(ctx context.Context, key string, call func() error) error {
	req := request{
		ctx:      ctx,
		key:      key,
		call:     call,
		response: make(chan error, 1),
	}

	select {
	case rl.queue <- req:
		select {
		case err := <-req.response:
			return err
		case <-rl.ctx.Done():
			return ErrStopped
		}
	case <-rl.ctx.Done():
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (rl *RateLimiter) Stop() {
	rl.cancel()
}

func (rl *RateLimiter) processQueue() {
	for {
		select {
		case req := <-rl.queue:
			rl.handleRequest(req)
		case <-rl.ctx.Done():
			for {
				select {
				case req := <-rl.queue:
					req.response <- ErrStopped
				default:
					return
				}
			}
		}
	}
}

func (rl *RateLimiter) handleRequest(req request) {
	rl.mu.Lock()
	last, exists := rl.lastCall[req.key]
	rl.mu.Unlock()

	if exists {
		if delay := max(rl.interval-time.Since(last), 0); delay > 0 {
			rl.log.DebugContext(req.ctx, "Rate limiting call",
				"key", req.key,
				"delay", delay,
				"queueLen", len(rl.queue))

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.ctx.Done():
				timer.Stop()
				req.response <- req.ctx.Err()

				return
			case <-rl.ctx.Done():
				timer.Stop()
				req.response <- ErrStopped

				return
			}
		}
	}

	err := req.call()

	rl.mu.Lock()
	rl.lastCall[req.key] = time.Now()
	rl.mu.Unlock()

	req.response <- err
}
