package ratelimiter

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	rl := newFixedWindowLimiter(limit, w, time.Now)
	go rl.cleanup()
	return rl
}

func newFixedWindowLimiter(limit int, w time.Duration, now func() time.Time) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     now,
		stop:    make(chan struct{}),
	}
}

func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.Lock()
	defer rl.Unlock()

	win, ok := rl.clients[key]
	if !ok || now.Sub(win.start) >= rl.window {
		rl.clients[key] = &window{start: now, count: 1}
		return true, 0
	}
	if win.count < rl.limit {
		win.count++
		return true, 0
	}
	return false, win.start.Add(rl.window).Sub(now)
}

// Stop ends the background sweep.
func (rl *FixedWindowRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *FixedWindowRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep forgets clients whose window has ended.
func (rl *FixedWindowRateLimiter) sweep() {
	now := rl.now()
	rl.Lock()
	defer rl.Unlock()
	for key, win := range rl.clients {
		if now.Sub(win.start) >= rl.window {
			delete(rl.clients, key)
		}
	}
}
