package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestFixedWindow_Allow(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	rl := newFixedWindowLimiter(3, 10*time.Second, c.now)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.2.3.4")
		assert.True(t, ok, "request %d", i)
	}

	c.advance(4 * time.Second)
	ok, retry := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 6*time.Second, retry)

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "other clients have their own window")

	c.advance(6 * time.Second)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window reset")
}

func TestFixedWindow_Sweep(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	rl := newFixedWindowLimiter(1, time.Second, c.now)

	rl.Allow("a")
	c.advance(500 * time.Millisecond)
	rl.Allow("b")
	c.advance(600 * time.Millisecond)

	rl.sweep()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestFixedWindow_Concurrent(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	rl := newFixedWindowLimiter(50, time.Minute, c.now)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestStop_Idempotent(t *testing.T) {
	rl := NewFixedWindowLimiter(1, time.Hour)
	rl.Stop()
	rl.Stop()
}
