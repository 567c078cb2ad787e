package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manually driven gateway.Clock. Sleep returns immediately
// unless the clock is held, and never moves Now.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration
	hold  chan struct{}
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.slept += d
	hold := c.hold
	c.mu.Unlock()

	if hold == nil {
		return nil
	}

	select {
	case <-hold:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hold makes every Sleep block until the returned release func is called
// or the sleeper's context is done.
func (c *FakeClock) Hold() (release func()) {
	hold := make(chan struct{})
	c.mu.Lock()
	c.hold = hold
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.hold = nil
			c.mu.Unlock()
			close(hold)
		})
	}
}

// Slept is the total delay requested through Sleep
func (c *FakeClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}
