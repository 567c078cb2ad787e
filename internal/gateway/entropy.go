package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RandomSource supplies uniformly distributed values in [0, 1)
type RandomSource interface {
	Float64() float64
}

// Clock supplies wall time and an interruptible delay
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a goroutine safe source. A zero seed is replaced
// with the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRandom{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the real time
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
