package testutil

import "sync"

// ScriptedRandom replays values in order and then repeats the fallback
type ScriptedRandom struct {
	mu       sync.Mutex
	values   []float64
	fallback float64
}

func NewScriptedRandom(fallback float64, values ...float64) *ScriptedRandom {
	return &ScriptedRandom{values: values, fallback: fallback}
}

func (r *ScriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 {
		return r.fallback
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}
