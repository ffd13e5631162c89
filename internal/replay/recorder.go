package replay

import (
	"sort"
	"time"
)

// Recorder turns a live key stream into a Script.
// Times are offsets from the start of the run.
type Recorder struct {
	held  map[string]bool
	steps []Step
	last  time.Duration
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{held: make(map[string]bool)}
}

// KeyDown records a press at t.
func (r *Recorder) KeyDown(t time.Duration, key string) {
	k := normalizeKeys([]string{key})
	if len(k) == 0 || r.held[k[0]] {
		return
	}
	r.cut(t)
	r.held[k[0]] = true
}

// KeyUp records a release at t.
func (r *Recorder) KeyUp(t time.Duration, key string) {
	k := normalizeKeys([]string{key})
	if len(k) == 0 || !r.held[k[0]] {
		return
	}
	r.cut(t)
	delete(r.held, k[0])
}

// Script closes the recording at end and returns it.
func (r *Recorder) Script(end time.Duration) Script {
	r.cut(end)
	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return Script{Steps: steps}
}

// cut ends the current step at t.
func (r *Recorder) cut(t time.Duration) {
	if t <= r.last {
		return
	}
	keys := make([]string, 0, len(r.held))
	for k := range r.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := t - r.last
	r.last = t
	if n := len(r.steps); n > 0 && sameKeys(r.steps[n-1].Keys, keys) {
		r.steps[n-1].Duration += d
		return
	}
	if len(keys) == 0 {
		keys = nil
	}
	r.steps = append(r.steps, Step{Keys: keys, Duration: d})
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
