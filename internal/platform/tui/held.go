package tui

import (
	"sort"
	"time"
)

// Terminals report key presses and auto-repeats but never releases.
// A key counts as held until no press or repeat arrived for a while; the
// first wait covers the keyboard's repeat delay.
const (
	DefaultHoldDelay  = 500 * time.Millisecond
	DefaultHoldRepeat = 120 * time.Millisecond
)

// heldKeys synthesizes key releases from press timestamps.
type heldKeys struct {
	deadline map[string]time.Time
	delay    time.Duration
	repeat   time.Duration
}

func newHeldKeys(delay, repeat time.Duration) *heldKeys {
	if delay <= 0 {
		delay = DefaultHoldDelay
	}
	if repeat <= 0 {
		repeat = DefaultHoldRepeat
	}
	return &heldKeys{deadline: make(map[string]time.Time), delay: delay, repeat: repeat}
}

// press records a press and reports whether the key was not held before.
func (h *heldKeys) press(key string, now time.Time) bool {
	_, held := h.deadline[key]
	if held {
		h.deadline[key] = now.Add(h.repeat)
		return false
	}
	h.deadline[key] = now.Add(h.delay)
	return true
}

// expire releases keys whose deadline passed, in name order.
func (h *heldKeys) expire(now time.Time) []string {
	var out []string
	for k, d := range h.deadline {
		if !now.Before(d) {
			out = append(out, k)
			delete(h.deadline, k)
		}
	}
	sort.Strings(out)
	return out
}

// release drops one key and reports whether it was held.
func (h *heldKeys) release(key string) bool {
	if _, ok := h.deadline[key]; !ok {
		return false
	}
	delete(h.deadline, key)
	return true
}

// releaseAll drops every held key.
func (h *heldKeys) releaseAll() []string {
	out := make([]string, 0, len(h.deadline))
	for k := range h.deadline {
		out = append(out, k)
	}
	clear(h.deadline)
	sort.Strings(out)
	return out
}
