package game

import (
	"sort"
	"strings"
)

// Key bindings recognized by the physics step. Front ends translate their
// key events to these lowercase names.
var (
	LeftKeys  = []string{"a", "arrowleft"}
	RightKeys = []string{"d", "arrowright"}
	JumpKeys  = []string{"w", " ", "arrowup"}
)

// InputState is the set of currently held keys.
// KeyDown and KeyUp are idempotent.
type InputState struct {
	held map[string]struct{}
}

// NewInputState creates an empty input state.
func NewInputState() *InputState {
	return &InputState{held: make(map[string]struct{})}
}

// KeyDown marks a key as held.
func (s *InputState) KeyDown(key string) {
	s.held[strings.ToLower(key)] = struct{}{}
}

// KeyUp releases a key.
func (s *InputState) KeyUp(key string) {
	delete(s.held, strings.ToLower(key))
}

// IsPressed reports whether any of the keys is held.
func (s *InputState) IsPressed(keys ...string) bool {
	for _, k := range keys {
		if _, ok := s.held[strings.ToLower(k)]; ok {
			return true
		}
	}
	return false
}

// Reset releases every key.
func (s *InputState) Reset() {
	clear(s.held)
}

// Held returns the held keys in sorted order.
func (s *InputState) Held() []string {
	keys := make([]string, 0, len(s.held))
	for k := range s.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
