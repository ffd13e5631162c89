// Package replay drives a game from a scripted sequence of held keys.
// Scripts are YAML documents; the headless runner is deterministic.
package replay

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Step holds Keys for Duration. Keys not listed are released.
type Step struct {
	Keys     []string      `yaml:"keys,omitempty"`
	Duration time.Duration `yaml:"for"`
}

// Script is a replayable input sequence.
type Script struct {
	Name       string        `yaml:"name,omitempty"`
	Variant    string        `yaml:"variant,omitempty"`
	Difficulty string        `yaml:"difficulty,omitempty"`
	FPS        int           `yaml:"fps,omitempty"`
	Steps      []Step        `yaml:"steps"`
	Tail       time.Duration `yaml:"tail,omitempty"`
	UntilEnd   bool          `yaml:"until_end,omitempty"`
}

var (
	// ErrEmptyScript is returned for scripts without steps.
	ErrEmptyScript = errors.New("replay: script has no steps")
	// ErrBadDuration is returned for steps that do not advance time.
	ErrBadDuration = errors.New("replay: step duration must be positive")
)

// Parse decodes and validates a script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// LoadFile reads a script from disk.
func LoadFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks the script shape.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	for i, st := range s.Steps {
		if st.Duration <= 0 {
			return fmt.Errorf("step %d: %w", i, ErrBadDuration)
		}
	}
	if s.FPS < 0 {
		return fmt.Errorf("replay: negative fps %d", s.FPS)
	}
	return nil
}

// Duration is the scripted input time, excluding the tail.
func (s Script) Duration() time.Duration {
	var d time.Duration
	for _, st := range s.Steps {
		d += st.Duration
	}
	return d
}

// Marshal encodes the script as YAML.
func (s Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// normalizeKeys lowercases, dedupes and sorts keys.
func normalizeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
