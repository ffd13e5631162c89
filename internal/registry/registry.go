// Package registry maps variant names to game factories.
// Every variant in the configuration is registered automatically; callers
// may register extra factories for custom rule sets.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/game"
)

// VariantInfo contains metadata about a registered variant.
type VariantInfo struct {
	ID              string
	Title           string
	TimeLimit       int
	RequireDelivery bool
}

// Factory creates a new game for a difficulty preset.
type Factory func(preset config.DifficultyPreset, opts ...game.Option) (*game.Game, error)

type entry struct {
	info    VariantInfo
	factory Factory
}

// Registry holds variant factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	logger  *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger reports level files skipped while creating games.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates a registry with a factory for every configured variant.
func New(cfg config.KittyConfig, opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(r)
	}
	for _, id := range cfg.VariantNames() {
		gp := cfg.Variants[id]
		r.Register(VariantInfo{
			ID:              id,
			Title:           gp.Title,
			TimeLimit:       gp.TimeLimit,
			RequireDelivery: gp.RequireDelivery,
		}, ConfigFactory(cfg, id, r.logger))
	}
	return r
}

// ConfigFactory builds games for a configured variant, loading and
// validating its levels on every call. Skipped level files are logged to
// logger when it is set and do not fail the call.
func ConfigFactory(cfg config.KittyConfig, variant string, logger *log.Logger) Factory {
	return func(preset config.DifficultyPreset, opts ...game.Option) (*game.Game, error) {
		rules, err := game.RulesFor(cfg, variant, preset)
		if err != nil {
			return nil, err
		}
		levels, err := rules.LoadLevels()
		if errors.Is(err, game.ErrSkippedLevels) {
			if logger != nil {
				logger.Warn("some levels were skipped", "variant", variant, "error", err)
			}
			err = nil
		}
		if err != nil {
			return nil, err
		}
		return game.New(rules, levels, opts...)
	}
}

// Register adds a variant factory.
// Panics if a variant with the same ID is already registered.
func (r *Registry) Register(info VariantInfo, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	r.entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered variants, sorted by ID.
func (r *Registry) List() []VariantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]VariantInfo, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by variant ID.
// Returns an error if the variant is not registered.
func (r *Registry) Create(id string, preset config.DifficultyPreset, opts ...game.Option) (*game.Game, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown variant %q", id)
	}
	return e.factory(preset, opts...)
}

// Exists checks if a variant with the given ID is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[id]
	return ok
}

// Info returns the metadata of a registered variant.
func (r *Registry) Info(id string) (VariantInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	return e.info, ok
}
