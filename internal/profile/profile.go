// Package profile keeps the local player identity and preferences.
package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/storage"
)

// AppName is the gdata application directory.
const AppName = "kitty_madness"

// GuestName is shown for players that never picked a name.
const GuestName = "Guest"

const (
	profileObject    = "profile"
	identityProperty = "identity"
	settingsProperty = "settings"
)

// MaxNameLen caps display names.
const MaxNameLen = 24

// Identity names the player that results are attributed to.
// The zero value is the guest.
type Identity struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// IsGuest reports whether no identity was chosen.
func (i Identity) IsGuest() bool {
	return i.ID == ""
}

// DisplayName returns the name, or GuestName for a guest.
func (i Identity) DisplayName() string {
	if i.Name == "" {
		return GuestName
	}
	return i.Name
}

// PlayerID returns the id results are stored under.
func (i Identity) PlayerID() string {
	if i.IsGuest() {
		return "guest"
	}
	return i.ID
}

// Record converts a finished run into the row stored for this identity.
func (i Identity) Record(r game.RunResult) storage.Run {
	return storage.Run{
		Variant:       r.Variant,
		PlayerID:      i.PlayerID(),
		PlayerName:    i.DisplayName(),
		Score:         r.Score,
		FishCollected: r.FishCollected,
		TimeElapsed:   r.TimeElapsed,
		LevelsCleared: r.LevelsCleared,
		Outcome:       r.Outcome,
	}
}

// Settings are local preferences applied by the front ends.
type Settings struct {
	Variant    string `yaml:"variant"`
	Difficulty string `yaml:"difficulty"`
	Muted      bool   `yaml:"muted"`
}

// Store loads and saves the profile through gdata.
// A Store with a nil manager works in memory only.
type Store struct {
	manager *gdata.Manager
}

// Open opens the gdata store for appName.
func Open(appName string) (*Store, error) {
	if appName == "" {
		appName = AppName
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("profile: open: %w", err)
	}
	return &Store{manager: m}, nil
}

// NewMemoryStore returns a store that persists nothing.
func NewMemoryStore() *Store {
	return &Store{}
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

// Identity returns the saved identity, or the guest.
func (s *Store) Identity() (Identity, error) {
	var id Identity
	if err := s.load(identityProperty, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// SetName stores name as the local identity, creating an id on first use.
// An empty name resets to the guest.
func (s *Store) SetName(name string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, s.save(identityProperty, Identity{})
	}
	if len([]rune(name)) > MaxNameLen {
		return Identity{}, fmt.Errorf("profile: name longer than %d characters", MaxNameLen)
	}

	cur, err := s.Identity()
	if err != nil {
		cur = Identity{}
	}
	if cur.ID == "" {
		cur.ID = uuid.NewString()
	}
	cur.Name = name
	if err := s.save(identityProperty, cur); err != nil {
		return Identity{}, err
	}
	return cur, nil
}

// Settings returns the saved settings, or the zero value.
func (s *Store) Settings() (Settings, error) {
	var st Settings
	if err := s.load(settingsProperty, &st); err != nil {
		return Settings{}, err
	}
	return st, nil
}

// SaveSettings persists st.
func (s *Store) SaveSettings(st Settings) error {
	return s.save(settingsProperty, st)
}

func (s *Store) load(prop string, v any) error {
	if !s.Persistent() {
		return nil
	}
	if !s.manager.ObjectPropExists(profileObject, prop) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(profileObject, prop)
	if err != nil {
		return fmt.Errorf("profile: load %s: %w", prop, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("profile: decode %s: %w", prop, err)
	}
	return nil
}

func (s *Store) save(prop string, v any) error {
	if !s.Persistent() {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("profile: encode %s: %w", prop, err)
	}
	if err := s.manager.SaveObjectProp(profileObject, prop, data); err != nil {
		return fmt.Errorf("profile: save %s: %w", prop, err)
	}
	return nil
}
