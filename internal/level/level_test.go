package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/kitty-madness/internal/core"
)

func defaultRules(requireGoal bool) Rules {
	return Rules{
		World:       core.NewRect(0, 0, 800, 600),
		Player:      core.Point{X: 40, Y: 40},
		RequireGoal: requireGoal,
	}
}

func TestClassicPack(t *testing.T) {
	levels, err := Pack(PackClassic)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("classic levels = %d, want 1", len(levels))
	}
	l := levels[0]
	if len(l.Platforms) != 6 {
		t.Errorf("platforms = %d, want 6", len(l.Platforms))
	}
	if len(l.Fishes) != 5 {
		t.Errorf("fishes = %d, want 5", len(l.Fishes))
	}
	if l.Spawn != (core.Point{X: 100, Y: 300}) {
		t.Errorf("spawn = %+v, want (100,300)", l.Spawn)
	}
	if l.HasGoal() {
		t.Error("classic level should have no goal")
	}
	if l.Fishes[0] != core.NewRect(250, 420, 25, 20) {
		t.Errorf("first fish = %+v", l.Fishes[0])
	}
	if err := ValidateAll(levels, defaultRules(false)); err != nil {
		t.Errorf("classic pack invalid: %v", err)
	}
}

func TestAdvancedPack(t *testing.T) {
	levels, err := Pack(PackAdvanced)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("advanced levels = %d, want 3", len(levels))
	}
	if err := ValidateAll(levels, defaultRules(true)); err != nil {
		t.Errorf("advanced pack invalid: %v", err)
	}
}

func TestPackReturnsCopies(t *testing.T) {
	a, _ := Pack(PackClassic)
	a[0].Fishes[0].X = -1

	b, _ := Pack(PackClassic)
	if b[0].Fishes[0].X != 250 {
		t.Error("mutating one pack copy leaked into another")
	}
}

func TestUnknownPack(t *testing.T) {
	if _, err := Pack("bonus"); err == nil {
		t.Error("expected error for unknown pack")
	}
	names := PackNames()
	if len(names) != 2 || names[0] != PackAdvanced || names[1] != PackClassic {
		t.Errorf("PackNames() = %v", names)
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
id: test-01
name: Test Yard
spawn: {x: 10, y: 20}
platforms:
  - {x: 0, y: 580, w: 800, h: 20}
fishes:
  - {x: 100, y: 550}
goal: {x: 700, y: 520}
`)
	l, err := ParseYAML(doc)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if l.ID != "test-01" || l.Name != "Test Yard" {
		t.Errorf("id/name = %q/%q", l.ID, l.Name)
	}
	if l.Spawn != (core.Point{X: 10, Y: 20}) {
		t.Errorf("spawn = %+v", l.Spawn)
	}
	if l.Fishes[0] != core.NewRect(100, 550, FishWidth, FishHeight) {
		t.Errorf("fish = %+v", l.Fishes[0])
	}
	if l.Goal == nil || l.Goal.W != GoalWidth || l.Goal.H != GoalHeight {
		t.Errorf("goal = %+v, want default size", l.Goal)
	}
}

func TestMarshalRoundTripKeepsGoalSize(t *testing.T) {
	levels, _ := Pack(PackAdvanced)
	data, err := MarshalYAML(levels[1])
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	back, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if *back.Goal != *levels[1].Goal || len(back.Platforms) != len(levels[1].Platforms) {
		t.Errorf("round trip changed level: %+v", back)
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":     "id: b\nspawn: {x: 100, y: 300}\nplatforms: [{x: 0, y: 580, w: 800, h: 20}]\nfishes: [{x: 10, y: 10}]\n",
		"a.yml":      "spawn: {x: 100, y: 300}\nplatforms: [{x: 0, y: 580, w: 800, h: 20}]\nfishes: [{x: 10, y: 10}]\n",
		"broken.yml": "platforms: [",
		"notes.txt":  "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	levels, err := NewLoader(dir).LoadAll()
	if err == nil {
		t.Error("expected the broken file to be reported")
	}
	if len(levels) != 2 {
		t.Fatalf("levels = %d, want 2", len(levels))
	}
	if levels[0].ID != "a" || levels[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", levels[0].ID, levels[1].ID)
	}
	if levels[0].FilePath == "" {
		t.Error("FilePath not recorded")
	}

	if _, err := NewLoader(dir).LoadByID("b"); err != nil {
		t.Errorf("LoadByID(b): %v", err)
	}
	if _, err := NewLoader(dir).LoadByID("zzz"); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestValidate(t *testing.T) {
	base := func() Level {
		l, _ := Pack(PackClassic)
		return l[0]
	}

	tests := []struct {
		name        string
		mutate      func(*Level)
		requireGoal bool
		code        string
	}{
		{"no id", func(l *Level) { l.ID = "" }, false, "NO_ID"},
		{"no platforms", func(l *Level) { l.Platforms = nil }, false, "NO_PLATFORMS"},
		{"no fish", func(l *Level) { l.Fishes = nil }, false, "NO_FISH"},
		{"flat platform", func(l *Level) { l.Platforms[1].H = 0 }, false, "BAD_PLATFORM"},
		{"spawn outside", func(l *Level) { l.Spawn.X = 780 }, false, "BAD_SPAWN"},
		{"fish outside", func(l *Level) { l.Fishes[2].Y = -5 }, false, "BAD_FISH"},
		{"goal required", func(l *Level) {}, true, "NO_GOAL"},
		{"goal outside", func(l *Level) { l.Goal = Goal(790, 10) }, true, "BAD_GOAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base()
			tt.mutate(&l)
			err := Validate(l, defaultRules(tt.requireGoal))
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Code != tt.code {
				t.Errorf("code = %s, want %s", verr.Code, tt.code)
			}
		})
	}
}

func TestValidateAllDuplicates(t *testing.T) {
	l, _ := Pack(PackClassic)
	err := ValidateAll([]Level{l[0], l[0]}, defaultRules(false))
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Code != "DUPLICATE_ID" {
		t.Errorf("err = %v, want DUPLICATE_ID", err)
	}
	if err := ValidateAll(nil, defaultRules(false)); err == nil {
		t.Error("expected error for empty list")
	}
}
