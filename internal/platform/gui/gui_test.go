package gui

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/profile"
	"github.com/vovakirdan/kitty-madness/internal/registry"
	"github.com/vovakirdan/kitty-madness/internal/replay"
	"github.com/vovakirdan/kitty-madness/internal/storage"
)

func newTestWindow(t *testing.T, opts Options) *Window {
	t.Helper()
	w, err := NewWindow(registry.New(config.DefaultKittyConfig()), config.VariantClassic, config.DifficultyNormal, opts)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return w
}

func press(t *testing.T, w *Window, keys ...ebiten.Key) {
	t.Helper()
	if err := w.handleKeys(keys, nil); err != nil {
		t.Fatalf("handleKeys: %v", err)
	}
}

func release(t *testing.T, w *Window, keys ...ebiten.Key) {
	t.Helper()
	if err := w.handleKeys(nil, keys); err != nil {
		t.Fatalf("handleKeys: %v", err)
	}
}

func ticks(w *Window, n int) {
	for range n {
		w.tick()
	}
}

// runToEnd ticks until the run finishes or a generous cap is hit.
func runToEnd(t *testing.T, w *Window) game.RunResult {
	t.Helper()
	for range 2 * 90 * DefaultTPS {
		w.tick()
		if r, ok := w.Result(); ok {
			return r
		}
	}
	t.Fatal("run never ended")
	return game.RunResult{}
}

func TestGameKey(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want string
		ok   bool
	}{
		{ebiten.KeyArrowLeft, "arrowleft", true},
		{ebiten.KeyArrowRight, "arrowright", true},
		{ebiten.KeyArrowUp, "arrowup", true},
		{ebiten.KeyA, "a", true},
		{ebiten.KeyD, "d", true},
		{ebiten.KeyW, "w", true},
		{ebiten.KeySpace, " ", true},
		{ebiten.KeyEnter, "", false},
		{ebiten.KeyS, "", false},
	}
	for _, tt := range tests {
		got, ok := GameKey(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GameKey(%v) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}

	// Every mapped key is one the physics step reads.
	known := append(append(append([]string{}, game.LeftKeys...), game.RightKeys...), game.JumpKeys...)
	for k, name := range gameKeys {
		found := false
		for _, n := range known {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Errorf("key %v maps to unknown name %q", k, name)
		}
	}
}

func TestPalette(t *testing.T) {
	for _, c := range []core.Color{
		game.ColorBackground, game.ColorPlatform, game.ColorFish, game.ColorGoal,
		game.ColorGoalReached, game.ColorKitty, game.ColorHUD, game.ColorOverlay,
	} {
		if _, ok := palette[c]; !ok {
			t.Errorf("color %d has no window color", c)
		}
	}
	if RGBA(core.Color(200)) != palette[core.ColorDefault] {
		t.Error("unknown color should fall back to the default")
	}
	if RGBA(game.ColorKitty) == RGBA(game.ColorBackground) {
		t.Error("kitty is invisible against the sky")
	}
}

func TestWindowLayout(t *testing.T) {
	w := newTestWindow(t, Options{})
	if gw, gh := w.Layout(1600, 1200); gw != 800 || gh != 600 {
		t.Errorf("Layout = %dx%d, want 800x600", gw, gh)
	}
}

func TestWindowFlow(t *testing.T) {
	w := newTestWindow(t, Options{})

	ticks(w, 10)
	if w.Game().Status() != game.StatusNotStarted {
		t.Fatal("game started without Enter")
	}

	press(t, w, ebiten.KeyEnter)
	if w.Game().Status() != game.StatusPlaying {
		t.Fatalf("status = %v after Enter", w.Game().Status())
	}

	x0 := w.Game().Session().Player.Box.X
	press(t, w, ebiten.KeyD)
	ticks(w, 30)
	if x := w.Game().Session().Player.Box.X; x <= x0 {
		t.Errorf("kitty did not move right: %v -> %v", x0, x)
	}

	release(t, w, ebiten.KeyD)
	if w.Game().Input().IsPressed("d") {
		t.Error("d still held after release")
	}
}

func TestWindowQuit(t *testing.T) {
	w := newTestWindow(t, Options{})
	press(t, w, ebiten.KeyEnter)

	err := w.handleKeys([]ebiten.Key{ebiten.KeyEscape}, nil)
	if !errors.Is(err, ebiten.Termination) {
		t.Fatalf("Escape returned %v", err)
	}
	if w.loop.Running() {
		t.Error("loop still running after quit")
	}
}

func TestWindowSavesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "kitty.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	w := newTestWindow(t, Options{Store: store, Identity: profile.Identity{ID: "tom-1", Name: "Tom"}})
	press(t, w, ebiten.KeyEnter)

	res := runToEnd(t, w)
	if res.Outcome != game.OutcomeLost {
		t.Errorf("outcome = %q", res.Outcome)
	}
	ticks(w, 5)
	w.Close()

	runs, err := store.TopRuns(config.VariantClassic, 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, want 1", len(runs))
	}
	if runs[0].PlayerName != "Tom" || runs[0].PlayerID != "tom-1" {
		t.Errorf("run saved as %q/%q", runs[0].PlayerID, runs[0].PlayerName)
	}
}

func TestWindowRestart(t *testing.T) {
	w := newTestWindow(t, Options{})
	press(t, w, ebiten.KeyEnter)
	runToEnd(t, w)

	press(t, w, ebiten.KeyR)
	if w.Game().Status() != game.StatusPlaying {
		t.Fatalf("status = %v after restart", w.Game().Status())
	}
	if _, ok := w.Result(); ok {
		t.Error("result kept after restart")
	}
}

func TestWindowRecording(t *testing.T) {
	w := newTestWindow(t, Options{Recorder: replay.NewRecorder()})
	press(t, w, ebiten.KeyEnter)

	press(t, w, ebiten.KeyD)
	ticks(w, 30)
	release(t, w, ebiten.KeyD)
	ticks(w, 30)

	s, err := w.RecordedScript()
	if err != nil {
		t.Fatalf("RecordedScript: %v", err)
	}
	if s.Variant != config.VariantClassic || s.FPS != DefaultTPS {
		t.Errorf("script header = %q @ %d", s.Variant, s.FPS)
	}
	if len(s.Steps) != 2 {
		t.Fatalf("steps = %+v", s.Steps)
	}
	if len(s.Steps[0].Keys) != 1 || s.Steps[0].Keys[0] != "d" || s.Steps[0].Duration != 30*w.step {
		t.Errorf("first step = %+v", s.Steps[0])
	}
	if s.Steps[1].Keys != nil || s.Steps[1].Duration != 30*w.step {
		t.Errorf("second step = %+v", s.Steps[1])
	}
}
