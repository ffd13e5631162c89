package game

import (
	"testing"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
)

// eventLog records notifications.
type eventLog struct {
	events []Event
}

func (l *eventLog) Notify(e Event) { l.events = append(l.events, e) }

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// newTestGame builds and starts a game for a built-in variant.
func newTestGame(t *testing.T, variant string) (*Game, *eventLog) {
	t.Helper()
	rules, err := RulesFor(config.DefaultKittyConfig(), variant, config.DifficultyNormal)
	if err != nil {
		t.Fatalf("RulesFor: %v", err)
	}
	levels, err := rules.LoadLevels()
	if err != nil {
		t.Fatalf("LoadLevels: %v", err)
	}
	log := &eventLog{}
	g, err := New(rules, levels, WithNotifier(log))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Start()
	return g, log
}

// placeAt moves the player to (x, y) with the given velocity.
func placeAt(g *Game, x, y, vx, vy float64) {
	g.session.Player.Box.X = x
	g.session.Player.Box.Y = y
	g.session.Player.VX = vx
	g.session.Player.VY = vy
}

// collectAt places the player on a fish box and resolves pickups.
func collectAt(g *Game, fish core.Rect) {
	placeAt(g, fish.X, fish.Y, 0, 0)
	g.resolvePickups()
}

// drawOp is one recorded canvas call.
type drawOp struct {
	kind  string
	rect  core.Rect
	text  string
	color core.Color
}

// recordingCanvas records every call in order.
type recordingCanvas struct {
	ops []drawOp
}

func (c *recordingCanvas) Clear(col core.Color) {
	c.ops = append(c.ops, drawOp{kind: "clear", color: col})
}

func (c *recordingCanvas) FillRect(r core.Rect, col core.Color) {
	c.ops = append(c.ops, drawOp{kind: "rect", rect: r, color: col})
}

func (c *recordingCanvas) DrawText(x, y float64, text string, col core.Color) {
	c.ops = append(c.ops, drawOp{kind: "text", rect: core.NewRect(x, y, 0, 0), text: text, color: col})
}

func (c *recordingCanvas) DrawLabel(r core.Rect, text string, col core.Color) {
	c.ops = append(c.ops, drawOp{kind: "label", rect: r, text: text, color: col})
}

func (c *recordingCanvas) count(kind string) int {
	n := 0
	for _, op := range c.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}
