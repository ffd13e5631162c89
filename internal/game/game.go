// Package game implements the Kitty Madness simulation: input state,
// per-tick physics, pickups and deliveries, the level and timer state
// machine, and the loop that drives them. It draws through the Canvas
// interface and knows nothing about terminals or windows.
package game

import (
	"errors"

	"github.com/vovakirdan/kitty-madness/internal/level"
)

// ErrNoLevels is returned when a game is created without levels.
var ErrNoLevels = errors.New("game: no levels")

// Outcome values reported in RunResult.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)

// RunResult summarizes a finished run for persistence.
type RunResult struct {
	Variant       string
	FishCollected int
	Score         int
	TimeElapsed   int // Seconds
	LevelsCleared int
	Outcome       string
}

// Game owns one run: rules, levels, session and input.
// It is not safe for concurrent use; the Loop serializes access.
type Game struct {
	rules    Rules
	levels   []level.Level
	session  Session
	input    *InputState
	notifier Notifier
}

// Option configures a Game.
type Option func(*Game)

// WithNotifier sets the event sink.
func WithNotifier(n Notifier) Option {
	return func(g *Game) {
		if n != nil {
			g.notifier = n
		}
	}
}

// New creates a game in the NotStarted state.
func New(rules Rules, levels []level.Level, opts ...Option) (*Game, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	g := &Game{
		rules:    rules,
		levels:   levels,
		input:    NewInputState(),
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.session.TimeLeft = rules.Gameplay.TimeLimit
	return g, nil
}

// Start begins a fresh run at level 0.
func (g *Game) Start() {
	g.session = Session{
		TimeLeft: g.rules.Gameplay.TimeLimit,
		Status:   StatusPlaying,
	}
	g.input.Reset()
	g.loadLevel(0)
	g.emit(EventStarted, 0, "Game started! Use WASD or arrows to move")
}

// PlayAgain discards the current run and starts a new one.
func (g *Game) PlayAgain() {
	g.Start()
}

// Frame runs one simulation tick: physics, pickups, goal, level check.
// It does nothing unless the run is playing.
func (g *Game) Frame() {
	if g.session.Status != StatusPlaying {
		return
	}
	lvl, ok := g.currentLevel()
	if !ok {
		return
	}
	stepPhysics(&g.session, lvl, g.input, g.rules)
	g.resolvePickups()
	g.resolveGoal(lvl)
	g.checkLevelComplete(lvl)
}

// Second runs the countdown. The run is lost when the clock hits zero.
func (g *Game) Second() {
	s := &g.session
	if s.Status != StatusPlaying {
		return
	}
	s.TimeElapsed++
	if s.TimeLeft <= 1 {
		s.TimeLeft = 0
		s.Status = StatusLost
		g.emit(EventTimeUp, 0, "Time's up!")
		return
	}
	s.TimeLeft--
}

// Input returns the held-key state fed to the physics step.
func (g *Game) Input() *InputState {
	return g.input
}

// Rules returns the rules the game was created with.
func (g *Game) Rules() Rules {
	return g.rules
}

// Status returns the current run status.
func (g *Game) Status() Status {
	return g.session.Status
}

// Session returns a copy of the run state.
func (g *Game) Session() Session {
	return g.session.clone()
}

// Level returns the current level.
func (g *Game) Level() (level.Level, bool) {
	lvl, ok := g.currentLevel()
	if !ok {
		return level.Level{}, false
	}
	return *lvl, true
}

// LevelCount returns the number of levels in the run.
func (g *Game) LevelCount() int {
	return len(g.levels)
}

// Result summarizes the run so far.
func (g *Game) Result() RunResult {
	s := &g.session
	outcome := ""
	switch s.Status {
	case StatusWon:
		outcome = OutcomeWon
	case StatusLost:
		outcome = OutcomeLost
	}
	return RunResult{
		Variant:       g.rules.Variant,
		FishCollected: s.FishCollected,
		Score:         s.Score,
		TimeElapsed:   s.TimeElapsed,
		LevelsCleared: s.LevelsCleared,
		Outcome:       outcome,
	}
}

// loadLevel makes level i current with fresh fish and the player at spawn.
func (g *Game) loadLevel(i int) {
	s := &g.session
	lvl := &g.levels[i]
	s.LevelIndex = i
	s.LastDelivery = 0
	s.LevelDelivered = 0
	s.GoalActive = false
	s.Fishes = make([]Fish, len(lvl.Fishes))
	for j, box := range lvl.Fishes {
		s.Fishes[j] = Fish{Box: box}
	}
	placePlayer(s, lvl.Spawn, g.rules)
}

func (g *Game) currentLevel() (*level.Level, bool) {
	i := g.session.LevelIndex
	if i < 0 || i >= len(g.levels) {
		return nil, false
	}
	return &g.levels[i], true
}

func (g *Game) emit(kind EventKind, count int, msg string) {
	g.notifier.Notify(Event{
		Kind:    kind,
		Message: msg,
		Score:   g.session.Score,
		Level:   g.session.LevelIndex,
		Count:   count,
	})
}
