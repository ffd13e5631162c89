package game

import "github.com/vovakirdan/kitty-madness/internal/core"

// Status is the run lifecycle state.
type Status int

const (
	StatusNotStarted Status = iota
	StatusPlaying
	StatusWon
	StatusLost
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has ended.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Player is the kitty: a bounding box plus velocity.
type Player struct {
	Box    core.Rect
	VX, VY float64
}

// Fish is a pickup instance for the current level.
type Fish struct {
	Box       core.Rect
	Collected bool
}

// Session is the mutable state of one run.
type Session struct {
	Score          int
	FishCollected  int // Total picked up this run
	FishCarried    int // Picked up but not yet delivered
	FishDelivered  int // Total delivered this run
	LastDelivery   int // Size of the most recent delivery in the current level
	LevelDelivered int // Fish delivered in the current level
	TimeLeft       int // Seconds
	TimeElapsed    int // Seconds
	LevelIndex     int
	LevelsCleared  int
	GoalActive     bool // Player is on the goal after delivering; clears when they step off
	Status         Status
	Player         Player
	Fishes         []Fish
}

// FishRemaining returns the number of uncollected fish in the current level.
func (s *Session) FishRemaining() int {
	n := 0
	for _, f := range s.Fishes {
		if !f.Collected {
			n++
		}
	}
	return n
}

// clone returns a copy that shares no slices with s.
func (s *Session) clone() Session {
	c := *s
	c.Fishes = append([]Fish(nil), s.Fishes...)
	return c
}
