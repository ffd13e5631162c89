package game

import (
	"sync"
	"time"
)

// Default callback intervals.
const (
	DefaultFrameInterval = time.Second / 60
	SecondInterval       = time.Second
)

// Loop owns the frame and countdown callbacks of a game.
// It stops itself when the run ends and reports the result once per run.
type Loop struct {
	game          *Game
	sched         Scheduler
	canvas        Canvas
	frameInterval time.Duration
	onEnd         []func(RunResult)

	mu           sync.Mutex
	cancelFrame  func()
	cancelSecond func()
	running      bool
	reported     bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithCanvas renders every frame onto c.
func WithCanvas(c Canvas) LoopOption {
	return func(l *Loop) { l.canvas = c }
}

// WithFrameInterval overrides the frame interval.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithFPS sets the frame interval from a frame rate.
func WithFPS(fps int) LoopOption {
	return func(l *Loop) {
		if fps > 0 {
			l.frameInterval = time.Second / time.Duration(fps)
		}
	}
}

// OnEnd registers a callback for the result of each finished run.
// Callbacks run in registration order on the scheduler's callback goroutine
// and must not block.
func OnEnd(fn func(RunResult)) LoopOption {
	return func(l *Loop) {
		if fn != nil {
			l.onEnd = append(l.onEnd, fn)
		}
	}
}

// NewLoop creates a stopped loop.
func NewLoop(g *Game, sched Scheduler, opts ...LoopOption) *Loop {
	l := &Loop{
		game:          g,
		sched:         sched,
		frameInterval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start registers the callbacks. A game that has not started yet is started;
// a finished game is not resumed, use Restart for that.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	switch {
	case l.game.Status() == StatusNotStarted:
		l.game.Start()
		l.reported = false
	case l.game.Status().Terminal():
		return
	}
	l.running = true
	l.cancelFrame = l.sched.Every(l.frameInterval, l.frame)
	l.cancelSecond = l.sched.Every(SecondInterval, l.second)
}

// Stop cancels both callbacks. It is safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
}

// Restart stops the loop, starts a fresh run and resumes ticking.
func (l *Loop) Restart() {
	l.mu.Lock()
	l.stopLocked()
	l.game.PlayAgain()
	l.reported = false
	l.mu.Unlock()
	l.Start()
}

// Running reports whether the callbacks are registered.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Game returns the driven game.
func (l *Loop) Game() *Game {
	return l.game
}

func (l *Loop) stopLocked() {
	if !l.running {
		return
	}
	l.running = false
	l.cancelFrame()
	l.cancelSecond()
	l.cancelFrame, l.cancelSecond = nil, nil
}

func (l *Loop) frame() {
	l.game.Frame()
	l.game.Render(l.canvas)
	l.checkEnd()
}

func (l *Loop) second() {
	l.game.Second()
	l.checkEnd()
}

func (l *Loop) checkEnd() {
	if !l.game.Status().Terminal() {
		return
	}
	l.mu.Lock()
	l.stopLocked()
	report := !l.reported && len(l.onEnd) > 0
	l.reported = true
	l.mu.Unlock()

	if !report {
		return
	}
	r := l.game.Result()
	for _, fn := range l.onEnd {
		fn(r)
	}
}
