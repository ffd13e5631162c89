package replay

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

// Result is what a replay produced.
type Result struct {
	Run     game.RunResult
	Status  game.Status
	Ended   bool
	Elapsed time.Duration
	Session game.Session
}

// maxUntilEnd bounds UntilEnd scripts whose game never finishes.
const maxUntilEnd = time.Hour

// Run replays s on g with a stepped scheduler. No wall-clock time passes.
func Run(g *game.Game, s Script, opts ...game.LoopOption) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	sched := game.NewSteppedScheduler()
	res, loop := newLoop(g, sched, s, opts)
	loop.Start()
	defer loop.Stop()

	held := []string(nil)
	for _, st := range s.Steps {
		if !loop.Running() {
			break
		}
		held = applyKeys(g.Input(), held, st.Keys)
		sched.Advance(st.Duration)
	}
	applyKeys(g.Input(), held, nil)

	if s.Tail > 0 && loop.Running() {
		sched.Advance(s.Tail)
	}
	for s.UntilEnd && loop.Running() && sched.Now() < maxUntilEnd {
		sched.Advance(game.SecondInterval)
	}

	res.Elapsed = sched.Now()
	return res.finish(g), nil
}

// RunRealtime replays s against wall-clock time with a ticker scheduler.
// It returns early when ctx is cancelled.
func RunRealtime(ctx context.Context, g *game.Game, s Script, opts ...game.LoopOption) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	sched := game.NewTickerScheduler()
	ended := make(chan struct{})
	var once sync.Once
	opts = append(opts, game.OnEnd(func(game.RunResult) { once.Do(func() { close(ended) }) }))
	res, loop := newLoop(g, sched, s, opts)

	start := time.Now()
	loop.Start()

	wait := func(d time.Duration) bool {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-ended:
			return false
		case <-t.C:
			return true
		}
	}

	held := []string(nil)
	for _, st := range s.Steps {
		keys := st.Keys
		sched.Do(func() { held = applyKeys(g.Input(), held, keys) })
		if !wait(st.Duration) {
			break
		}
	}
	sched.Do(func() { applyKeys(g.Input(), held, nil) })

	switch {
	case s.UntilEnd:
		wait(maxUntilEnd)
	case s.Tail > 0:
		wait(s.Tail)
	}

	loop.Stop()
	sched.Wait()
	res.Elapsed = time.Since(start)

	var out Result
	sched.Do(func() { out = res.finish(g) })
	return out, ctx.Err()
}

func newLoop(g *game.Game, sched game.Scheduler, s Script, opts []game.LoopOption) (*Result, *game.Loop) {
	res := &Result{}
	all := []game.LoopOption{
		game.WithFPS(s.FPS),
		game.OnEnd(func(r game.RunResult) {
			res.Run = r
			res.Ended = true
		}),
	}
	all = append(all, opts...)
	return res, game.NewLoop(g, sched, all...)
}

func (r *Result) finish(g *game.Game) Result {
	out := *r
	out.Status = g.Status()
	out.Session = g.Session()
	if !out.Ended {
		out.Run = g.Result()
	}
	return out
}

// applyKeys releases keys in held that are not in next, presses the rest,
// and returns the new held set.
func applyKeys(in *game.InputState, held, next []string) []string {
	next = normalizeKeys(next)
	want := make(map[string]bool, len(next))
	for _, k := range next {
		want[k] = true
	}
	for _, k := range held {
		if !want[k] {
			in.KeyUp(k)
		}
	}
	for _, k := range next {
		in.KeyDown(k)
	}
	return next
}
