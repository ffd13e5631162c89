package game

import (
	"testing"
	"time"

	"github.com/vovakirdan/kitty-madness/internal/config"
)

func TestSteppedSchedulerOrder(t *testing.T) {
	s := NewSteppedScheduler()
	var got []string
	s.Every(10*time.Millisecond, func() { got = append(got, "a") })
	cancelB := s.Every(25*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(50 * time.Millisecond)

	want := "aabaaab"
	if str := join(got); str != want {
		t.Errorf("order = %s, want %s", str, want)
	}

	cancelB()
	cancelB()
	got = nil
	s.Advance(20 * time.Millisecond)
	if str := join(got); str != "aa" {
		t.Errorf("after cancel = %s, want aa", str)
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1", s.Pending())
	}
	if s.Now() != 70*time.Millisecond {
		t.Errorf("now = %v, want 70ms", s.Now())
	}
}

func TestSteppedSchedulerIgnoresBadInterval(t *testing.T) {
	s := NewSteppedScheduler()
	cancel := s.Every(0, func() { t.Fatal("zero interval fired") })
	cancel()
	s.Advance(time.Second)
}

func join(parts []string) string {
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}

func TestLoopFramesAndSeconds(t *testing.T) {
	g, _ := newTestGame(t, config.VariantClassic)
	sched := NewSteppedScheduler()
	canvas := &recordingCanvas{}
	loop := NewLoop(g, sched, WithCanvas(canvas))

	loop.Start()
	loop.Start()
	sched.Advance(time.Second)

	if frames := canvas.count("clear"); frames != 60 {
		t.Errorf("frames = %d, want 60", frames)
	}
	if g.session.TimeLeft != 59 {
		t.Errorf("time left = %d, want 59", g.session.TimeLeft)
	}

	loop.Stop()
	loop.Stop()
	sched.Advance(time.Second)
	if g.session.TimeLeft != 59 {
		t.Error("timer ran after Stop")
	}
	if loop.Running() {
		t.Error("loop still running after Stop")
	}
}

func TestLoopStartsFreshGame(t *testing.T) {
	rules, _ := RulesFor(config.DefaultKittyConfig(), config.VariantClassic, config.DifficultyNormal)
	levels, _ := rules.LoadLevels()
	g, _ := New(rules, levels)
	loop := NewLoop(g, NewSteppedScheduler())

	loop.Start()
	if g.Status() != StatusPlaying {
		t.Errorf("status = %v, want playing", g.Status())
	}
}

func TestLoopStopsOnTerminal(t *testing.T) {
	g, _ := newTestGame(t, config.VariantClassic)
	sched := NewSteppedScheduler()

	var results []RunResult
	loop := NewLoop(g, sched, WithFPS(30), OnEnd(func(r RunResult) { results = append(results, r) }))
	loop.Start()

	sched.Advance(60 * time.Second)

	if g.Status() != StatusLost {
		t.Fatalf("status = %v, want lost", g.Status())
	}
	if loop.Running() {
		t.Error("loop kept running after the run ended")
	}
	if sched.Pending() != 0 {
		t.Errorf("pending callbacks = %d, want 0", sched.Pending())
	}
	if len(results) != 1 || results[0].Outcome != OutcomeLost || results[0].TimeElapsed != 60 {
		t.Fatalf("results = %+v, want one lost run of 60s", results)
	}

	// A finished game is not resumed by Start.
	loop.Start()
	if loop.Running() {
		t.Error("Start resumed a finished run")
	}

	loop.Restart()
	if !loop.Running() || g.Status() != StatusPlaying || g.session.TimeLeft != 60 {
		t.Errorf("restart: running=%v status=%v time=%d", loop.Running(), g.Status(), g.session.TimeLeft)
	}
	sched.Advance(60 * time.Second)
	if len(results) != 2 {
		t.Errorf("results after second run = %d, want 2", len(results))
	}
}

func TestTickerSchedulerSerializes(t *testing.T) {
	s := NewTickerScheduler()
	var counter int
	bump := func() {
		// Unsynchronized access to counter would trip the race detector
		// if callbacks overlapped.
		counter++
	}
	c1 := s.Every(time.Millisecond, bump)
	c2 := s.Every(time.Millisecond, bump)

	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int
		s.Do(func() { n = counter })
		if n >= 10 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	c1()
	c2()
	c1()
	s.Wait()

	if counter < 10 {
		t.Errorf("counter = %d, want at least 10 ticks", counter)
	}
}

func TestLoopWithTickerScheduler(t *testing.T) {
	g, _ := newTestGame(t, config.VariantClassic)
	sched := NewTickerScheduler()
	loop := NewLoop(g, sched, WithFrameInterval(time.Millisecond))

	loop.Start()
	time.Sleep(20 * time.Millisecond)
	loop.Stop()
	sched.Wait()

	if g.Status() != StatusPlaying {
		t.Errorf("status = %v, want playing", g.Status())
	}
}

func TestLoopRunsEveryEndCallback(t *testing.T) {
	g, _ := newTestGame(t, config.VariantClassic)
	sched := NewSteppedScheduler()

	var order []string
	loop := NewLoop(g, sched,
		OnEnd(func(RunResult) { order = append(order, "first") }),
		OnEnd(nil),
		OnEnd(func(RunResult) { order = append(order, "second") }),
	)
	loop.Start()
	sched.Advance(60 * time.Second)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("callbacks = %v, want [first second]", order)
	}
}
