package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

func TestToastQueueExpiry(t *testing.T) {
	q := NewToastQueue(2*time.Second, 3)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	q.Push("first", SeverityInfo)
	now = now.Add(time.Second)
	q.Push("second", SeveritySuccess)

	if got := q.Active(); len(got) != 2 {
		t.Fatalf("active = %d, want 2", len(got))
	}

	now = now.Add(1500 * time.Millisecond)
	got := q.Active()
	if len(got) != 1 || got[0].Message != "second" {
		t.Errorf("active = %+v, want only second", got)
	}

	now = now.Add(time.Second)
	if got := q.Active(); len(got) != 0 {
		t.Errorf("active = %+v, want none", got)
	}
}

func TestToastQueueCap(t *testing.T) {
	q := NewToastQueue(0, 2)
	q.Push("a", SeverityInfo)
	q.Push("b", SeverityInfo)
	q.Push("c", SeverityInfo)

	got := q.Active()
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("active = %+v, want b, c", got)
	}
}

func TestToastQueueNotify(t *testing.T) {
	q := NewToastQueue(time.Minute, 5)
	q.Notify(game.Event{Kind: game.EventTimeUp, Message: "Time's up!"})

	got := q.Active()
	if len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Errorf("toast = %+v", got)
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		kind game.EventKind
		want Severity
	}{
		{game.EventStarted, SeverityInfo},
		{game.EventFishCollected, SeverityInfo},
		{game.EventDelivered, SeveritySuccess},
		{game.EventLevelUp, SeveritySuccess},
		{game.EventWon, SeveritySuccess},
		{game.EventTimeUp, SeverityWarning},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.kind); got != tt.want {
			t.Errorf("SeverityFor(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})}

	sink.Notify(game.Event{Kind: game.EventFishCollected, Message: "Fish collected! +10 points", Score: 10, Count: 1})

	out := buf.String()
	for _, want := range []string{"Fish collected", "event=fish_collected", "score=10", "level=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}

	// Nil logger is a no-op
	LogSink{}.Notify(game.Event{})
}

func TestFanout(t *testing.T) {
	var a, b []game.EventKind
	f := NewFanout(
		game.NotifierFunc(func(e game.Event) { a = append(a, e.Kind) }),
		nil,
		game.NotifierFunc(func(e game.Event) { b = append(b, e.Kind) }),
	)
	if len(f) != 2 {
		t.Fatalf("sinks = %d, want 2", len(f))
	}

	f.Notify(game.Event{Kind: game.EventWon})
	if len(a) != 1 || len(b) != 1 || a[0] != game.EventWon {
		t.Errorf("a=%v b=%v", a, b)
	}
}
