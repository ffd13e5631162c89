package notify

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

// LogSink writes events to a structured logger.
type LogSink struct {
	Logger *log.Logger
}

// Notify implements game.Notifier.
func (s LogSink) Notify(e game.Event) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info(e.Message,
		"event", e.Kind.String(),
		"score", e.Score,
		"level", e.Level+1,
		"count", e.Count,
	)
}

// Fanout forwards every event to each sink in order. Nil sinks are skipped.
type Fanout []game.Notifier

// NewFanout builds a fan-out from the non-nil sinks.
func NewFanout(sinks ...game.Notifier) Fanout {
	f := make(Fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			f = append(f, s)
		}
	}
	return f
}

// Notify implements game.Notifier.
func (f Fanout) Notify(e game.Event) {
	for _, s := range f {
		s.Notify(e)
	}
}
