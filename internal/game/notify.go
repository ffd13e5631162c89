package game

// EventKind identifies a gameplay notification.
type EventKind int

const (
	EventStarted EventKind = iota
	EventFishCollected
	EventDelivered
	EventLevelUp
	EventWon
	EventTimeUp
)

// String returns a short event name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFishCollected:
		return "fish_collected"
	case EventDelivered:
		return "delivered"
	case EventLevelUp:
		return "level_up"
	case EventWon:
		return "won"
	case EventTimeUp:
		return "time_up"
	default:
		return "unknown"
	}
}

// Event is a gameplay notification.
type Event struct {
	Kind    EventKind
	Message string
	Score   int // Score after the event
	Level   int // Level index after the event
	Count   int // Fish involved, when relevant
}

// Notifier receives gameplay events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
