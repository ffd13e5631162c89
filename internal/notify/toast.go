// Package notify provides sinks for gameplay events: an on-screen toast
// queue, a structured log sink and a fan-out that feeds several sinks.
package notify

import (
	"sync"
	"time"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

// Severity defines message type for styling.
type Severity uint8

const (
	SeverityInfo    Severity = iota // Default, neutral
	SeveritySuccess                 // Positive
	SeverityWarning                 // Caution
	SeverityError                   // Failure
)

// Toast is a transient on-screen message.
type Toast struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// Default toast settings.
const (
	DefaultToastTTL = 3 * time.Second
	DefaultMaxToast = 3
)

// ToastQueue keeps the most recent toasts until they expire.
// It is safe for concurrent use.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	max    int
	now    func() time.Time
}

// NewToastQueue creates a queue showing at most max toasts for ttl each.
func NewToastQueue(ttl time.Duration, max int) *ToastQueue {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if max <= 0 {
		max = DefaultMaxToast
	}
	return &ToastQueue{ttl: ttl, max: max, now: time.Now}
}

// Push adds a toast. The oldest toast is dropped when the queue is full.
func (q *ToastQueue) Push(msg string, sev Severity) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Message: msg, Severity: sev, ExpiresAt: q.now().Add(q.ttl)})
	if over := len(q.toasts) - q.max; over > 0 {
		q.toasts = append(q.toasts[:0:0], q.toasts[over:]...)
	}
}

// Notify implements game.Notifier.
func (q *ToastQueue) Notify(e game.Event) {
	q.Push(e.Message, SeverityFor(e.Kind))
}

// Active returns unexpired toasts, oldest first, pruning expired ones.
func (q *ToastQueue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	live := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		}
	}
	clear(q.toasts[len(live):])
	q.toasts = live
	return append([]Toast(nil), live...)
}

// SeverityFor maps an event to a toast severity.
func SeverityFor(kind game.EventKind) Severity {
	switch kind {
	case game.EventWon, game.EventLevelUp, game.EventDelivered:
		return SeveritySuccess
	case game.EventTimeUp:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
