package multiplayer

import (
	"sync"
	"sync/atomic"
)

// DefaultEventBuffer is the per-session event queue length.
const DefaultEventBuffer = 64

// SessionHandle delivers hub events to one connected front end.
// Send must never block the hub.
type SessionHandle interface {
	ID() SessionID
	Send(evt SessionEvent)
	Done() <-chan struct{}
}

// ChannelSession queues events for a Bubble Tea program to drain.
// When the queue is full the oldest event is dropped.
type ChannelSession struct {
	id      SessionID
	events  chan SessionEvent
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// NewChannelSession creates a handle with room for buffer pending events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = DefaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt. Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	if s.closed() {
		return
	}
	select {
	case s.events <- evt:
		return
	default:
	}

	select {
	case <-s.events:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.events <- evt:
	default:
		s.dropped.Add(1)
	}
}

// Events is read by the front end.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done closes when the session ends.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many events were discarded because the queue was full.
func (s *ChannelSession) Dropped() int64 {
	return s.dropped.Load()
}

// Close ends the session. It is idempotent.
func (s *ChannelSession) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *ChannelSession) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// SessionRegistry maps session ids to live handles.
type SessionRegistry struct {
	mu   sync.RWMutex
	byID map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{byID: make(map[SessionID]SessionHandle)}
}

// Register adds or replaces a session.
func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	r.byID[s.ID()] = s
	r.mu.Unlock()
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}

// Get returns the session with id.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

// Len returns the number of registered sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
