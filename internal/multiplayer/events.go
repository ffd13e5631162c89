package multiplayer

// SessionEvent represents an event sent from the hub to a session.
type SessionEvent interface {
	sessionEvent()
}

// RoomJoinedEvent is sent to a player after creating or joining a room.
type RoomJoinedEvent struct {
	Room    RoomSnapshot
	History []ChatMessage
}

func (RoomJoinedEvent) sessionEvent() {}

// RoomLeftEvent is sent to a player after leaving a room.
type RoomLeftEvent struct {
	Code string
}

func (RoomLeftEvent) sessionEvent() {}

// PresenceEvent is broadcast when membership, readiness or status changes.
type PresenceEvent struct {
	Room RoomSnapshot
}

func (PresenceEvent) sessionEvent() {}

// ChatEvent is broadcast for every new chat line.
type ChatEvent struct {
	Message ChatMessage
}

func (ChatEvent) sessionEvent() {}

// RoomErrorEvent is sent when a room operation fails.
type RoomErrorEvent struct {
	Message string
}

func (RoomErrorEvent) sessionEvent() {}

// RoomExpiredEvent is sent to remaining members when an idle room is closed.
type RoomExpiredEvent struct {
	Code string
}

func (RoomExpiredEvent) sessionEvent() {}
