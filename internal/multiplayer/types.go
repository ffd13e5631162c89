// Package multiplayer provides rooms, chat and presence for Kitty Madness.
// Players gather in small rooms identified by a short join code, talk in a
// per-room chat and see each other's readiness and fish counts. It is
// transport-neutral: sessions receive events through SessionHandle.
package multiplayer

import (
	"errors"
	"time"
)

// SessionID uniquely identifies a connection (e.g., SSH session).
type SessionID string

// Player identifies a participant. Guests use a generated ID.
type Player struct {
	ID   string
	Name string
}

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomWaiting RoomStatus = "waiting"
	RoomPlaying RoomStatus = "playing"
)

// MessageType classifies chat messages.
type MessageType string

const (
	MessageChat   MessageType = "chat"
	MessageSystem MessageType = "system"
	MessageGame   MessageType = "game"
)

// Errors returned by Hub operations.
var (
	ErrRoomNotFound    = errors.New("multiplayer: room not found")
	ErrRoomFull        = errors.New("multiplayer: room is full")
	ErrRoomNotWaiting  = errors.New("multiplayer: room is not accepting players")
	ErrNotInRoom       = errors.New("multiplayer: not in a room")
	ErrNotHost         = errors.New("multiplayer: only the host can do that")
	ErrEmptyMessage    = errors.New("multiplayer: message is empty")
	ErrMessageTooLong  = errors.New("multiplayer: message is too long")
	ErrInvalidRoomName = errors.New("multiplayer: room name is empty")
	ErrHubStopped      = errors.New("multiplayer: hub stopped")
)

// Member is a player's presence inside a room.
type Member struct {
	PlayerID      string
	Name          string
	FishCollected int
	Ready         bool
	Online        bool
	JoinedAt      time.Time
}

// ChatMessage is one line of room chat.
type ChatMessage struct {
	ID         string
	RoomID     string
	PlayerID   string // Empty for system messages
	PlayerName string
	Text       string
	Type       MessageType
	CreatedAt  time.Time
}

// RoomInfo is the summary shown in room listings.
type RoomInfo struct {
	ID         string
	Code       string
	Name       string
	HostID     string
	Status     RoomStatus
	Players    int
	MaxPlayers int
	CreatedAt  time.Time
}

// RoomSnapshot is a consistent copy of a room's state.
type RoomSnapshot struct {
	RoomInfo
	Members []Member
}

// Member returns the member with the given player ID.
func (r RoomSnapshot) Member(playerID string) (Member, bool) {
	for _, m := range r.Members {
		if m.PlayerID == playerID {
			return m, true
		}
	}
	return Member{}, false
}
