package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// HubConfig holds configuration for the hub.
type HubConfig struct {
	MaxPlayers    int           // Players per room
	MaxMessageLen int           // Characters per chat message
	HistoryLimit  int           // Messages kept per room
	RoomTimeout   time.Duration // How long a room with nobody online survives
	CleanupPeriod time.Duration // How often to look for idle rooms
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxPlayers:    4,
		MaxMessageLen: 500,
		HistoryLimit:  100,
		RoomTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// room is the hub's mutable room state.
type room struct {
	info     RoomInfo
	members  map[string]*Member
	order    []string // Join order of member IDs
	messages []ChatMessage
	idleAt   time.Time // When the last member went offline; zero while someone is online
}

// Hub manages rooms, chat and presence.
// All methods are safe for concurrent use.
type Hub struct {
	config    HubConfig
	sessions  *SessionRegistry
	persister Persister // Optional, can be nil
	logger    *log.Logger
	now       func() time.Time

	mu            sync.Mutex
	rooms         map[string]*room     // code -> room
	playerRoom    map[string]string    // playerID -> code
	playerSession map[string]SessionID // playerID -> latest session
	sessionPlayer map[SessionID]string // sessionID -> playerID

	jobs    chan func() error
	done    chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

// NewHub creates a new hub. Call Start to run background work.
func NewHub(cfg HubConfig, sessions *SessionRegistry) *Hub {
	if sessions == nil {
		sessions = NewSessionRegistry()
	}
	return &Hub{
		config:        cfg,
		sessions:      sessions,
		logger:        log.Default(),
		now:           time.Now,
		rooms:         make(map[string]*room),
		playerRoom:    make(map[string]string),
		playerSession: make(map[string]SessionID),
		sessionPlayer: make(map[SessionID]string),
		jobs:          make(chan func() error, 256),
		done:          make(chan struct{}),
	}
}

// SetPersister sets the optional persistence backend.
func (h *Hub) SetPersister(p Persister) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.persister = p
}

// SetLogger replaces the logger used for background failures.
func (h *Hub) SetLogger(l *log.Logger) {
	if l != nil {
		h.logger = l
	}
}

// Sessions returns the session registry events are delivered through.
func (h *Hub) Sessions() *SessionRegistry {
	return h.sessions
}

// Start begins the hub's background processing.
func (h *Hub) Start() {
	h.wg.Add(2)
	go h.persistLoop()
	go h.cleanupLoop()
}

// Stop shuts down background work after flushing pending persistence.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.done)
	h.wg.Wait()
}

// CreateRoom creates a room hosted by p and joins p to it, ready.
// A player already in another room leaves it first.
func (h *Hub) CreateRoom(p Player, session SessionID, name string) (RoomSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RoomSnapshot{}, ErrInvalidRoomName
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return RoomSnapshot{}, ErrHubStopped
	}

	h.leaveLocked(p.ID)
	h.bindSessionLocked(p.ID, session)

	now := h.now()
	r := &room{
		info: RoomInfo{
			ID:         uuid.NewString(),
			Code:       h.generateUniqueCode(),
			Name:       name,
			HostID:     p.ID,
			Status:     RoomWaiting,
			MaxPlayers: h.config.MaxPlayers,
			CreatedAt:  now,
		},
		members: make(map[string]*Member),
	}
	h.rooms[r.info.Code] = r
	info := r.info
	h.enqueue(func(ps Persister) error { return ps.SaveRoom(info) })
	h.addMemberLocked(r, p, true)

	h.postLocked(r, Player{}, MessageSystem, fmt.Sprintf("Room %s created! Code: %s", r.info.Name, r.info.Code))

	snap := r.snapshot()
	h.sendToPlayerLocked(p.ID, RoomJoinedEvent{Room: snap, History: r.history()})
	return snap, nil
}

// JoinRoom adds p to the room with the given code (case-insensitive).
// Joining a room the player is already in only refreshes presence.
func (h *Hub) JoinRoom(p Player, session SessionID, code string) (RoomSnapshot, error) {
	code = normalizeCode(code)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return RoomSnapshot{}, ErrHubStopped
	}

	r, ok := h.rooms[code]
	if !ok {
		return RoomSnapshot{}, ErrRoomNotFound
	}

	if m, member := r.members[p.ID]; member {
		h.bindSessionLocked(p.ID, session)
		if !m.Online {
			m.Online = true
			r.idleAt = time.Time{}
			h.saveMemberLocked(r, m)
			h.broadcastPresenceLocked(r)
		}
		snap := r.snapshot()
		h.sendToPlayerLocked(p.ID, RoomJoinedEvent{Room: snap, History: r.history()})
		return snap, nil
	}

	if r.info.Status != RoomWaiting {
		return RoomSnapshot{}, ErrRoomNotWaiting
	}
	if len(r.members) >= r.info.MaxPlayers {
		return RoomSnapshot{}, ErrRoomFull
	}

	h.leaveLocked(p.ID)
	h.bindSessionLocked(p.ID, session)
	h.addMemberLocked(r, p, false)
	h.postLocked(r, Player{}, MessageSystem, fmt.Sprintf("%s joined the room!", p.Name))
	h.broadcastPresenceLocked(r)

	snap := r.snapshot()
	h.sendToPlayerLocked(p.ID, RoomJoinedEvent{Room: snap, History: r.history()})
	return snap, nil
}

// LeaveRoom removes the player from their room. Empty rooms are closed;
// if the host leaves, the longest-standing member becomes host.
func (h *Hub) LeaveRoom(playerID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.leaveLocked(playerID) {
		return ErrNotInRoom
	}
	return nil
}

// ListRooms returns rooms that are waiting for players, newest first.
func (h *Hub) ListRooms() []RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := make([]RoomInfo, 0, len(h.rooms))
	for _, r := range h.rooms {
		if r.info.Status == RoomWaiting {
			list = append(list, r.info)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Code < list[j].Code
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Room returns a snapshot of the room with the given code.
func (h *Hub) Room(code string) (RoomSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[normalizeCode(code)]
	if !ok {
		return RoomSnapshot{}, false
	}
	return r.snapshot(), true
}

// RoomOf returns the room the player is in.
func (h *Hub) RoomOf(playerID string) (RoomSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return RoomSnapshot{}, false
	}
	return r.snapshot(), true
}

// SendChat posts a chat message from the player to their room.
// Text is trimmed; empty and over-long messages are rejected.
func (h *Hub) SendChat(playerID, text string) (ChatMessage, error) {
	text, err := h.cleanMessage(text)
	if err != nil {
		return ChatMessage{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return ChatMessage{}, ErrNotInRoom
	}
	m := r.members[playerID]
	return h.postLocked(r, Player{ID: m.PlayerID, Name: m.Name}, MessageChat, text), nil
}

// History returns the room's recent messages, oldest first.
func (h *Hub) History(code string) ([]ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[normalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.history(), nil
}

// SetReady updates the player's readiness.
func (h *Hub) SetReady(playerID string, ready bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return ErrNotInRoom
	}
	m := r.members[playerID]
	if m.Ready == ready {
		return nil
	}
	m.Ready = ready
	h.saveMemberLocked(r, m)
	h.broadcastPresenceLocked(r)
	return nil
}

// StartGame switches the host's room to playing.
func (h *Hub) StartGame(playerID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return ErrNotInRoom
	}
	if r.info.HostID != playerID {
		return ErrNotHost
	}
	if r.info.Status == RoomPlaying {
		return nil
	}
	r.info.Status = RoomPlaying
	info := r.info
	h.enqueue(func(ps Persister) error { return ps.SaveRoom(info) })
	h.postLocked(r, Player{}, MessageGame, "Game started! Collect as many fish as you can!")
	h.broadcastPresenceLocked(r)
	return nil
}

// ReportRun records a finished run for a player in a room.
// Players outside rooms are ignored.
func (h *Hub) ReportRun(playerID string, fishCollected, score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return
	}
	m := r.members[playerID]
	m.FishCollected = fishCollected
	h.saveMemberLocked(r, m)
	h.postLocked(r, Player{}, MessageGame, fmt.Sprintf("%s collected %d fish! Score: %d", m.Name, fishCollected, score))
	h.broadcastPresenceLocked(r)
}

// Disconnect marks the session's player offline. Membership is kept so
// the player can rejoin with the same code.
func (h *Hub) Disconnect(session SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	playerID, ok := h.sessionPlayer[session]
	if !ok {
		return
	}
	delete(h.sessionPlayer, session)
	if h.playerSession[playerID] != session {
		return // A newer session took over
	}
	delete(h.playerSession, playerID)

	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return
	}
	m := r.members[playerID]
	m.Online = false
	m.Ready = false
	if r.onlineCount() == 0 {
		r.idleAt = h.now()
	}
	h.saveMemberLocked(r, m)
	h.broadcastPresenceLocked(r)
}

// RoomCount returns the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) cleanMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if len([]rune(text)) > h.config.MaxMessageLen {
		return "", ErrMessageTooLong
	}
	return text, nil
}

func (h *Hub) roomOfLocked(playerID string) (*room, bool) {
	code, ok := h.playerRoom[playerID]
	if !ok {
		return nil, false
	}
	r, ok := h.rooms[code]
	return r, ok
}

func (h *Hub) bindSessionLocked(playerID string, session SessionID) {
	if session == "" {
		return
	}
	if old, ok := h.playerSession[playerID]; ok && old != session {
		delete(h.sessionPlayer, old)
	}
	h.playerSession[playerID] = session
	h.sessionPlayer[session] = playerID
}

func (h *Hub) addMemberLocked(r *room, p Player, ready bool) {
	m := &Member{
		PlayerID: p.ID,
		Name:     p.Name,
		Ready:    ready,
		Online:   true,
		JoinedAt: h.now(),
	}
	r.members[p.ID] = m
	r.order = append(r.order, p.ID)
	r.info.Players = len(r.members)
	r.idleAt = time.Time{}
	h.playerRoom[p.ID] = r.info.Code
	h.saveMemberLocked(r, m)
}

// leaveLocked removes the player from their room, if any.
func (h *Hub) leaveLocked(playerID string) bool {
	r, ok := h.roomOfLocked(playerID)
	if !ok {
		return false
	}
	m := r.members[playerID]
	delete(r.members, playerID)
	delete(h.playerRoom, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.info.Players = len(r.members)

	roomID := r.info.ID
	h.enqueue(func(ps Persister) error { return ps.DeleteMember(roomID, playerID) })
	h.sendToPlayerLocked(playerID, RoomLeftEvent{Code: r.info.Code})

	if len(r.members) == 0 {
		h.closeRoomLocked(r)
		return true
	}
	if r.info.HostID == playerID {
		r.info.HostID = r.order[0]
		info := r.info
		h.enqueue(func(ps Persister) error { return ps.SaveRoom(info) })
	}
	h.postLocked(r, Player{}, MessageSystem, fmt.Sprintf("%s left the room.", m.Name))
	h.broadcastPresenceLocked(r)
	return true
}

func (h *Hub) closeRoomLocked(r *room) {
	for id := range r.members {
		delete(h.playerRoom, id)
	}
	delete(h.rooms, r.info.Code)
	roomID := r.info.ID
	h.enqueue(func(ps Persister) error { return ps.DeleteRoom(roomID) })
}

// postLocked appends a message to the room and broadcasts it.
func (h *Hub) postLocked(r *room, from Player, kind MessageType, text string) ChatMessage {
	msg := ChatMessage{
		ID:         uuid.NewString(),
		RoomID:     r.info.ID,
		PlayerID:   from.ID,
		PlayerName: from.Name,
		Text:       text,
		Type:       kind,
		CreatedAt:  h.now(),
	}
	r.messages = append(r.messages, msg)
	if over := len(r.messages) - h.config.HistoryLimit; over > 0 {
		r.messages = append(r.messages[:0:0], r.messages[over:]...)
	}
	h.enqueue(func(ps Persister) error { return ps.SaveMessage(msg) })
	h.broadcastLocked(r, ChatEvent{Message: msg})
	return msg
}

func (h *Hub) saveMemberLocked(r *room, m *Member) {
	roomID, member := r.info.ID, *m
	h.enqueue(func(ps Persister) error { return ps.SaveMember(roomID, member) })
}

func (h *Hub) broadcastPresenceLocked(r *room) {
	h.broadcastLocked(r, PresenceEvent{Room: r.snapshot()})
}

func (h *Hub) broadcastLocked(r *room, evt SessionEvent) {
	for _, id := range r.order {
		h.sendToPlayerLocked(id, evt)
	}
}

func (h *Hub) sendToPlayerLocked(playerID string, evt SessionEvent) {
	sid, ok := h.playerSession[playerID]
	if !ok {
		return
	}
	if s, ok := h.sessions.Get(sid); ok {
		s.Send(evt)
	}
}

func (h *Hub) cleanupLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.cleanupIdleRooms()
		case <-h.done:
			return
		}
	}
}

// cleanupIdleRooms closes rooms nobody has been online in for RoomTimeout.
func (h *Hub) cleanupIdleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for _, r := range h.rooms {
		if r.idleAt.IsZero() || now.Sub(r.idleAt) <= h.config.RoomTimeout {
			continue
		}
		h.broadcastLocked(r, RoomExpiredEvent{Code: r.info.Code})
		h.closeRoomLocked(r)
	}
}

func (h *Hub) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := h.rooms[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// Use base32 encoding (A-Z, 2-7), take first 6 chars
	code := base32.StdEncoding.EncodeToString(b)[:6]
	return strings.ToUpper(code)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *room) snapshot() RoomSnapshot {
	snap := RoomSnapshot{RoomInfo: r.info, Members: make([]Member, 0, len(r.order))}
	for _, id := range r.order {
		snap.Members = append(snap.Members, *r.members[id])
	}
	return snap
}

func (r *room) history() []ChatMessage {
	return append([]ChatMessage(nil), r.messages...)
}

func (r *room) onlineCount() int {
	n := 0
	for _, m := range r.members {
		if m.Online {
			n++
		}
	}
	return n
}
