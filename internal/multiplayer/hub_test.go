package multiplayer

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	alice = Player{ID: "p-alice", Name: "Alice"}
	bob   = Player{ID: "p-bob", Name: "Bob"}
	carol = Player{ID: "p-carol", Name: "Carol"}
	dave  = Player{ID: "p-dave", Name: "Dave"}
	erin  = Player{ID: "p-erin", Name: "Erin"}
)

// recordingPersister records persistence calls.
type recordingPersister struct {
	mu    sync.Mutex
	calls []string
}

func (p *recordingPersister) record(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, s)
	return nil
}

func (p *recordingPersister) SaveRoom(info RoomInfo) error {
	return p.record("room:" + info.Code + ":" + string(info.Status))
}
func (p *recordingPersister) DeleteRoom(string) error { return p.record("delete-room") }
func (p *recordingPersister) SaveMember(_ string, m Member) error {
	return p.record("member:" + m.PlayerID)
}
func (p *recordingPersister) DeleteMember(_, playerID string) error {
	return p.record("leave:" + playerID)
}
func (p *recordingPersister) SaveMessage(msg ChatMessage) error {
	return p.record("msg:" + string(msg.Type))
}

func newTestHub(t *testing.T) (*Hub, *SessionRegistry) {
	t.Helper()
	reg := NewSessionRegistry()
	h := NewHub(DefaultHubConfig(), reg)
	return h, reg
}

func connect(reg *SessionRegistry, id string) *ChannelSession {
	s := NewChannelSession(SessionID(id), 64)
	reg.Register(s)
	return s
}

// drain returns all buffered events.
func drain(s *ChannelSession) []SessionEvent {
	var out []SessionEvent
	for {
		select {
		case evt := <-s.Events():
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestCreateRoom(t *testing.T) {
	h, reg := newTestHub(t)
	sess := connect(reg, "s1")

	snap, err := h.CreateRoom(alice, sess.ID(), "  Cat Cafe ")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(snap.Code) != 6 || snap.Code != strings.ToUpper(snap.Code) {
		t.Errorf("code = %q, want 6 uppercase chars", snap.Code)
	}
	if snap.Name != "Cat Cafe" || snap.Status != RoomWaiting || snap.HostID != alice.ID || snap.MaxPlayers != 4 {
		t.Errorf("room = %+v", snap.RoomInfo)
	}
	m, ok := snap.Member(alice.ID)
	if !ok || !m.Ready || !m.Online {
		t.Errorf("host member = %+v, want ready and online", m)
	}

	history, _ := h.History(snap.Code)
	if len(history) != 1 || history[0].Type != MessageSystem || history[0].Text != "Room Cat Cafe created! Code: "+snap.Code {
		t.Errorf("history = %+v", history)
	}

	var joined bool
	for _, evt := range drain(sess) {
		if _, ok := evt.(RoomJoinedEvent); ok {
			joined = true
		}
	}
	if !joined {
		t.Error("host did not receive RoomJoinedEvent")
	}

	if _, err := h.CreateRoom(alice, sess.ID(), "   "); !errors.Is(err, ErrInvalidRoomName) {
		t.Errorf("blank name err = %v", err)
	}
}

func TestJoinRoom(t *testing.T) {
	h, reg := newTestHub(t)
	s1 := connect(reg, "s1")
	s2 := connect(reg, "s2")

	room, _ := h.CreateRoom(alice, s1.ID(), "Cat Cafe")
	drain(s1)

	snap, err := h.JoinRoom(bob, s2.ID(), strings.ToLower(room.Code))
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if snap.Players != 2 || len(snap.Members) != 2 {
		t.Errorf("players = %d, want 2", snap.Players)
	}
	if m, _ := snap.Member(bob.ID); m.Ready {
		t.Error("joiner should not start ready")
	}

	var sawJoinMsg, sawPresence bool
	for _, evt := range drain(s1) {
		switch e := evt.(type) {
		case ChatEvent:
			sawJoinMsg = sawJoinMsg || e.Message.Text == "Bob joined the room!"
		case PresenceEvent:
			sawPresence = sawPresence || e.Room.Players == 2
		}
	}
	if !sawJoinMsg || !sawPresence {
		t.Errorf("host events: join message %v, presence %v", sawJoinMsg, sawPresence)
	}

	// Rejoining is a no-op.
	again, err := h.JoinRoom(bob, s2.ID(), room.Code)
	if err != nil || again.Players != 2 {
		t.Errorf("rejoin: players=%d err=%v", again.Players, err)
	}
	history, _ := h.History(room.Code)
	joins := 0
	for _, m := range history {
		if strings.Contains(m.Text, "joined") {
			joins++
		}
	}
	if joins != 1 {
		t.Errorf("join messages = %d, want 1", joins)
	}
}

func TestJoinRoomErrors(t *testing.T) {
	h, _ := newTestHub(t)

	if _, err := h.JoinRoom(bob, "", "NOPE42"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("missing room err = %v", err)
	}

	room, _ := h.CreateRoom(alice, "", "Full House")
	for _, p := range []Player{bob, carol, dave} {
		if _, err := h.JoinRoom(p, "", room.Code); err != nil {
			t.Fatalf("join %s: %v", p.Name, err)
		}
	}
	if _, err := h.JoinRoom(erin, "", room.Code); !errors.Is(err, ErrRoomFull) {
		t.Errorf("fifth player err = %v, want ErrRoomFull", err)
	}

	if err := h.StartGame(bob.ID); !errors.Is(err, ErrNotHost) {
		t.Errorf("non-host start err = %v", err)
	}
	if err := h.StartGame(alice.ID); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if err := h.LeaveRoom(dave.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.JoinRoom(erin, "", room.Code); !errors.Is(err, ErrRoomNotWaiting) {
		t.Errorf("join playing room err = %v", err)
	}
}

func TestListRooms(t *testing.T) {
	h, _ := newTestHub(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	h.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	r1, _ := h.CreateRoom(alice, "", "First")
	r2, _ := h.CreateRoom(bob, "", "Second")
	_, _ = h.JoinRoom(carol, "", r1.Code)
	r3, _ := h.CreateRoom(dave, "", "Third")
	_ = h.StartGame(dave.ID)

	list := h.ListRooms()
	if len(list) != 2 {
		t.Fatalf("rooms = %d, want 2 waiting", len(list))
	}
	if list[0].Code != r2.Code || list[1].Code != r1.Code {
		t.Errorf("order = %s, %s; want newest first", list[0].Code, list[1].Code)
	}
	if list[1].Players != 2 {
		t.Errorf("first room players = %d, want 2", list[1].Players)
	}
	for _, r := range list {
		if r.Code == r3.Code {
			t.Error("playing room listed")
		}
	}
}

func TestLeaveRoom(t *testing.T) {
	h, _ := newTestHub(t)
	room, _ := h.CreateRoom(alice, "", "Cat Cafe")
	_, _ = h.JoinRoom(bob, "", room.Code)

	if err := h.LeaveRoom(alice.ID); err != nil {
		t.Fatalf("LeaveRoom: %v", err)
	}
	snap, ok := h.Room(room.Code)
	if !ok {
		t.Fatal("room closed while a member remained")
	}
	if snap.HostID != bob.ID {
		t.Errorf("host = %s, want bob", snap.HostID)
	}

	if err := h.LeaveRoom(alice.ID); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("second leave err = %v", err)
	}

	_ = h.LeaveRoom(bob.ID)
	if _, ok := h.Room(room.Code); ok {
		t.Error("empty room should be closed")
	}
	if h.RoomCount() != 0 {
		t.Errorf("rooms = %d, want 0", h.RoomCount())
	}
}

func TestCreatingMovesPlayer(t *testing.T) {
	h, _ := newTestHub(t)
	first, _ := h.CreateRoom(alice, "", "One")
	_, _ = h.JoinRoom(bob, "", first.Code)

	second, _ := h.CreateRoom(bob, "", "Two")

	snap, _ := h.Room(first.Code)
	if _, ok := snap.Member(bob.ID); ok {
		t.Error("bob still in the first room")
	}
	cur, ok := h.RoomOf(bob.ID)
	if !ok || cur.Code != second.Code {
		t.Errorf("bob's room = %s, want %s", cur.Code, second.Code)
	}
}

func TestChat(t *testing.T) {
	h, reg := newTestHub(t)
	s2 := connect(reg, "s2")
	room, _ := h.CreateRoom(alice, "", "Cat Cafe")
	_, _ = h.JoinRoom(bob, s2.ID(), room.Code)
	drain(s2)

	msg, err := h.SendChat(alice.ID, "  meow  ")
	if err != nil {
		t.Fatalf("SendChat: %v", err)
	}
	if msg.Text != "meow" || msg.Type != MessageChat || msg.PlayerName != "Alice" || msg.ID == "" {
		t.Errorf("message = %+v", msg)
	}

	events := drain(s2)
	if len(events) != 1 {
		t.Fatalf("bob events = %d, want 1", len(events))
	}
	if ce, ok := events[0].(ChatEvent); !ok || ce.Message.ID != msg.ID {
		t.Errorf("bob event = %#v", events[0])
	}

	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmptyMessage},
		{"blank", " \t\n", ErrEmptyMessage},
		{"too long", strings.Repeat("é", 501), ErrMessageTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.SendChat(alice.ID, tt.text); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := h.SendChat(strings.Repeat("x", 3), "hi"); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("outsider err = %v", err)
	}
	if _, err := h.SendChat(alice.ID, strings.Repeat("a", 500)); err != nil {
		t.Errorf("500 chars rejected: %v", err)
	}
}

func TestChatHistoryLimit(t *testing.T) {
	h, _ := newTestHub(t)
	room, _ := h.CreateRoom(alice, "", "Chatty")
	for i := range 120 {
		if _, err := h.SendChat(alice.ID, strings.Repeat("m", i+1)); err != nil {
			t.Fatal(err)
		}
	}

	history, err := h.History(room.Code)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 100 {
		t.Fatalf("history = %d, want 100", len(history))
	}
	if len(history[0].Text) != 21 || len(history[99].Text) != 120 {
		t.Errorf("history spans %d..%d chars, want oldest-first newest 100", len(history[0].Text), len(history[99].Text))
	}

	if _, err := h.History("ZZZZZZ"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("missing room err = %v", err)
	}
}

func TestPresence(t *testing.T) {
	h, reg := newTestHub(t)
	s1 := connect(reg, "s1")
	s2 := connect(reg, "s2")
	room, _ := h.CreateRoom(alice, s1.ID(), "Cat Cafe")
	_, _ = h.JoinRoom(bob, s2.ID(), room.Code)

	if err := h.SetReady(bob.ID, true); err != nil {
		t.Fatal(err)
	}
	h.ReportRun(bob.ID, 4, 40)

	snap, _ := h.Room(room.Code)
	m, _ := snap.Member(bob.ID)
	if !m.Ready || m.FishCollected != 4 {
		t.Errorf("bob = %+v, want ready with 4 fish", m)
	}
	history, _ := h.History(room.Code)
	last := history[len(history)-1]
	if last.Type != MessageGame || !strings.Contains(last.Text, "Bob collected 4 fish") {
		t.Errorf("last message = %+v", last)
	}

	h.Disconnect(s2.ID())
	snap, _ = h.Room(room.Code)
	m, _ = snap.Member(bob.ID)
	if m.Online || m.Ready {
		t.Errorf("after disconnect bob = %+v, want offline and not ready", m)
	}

	// Same code brings bob back online without a new join message.
	s3 := connect(reg, "s3")
	if _, err := h.JoinRoom(bob, s3.ID(), room.Code); err != nil {
		t.Fatal(err)
	}
	snap, _ = h.Room(room.Code)
	m, _ = snap.Member(bob.ID)
	if !m.Online {
		t.Error("bob should be online after rejoining")
	}

	// A stale session disconnecting must not knock the new one offline.
	h.Disconnect(s2.ID())
	snap, _ = h.Room(room.Code)
	if m, _ := snap.Member(bob.ID); !m.Online {
		t.Error("stale disconnect took bob offline")
	}

	if err := h.SetReady("nobody", true); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("SetReady outsider err = %v", err)
	}
	h.ReportRun("nobody", 1, 10)
}

func TestIdleRoomsExpire(t *testing.T) {
	h, reg := newTestHub(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	s1 := connect(reg, "s1")
	room, _ := h.CreateRoom(alice, s1.ID(), "Sleepy")
	h.Disconnect(s1.ID())

	now = now.Add(5 * time.Minute)
	h.cleanupIdleRooms()
	if h.RoomCount() != 1 {
		t.Fatal("room expired too early")
	}

	now = now.Add(6 * time.Minute)
	h.cleanupIdleRooms()
	if _, ok := h.Room(room.Code); ok {
		t.Error("idle room should expire")
	}
	if _, ok := h.RoomOf(alice.ID); ok {
		t.Error("alice still mapped to an expired room")
	}
}

func TestPersistence(t *testing.T) {
	h, _ := newTestHub(t)
	p := &recordingPersister{}
	h.SetPersister(p)
	h.Start()

	room, _ := h.CreateRoom(alice, "", "Saved")
	_, _ = h.JoinRoom(bob, "", room.Code)
	_, _ = h.SendChat(bob.ID, "hello")
	_ = h.LeaveRoom(bob.ID)
	_ = h.LeaveRoom(alice.ID)

	h.Stop()
	h.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	want := []string{
		"room:" + room.Code + ":waiting",
		"member:" + alice.ID,
		"msg:system",
		"member:" + bob.ID,
		"msg:system",
		"msg:chat",
		"leave:" + bob.ID,
		"msg:system",
		"leave:" + alice.ID,
		"delete-room",
	}
	if strings.Join(p.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls =\n%v\nwant\n%v", p.calls, want)
	}

	if _, err := h.CreateRoom(alice, "", "Late"); !errors.Is(err, ErrHubStopped) {
		t.Errorf("create after stop err = %v", err)
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d unique codes out of 50", len(seen))
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s1", 2)
	s.Send(RoomLeftEvent{Code: "A"})
	s.Send(RoomLeftEvent{Code: "B"})
	s.Send(RoomLeftEvent{Code: "C"})

	if s.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped())
	}
	first := (<-s.Events()).(RoomLeftEvent)
	second := (<-s.Events()).(RoomLeftEvent)
	if first.Code != "B" || second.Code != "C" {
		t.Errorf("queue = %s, %s; want B, C", first.Code, second.Code)
	}

	s.Close()
	s.Close()
	s.Send(RoomLeftEvent{Code: "D"})
	select {
	case evt := <-s.Events():
		t.Errorf("event after close: %+v", evt)
	default:
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", 0)
	r.Register(a)
	r.Register(NewChannelSession("b", 0))
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}
	if got, ok := r.Get("a"); !ok || got != SessionHandle(a) {
		t.Error("Get(a) did not return the registered session")
	}
	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("a still registered")
	}
}
