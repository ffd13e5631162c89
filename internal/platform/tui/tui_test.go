package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/multiplayer"
	"github.com/vovakirdan/kitty-madness/internal/registry"
	"github.com/vovakirdan/kitty-madness/internal/replay"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestScreenCanvasScaling(t *testing.T) {
	s := core.NewScreen(80, 30)
	c := NewScreenCanvas(s, 800, 600)

	c.Clear(core.ColorSky)
	c.FillRect(core.NewRect(0, 580, 800, 20), core.ColorBrown)
	if got := s.GetCell(0, 29); got.Rune != '█' || got.Color != core.ColorBrown {
		t.Errorf("ground cell = %+v", got)
	}
	if got := s.GetCell(0, 28); got.Color != core.ColorSky {
		t.Errorf("sky cell = %+v", got)
	}

	// A 20 unit platform is thinner than one row but still drawn.
	c.FillRect(core.NewRect(200, 450, 150, 20), core.ColorBrown)
	if got := s.GetCell(20, 22); got.Color != core.ColorBrown {
		t.Errorf("platform cell = %+v", got)
	}

	c.DrawText(10, 10, "Score: 0", core.ColorBrightWhite)
	if row := s.Row(0); !strings.HasPrefix(row, " Score: 0") {
		t.Errorf("HUD row = %q", row)
	}

	c.DrawLabel(core.NewRect(0, 0, 800, 600), "hi", core.ColorBrightYellow)
	if got := s.Get(39, 15); got != 'h' {
		t.Errorf("label start = %q, want 'h'", got)
	}
}

func TestGameKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{runes("d"), "d", true},
		{runes("A"), "a", true},
		{tea.KeyMsg{Type: tea.KeyLeft}, "arrowleft", true},
		{tea.KeyMsg{Type: tea.KeyUp}, "arrowup", true},
		{tea.KeyMsg{Type: tea.KeySpace}, " ", true},
		{runes("x"), "", false},
	}
	for _, tt := range tests {
		got, ok := GameKey(tt.msg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GameKey(%q) = %q, %v; want %q, %v", tt.msg.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestHeldKeys(t *testing.T) {
	h := newHeldKeys(500*time.Millisecond, 100*time.Millisecond)
	t0 := time.Unix(0, 0)

	if !h.press("d", t0) {
		t.Fatal("first press should be fresh")
	}
	if h.press("d", t0.Add(450*time.Millisecond)) {
		t.Fatal("repeat should not be fresh")
	}
	if got := h.expire(t0.Add(500 * time.Millisecond)); len(got) != 0 {
		t.Fatalf("repeat should extend the hold, released %v", got)
	}
	if got := h.expire(t0.Add(550 * time.Millisecond)); len(got) != 1 || got[0] != "d" {
		t.Fatalf("expire = %v, want [d]", got)
	}

	h.press("a", t0)
	h.press("w", t0)
	if got := h.releaseAll(); strings.Join(got, ",") != "a,w" {
		t.Errorf("releaseAll = %v", got)
	}
}

func newTestGameModel(t *testing.T, opts GameOptions) *GameModel {
	t.Helper()
	opts.Config = core.RuntimeConfig{ScreenW: 80, ScreenH: 27, TickRate: 60}
	m, err := NewGameModel(registry.New(config.DefaultKittyConfig()), config.VariantClassic, config.DifficultyNormal, opts)
	if err != nil {
		t.Fatalf("NewGameModel: %v", err)
	}
	return m
}

func TestGameModelFlow(t *testing.T) {
	m := newTestGameModel(t, GameOptions{})
	if !strings.Contains(m.View(), "Press Enter to start") {
		t.Error("start overlay missing")
	}

	m.Update(enter)
	if m.Game().Status() != game.StatusPlaying {
		t.Fatalf("status = %v, want playing", m.Game().Status())
	}

	t0 := time.Unix(1000, 0)
	m.Update(TickMsg{ID: m.tickID, Time: t0})
	m.Update(runes("d"))
	if !m.Game().Input().IsPressed(game.RightKeys...) {
		t.Fatal("d not held")
	}
	m.Update(TickMsg{ID: m.tickID, Time: t0.Add(100 * time.Millisecond)})
	if x := m.Game().Session().Player.Box.X; x <= 100 {
		t.Errorf("player did not move right: x = %v", x)
	}

	// No repeat arrives, so the key is released after the hold delay.
	m.Update(TickMsg{ID: m.tickID, Time: t0.Add(DefaultHoldDelay + 10*time.Millisecond)})
	if m.Game().Input().IsPressed(game.RightKeys...) {
		t.Error("d still held after hold delay")
	}

	// Stale tick streams are ignored.
	before := m.sched.Now()
	m.Update(TickMsg{ID: m.tickID + 1000, Time: t0.Add(time.Hour)})
	if m.sched.Now() != before {
		t.Error("foreign tick advanced the clock")
	}
}

func TestGameModelOppositeDirection(t *testing.T) {
	m := newTestGameModel(t, GameOptions{})
	m.Update(enter)
	m.Update(runes("a"))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	in := m.Game().Input()
	if in.IsPressed(game.LeftKeys...) {
		t.Error("pressing right should release left")
	}
	if !in.IsPressed(game.RightKeys...) {
		t.Error("right not held")
	}
}

func TestGameModelReportsEndOnce(t *testing.T) {
	var results []game.RunResult
	m := newTestGameModel(t, GameOptions{OnResult: func(r game.RunResult) { results = append(results, r) }})
	m.Update(enter)

	t0 := time.Unix(0, 0)
	m.Update(TickMsg{ID: m.tickID, Time: t0})
	for i := 1; i <= 300; i++ {
		m.Update(TickMsg{ID: m.tickID, Time: t0.Add(time.Duration(i) * maxTickStep)})
	}

	if m.Game().Status() != game.StatusLost {
		t.Fatalf("status = %v, want lost", m.Game().Status())
	}
	if len(results) != 1 || results[0].Outcome != game.OutcomeLost {
		t.Fatalf("results = %+v", results)
	}
	if r, ok := m.Result(); !ok || r.TimeElapsed != 60 {
		t.Errorf("Result = %+v, %v", r, ok)
	}
	if !strings.Contains(m.View(), "Time's up!") {
		t.Error("lost overlay missing")
	}

	m.Update(runes("r"))
	if m.Game().Status() != game.StatusPlaying {
		t.Errorf("restart status = %v", m.Game().Status())
	}
	if _, ok := m.Result(); ok {
		t.Error("result should reset on restart")
	}
}

func TestGameModelRecording(t *testing.T) {
	m := newTestGameModel(t, GameOptions{Recorder: replay.NewRecorder()})
	m.Update(enter)

	t0 := time.Unix(0, 0)
	m.Update(TickMsg{ID: m.tickID, Time: t0})
	m.Update(runes("d"))
	m.Update(TickMsg{ID: m.tickID, Time: t0.Add(200 * time.Millisecond)})
	m.Update(TickMsg{ID: m.tickID, Time: t0.Add(400 * time.Millisecond)})
	m.Update(TickMsg{ID: m.tickID, Time: t0.Add(600 * time.Millisecond)})

	s, err := m.RecordedScript()
	if err != nil {
		t.Fatal(err)
	}
	if s.Variant != config.VariantClassic || len(s.Steps) != 2 {
		t.Fatalf("script = %+v", s)
	}
	// Expiry runs before the clock advances, so the release lands at 400ms.
	if s.Steps[0].Keys[0] != "d" || s.Steps[0].Duration != 400*time.Millisecond {
		t.Errorf("first step = %+v", s.Steps[0])
	}
}

func TestGameModelBack(t *testing.T) {
	m := newTestGameModel(t, GameOptions{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || cmd != nil {
		t.Errorf("embedded back: back=%v cmd=%v", m.BackToMenu(), cmd != nil)
	}

	s := newTestGameModel(t, GameOptions{Standalone: true})
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !s.IsQuitting() || cmd == nil {
		t.Error("standalone back should quit")
	}
}

func TestMenuSelection(t *testing.T) {
	reg := registry.New(config.DefaultKittyConfig())
	m := NewMenuModel(reg, core.DefaultConfig(), config.DifficultyNormal, true)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	next, _ = m.Update(enter)
	m = next.(MenuModel)

	sel := m.Selected()
	if sel == nil || sel.Kind != MenuItemVariant || sel.Variant.ID != config.VariantClassic {
		t.Fatalf("selected = %+v", sel)
	}
	if m.Preset() != config.DifficultyHard {
		t.Errorf("preset = %v", m.Preset())
	}

	m = NewMenuModel(reg, core.DefaultConfig(), config.DifficultyEasy, true)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(MenuModel)
	if sel := m.Selected(); sel == nil || sel.Kind != MenuItemScores {
		t.Errorf("tab should open scores, got %+v", sel)
	}
	if !strings.Contains(m.View(), "Online rooms") {
		t.Error("lobby entry missing")
	}
}

// drain applies every pending hub event to the lobby.
func drain(l LobbyModel, ch *multiplayer.ChannelSession) LobbyModel {
	for {
		select {
		case evt := <-ch.Events():
			l = l.HandleEvent(evt)
		default:
			return l
		}
	}
}

func typeText(t *testing.T, l LobbyModel, text string) LobbyModel {
	t.Helper()
	for _, r := range text {
		next, _ := l.Update(runes(string(r)))
		l = next.(LobbyModel)
	}
	return l
}

func newLobby(t *testing.T, hub *multiplayer.Hub, id, name string) (LobbyModel, *multiplayer.ChannelSession) {
	t.Helper()
	ch := multiplayer.NewChannelSession(multiplayer.SessionID(id), 64)
	hub.Sessions().Register(ch)
	return NewLobbyModel(hub, multiplayer.Player{ID: id, Name: name}, ch.ID(), 100, 30), ch
}

func TestLobbyCreateChatAndStart(t *testing.T) {
	hub := multiplayer.NewHub(multiplayer.DefaultHubConfig(), nil)
	host, hostCh := newLobby(t, hub, "p1", "Tom")

	next, _ := host.Update(runes("c"))
	host = next.(LobbyModel)
	if host.State() != LobbyCreateRoom {
		t.Fatalf("state = %v", host.State())
	}
	host = typeText(t, host, "Den")
	next, _ = host.Update(enter)
	host = drain(next.(LobbyModel), hostCh)

	if host.State() != LobbyInRoom || host.Room().Name != "Den" {
		t.Fatalf("state = %v room = %+v", host.State(), host.Room())
	}
	code := host.Room().Code

	guest, guestCh := newLobby(t, hub, "p2", "Jerry")
	if len(guest.rooms) != 1 {
		t.Fatalf("guest sees %d rooms", len(guest.rooms))
	}
	next, _ = guest.Update(enter)
	guest = drain(next.(LobbyModel), guestCh)
	if guest.State() != LobbyInRoom || guest.Room().Code != code {
		t.Fatalf("guest state = %v", guest.State())
	}

	guest = typeText(t, guest, "meow")
	next, _ = guest.Update(enter)
	guest = drain(next.(LobbyModel), guestCh)
	host = drain(host, hostCh)

	last := host.history[len(host.history)-1]
	if last.Text != "meow" || last.PlayerName != "Jerry" {
		t.Errorf("host last message = %+v", last)
	}
	if len(host.Room().Members) != 2 {
		t.Errorf("host sees %d members", len(host.Room().Members))
	}

	// Only the host can start.
	next, _ = guest.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	guest = next.(LobbyModel)
	if guest.errMsg == "" {
		t.Error("guest start should fail")
	}

	next, _ = host.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	host = drain(next.(LobbyModel), hostCh)
	guest = drain(guest, guestCh)
	if !host.WantsGame() || !guest.WantsGame() {
		t.Errorf("start not propagated: host=%v guest=%v", host.WantsGame(), guest.WantsGame())
	}
	if guest = guest.GameStarted(); guest.WantsGame() {
		t.Error("GameStarted should clear the request")
	}
}

func TestLobbyJoinByCodeErrors(t *testing.T) {
	hub := multiplayer.NewHub(multiplayer.DefaultHubConfig(), nil)
	l, _ := newLobby(t, hub, "p1", "Tom")

	next, _ := l.Update(runes("J"))
	l = next.(LobbyModel)
	if l.State() != LobbyEnterCode {
		t.Fatalf("state = %v", l.State())
	}
	l = typeText(t, l, "zzzzzz")
	next, _ = l.Update(enter)
	l = next.(LobbyModel)
	if !strings.Contains(l.View(), "No room with that code.") {
		t.Errorf("missing error in view")
	}

	next, _ = l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	l = next.(LobbyModel)
	next, _ = l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	l = next.(LobbyModel)
	if !l.BackToMenu() {
		t.Error("esc from browse should go back")
	}
}
