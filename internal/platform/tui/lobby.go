package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kitty-madness/internal/multiplayer"
)

// LobbyState represents the current screen of the online lobby.
type LobbyState int

const (
	LobbyBrowse     LobbyState = iota // Room list
	LobbyCreateRoom                   // Entering a room name
	LobbyEnterCode                    // Entering a join code
	LobbyInRoom                       // Chat and presence
)

var (
	lobbyTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	lobbyErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lobbyPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	chatSystemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	chatGameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	chatNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	presenceOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	presenceOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// membersWidth is the width of the member panel in the room view.
const membersWidth = 28

// LobbyModel handles room browsing, chat and presence.
// Hub events are delivered by the owner through HandleEvent.
type LobbyModel struct {
	hub     *multiplayer.Hub
	player  multiplayer.Player
	session multiplayer.SessionID

	state  LobbyState
	width  int
	height int

	rooms  []multiplayer.RoomInfo
	cursor int
	input  textinput.Model
	errMsg string

	room      multiplayer.RoomSnapshot
	history   []multiplayer.ChatMessage
	chat      textinput.Model
	chatLog   viewport.Model
	startGame bool

	backToMenu bool
	quitting   bool
}

// NewLobbyModel creates a lobby for one connected player.
func NewLobbyModel(hub *multiplayer.Hub, player multiplayer.Player, session multiplayer.SessionID, width, height int) LobbyModel {
	input := textinput.New()
	input.CharLimit = 32

	chat := textinput.New()
	chat.Placeholder = "Say something..."
	chat.CharLimit = multiplayer.DefaultHubConfig().MaxMessageLen
	chat.Prompt = "> "

	m := LobbyModel{
		hub:     hub,
		player:  player,
		session: session,
		width:   width,
		height:  height,
		input:   input,
		chat:    chat,
		chatLog: viewport.New(1, 1),
	}
	m.resize()
	m.refresh()
	if snap, ok := hub.RoomOf(player.ID); ok {
		// Reconnect to the room the player never left.
		if _, err := hub.JoinRoom(player, session, snap.Code); err == nil {
			m.enterRoom(snap, nil)
		}
	}
	return m
}

// Init initializes the lobby model.
func (m LobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case multiplayer.SessionEvent:
		return m.HandleEvent(msg), nil
	}

	var cmd tea.Cmd
	if m.state == LobbyInRoom {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// HandleEvent applies a hub event.
func (m LobbyModel) HandleEvent(evt multiplayer.SessionEvent) LobbyModel {
	switch e := evt.(type) {
	case multiplayer.RoomJoinedEvent:
		m.enterRoom(e.Room, e.History)
	case multiplayer.PresenceEvent:
		if e.Room.Code != m.room.Code {
			break
		}
		if e.Room.Status == multiplayer.RoomPlaying && m.room.Status != multiplayer.RoomPlaying {
			m.startGame = true
		}
		m.room = e.Room
	case multiplayer.ChatEvent:
		if e.Message.RoomID != m.room.ID {
			break
		}
		m.history = append(m.history, e.Message)
		if over := len(m.history) - multiplayer.DefaultHubConfig().HistoryLimit; over > 0 {
			m.history = m.history[over:]
		}
		m.syncChatLog()
	case multiplayer.RoomLeftEvent:
		m.leaveRoom()
	case multiplayer.RoomExpiredEvent:
		m.leaveRoom()
		m.errMsg = fmt.Sprintf("Room %s expired", e.Code)
	case multiplayer.RoomErrorEvent:
		m.errMsg = e.Message
	}
	return m
}

func (m LobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case LobbyBrowse:
		return m.handleBrowseKey(msg)
	case LobbyCreateRoom, LobbyEnterCode:
		return m.handleInputKey(msg)
	case LobbyInRoom:
		return m.handleRoomKey(msg)
	}
	return m, nil
}

func (m LobbyModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rooms)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.rooms) > 0 {
			m.join(m.rooms[m.cursor].Code)
		}
	case "c":
		m.state = LobbyCreateRoom
		m.errMsg = ""
		m.input.SetValue("")
		m.input.Placeholder = m.player.Name + "'s room"
		m.input.CharLimit = 32
		return m, m.input.Focus()
	case "J", "/":
		m.state = LobbyEnterCode
		m.errMsg = ""
		m.input.SetValue("")
		m.input.Placeholder = "ABC123"
		m.input.CharLimit = 6
		return m, m.input.Focus()
	case "r":
		m.refresh()
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LobbyModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = LobbyBrowse
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.state == LobbyCreateRoom {
			if value == "" {
				value = m.input.Placeholder
			}
			if _, err := m.hub.CreateRoom(m.player, m.session, value); err != nil {
				m.errMsg = errorText(err)
				return m, nil
			}
		} else if !m.join(value) {
			return m, nil
		}
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m LobbyModel) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.hub.LeaveRoom(m.player.ID); err != nil && !errors.Is(err, multiplayer.ErrNotInRoom) {
			m.errMsg = errorText(err)
		}
		m.leaveRoom()
		return m, nil
	case "enter":
		text := m.chat.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		if _, err := m.hub.SendChat(m.player.ID, text); err != nil {
			m.errMsg = errorText(err)
			return m, nil
		}
		m.errMsg = ""
		m.chat.SetValue("")
		return m, nil
	case "ctrl+r":
		me, _ := m.room.Member(m.player.ID)
		if err := m.hub.SetReady(m.player.ID, !me.Ready); err != nil {
			m.errMsg = errorText(err)
		}
		return m, nil
	case "ctrl+s":
		if m.room.Status == multiplayer.RoomPlaying {
			m.startGame = true
			return m, nil
		}
		if err := m.hub.StartGame(m.player.ID); err != nil {
			m.errMsg = errorText(err)
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatLog, cmd = m.chatLog.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m *LobbyModel) join(code string) bool {
	if _, err := m.hub.JoinRoom(m.player, m.session, code); err != nil {
		m.errMsg = errorText(err)
		m.refresh()
		return false
	}
	m.errMsg = ""
	return true
}

func (m *LobbyModel) enterRoom(snap multiplayer.RoomSnapshot, history []multiplayer.ChatMessage) {
	m.state = LobbyInRoom
	m.room = snap
	if history != nil {
		m.history = append([]multiplayer.ChatMessage(nil), history...)
	}
	m.input.Blur()
	m.chat.Focus()
	m.syncChatLog()
}

func (m *LobbyModel) leaveRoom() {
	m.state = LobbyBrowse
	m.room = multiplayer.RoomSnapshot{}
	m.history = nil
	m.startGame = false
	m.chat.Blur()
	m.chat.SetValue("")
	m.refresh()
}

func (m *LobbyModel) refresh() {
	m.rooms = m.hub.ListRooms()
	if m.cursor >= len(m.rooms) {
		m.cursor = max(0, len(m.rooms)-1)
	}
}

func (m *LobbyModel) resize() {
	w := max(10, m.width-membersWidth-6)
	h := max(3, m.height-8)
	m.chatLog.Width = w
	m.chatLog.Height = h
	m.chat.Width = w - 4
	m.syncChatLog()
}

func (m *LobbyModel) syncChatLog() {
	lines := make([]string, 0, len(m.history))
	for _, msg := range m.history {
		lines = append(lines, formatChatLine(msg))
	}
	m.chatLog.SetContent(lipgloss.NewStyle().Width(m.chatLog.Width).Render(strings.Join(lines, "\n")))
	m.chatLog.GotoBottom()
}

func formatChatLine(msg multiplayer.ChatMessage) string {
	stamp := msg.CreatedAt.Format("15:04")
	switch msg.Type {
	case multiplayer.MessageSystem:
		return chatSystemStyle.Render(fmt.Sprintf("%s * %s", stamp, msg.Text))
	case multiplayer.MessageGame:
		return chatGameStyle.Render(fmt.Sprintf("%s ~ %s", stamp, msg.Text))
	default:
		return fmt.Sprintf("%s %s %s", stamp, chatNameStyle.Render(msg.PlayerName+":"), msg.Text)
	}
}

// errorText turns hub errors into short user-facing text.
func errorText(err error) string {
	switch {
	case errors.Is(err, multiplayer.ErrRoomNotFound):
		return "No room with that code."
	case errors.Is(err, multiplayer.ErrRoomFull):
		return "That room is full."
	case errors.Is(err, multiplayer.ErrRoomNotWaiting):
		return "That room already started."
	case errors.Is(err, multiplayer.ErrNotHost):
		return "Only the host can start the game."
	case errors.Is(err, multiplayer.ErrMessageTooLong):
		return "Message is too long."
	case errors.Is(err, multiplayer.ErrInvalidRoomName):
		return "Room name cannot be empty."
	default:
		return err.Error()
	}
}

// View renders the current state.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	switch m.state {
	case LobbyBrowse:
		b.WriteString(m.viewBrowse())
	case LobbyCreateRoom:
		b.WriteString(m.viewInput("CREATE ROOM", "Room name:"))
	case LobbyEnterCode:
		b.WriteString(m.viewInput("JOIN ROOM", "Enter the room code:"))
	case LobbyInRoom:
		b.WriteString(m.viewRoom())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(centerText(lobbyErrorStyle.Render(m.errMsg), m.width))
	}
	return b.String()
}

func (m LobbyModel) viewBrowse() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(lobbyTitleStyle.Render("ONLINE ROOMS"), m.width))
	b.WriteString("\n\n")

	if len(m.rooms) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No open rooms. Press C to create one."), m.width))
		b.WriteString("\n")
	}
	for i, r := range m.rooms {
		line := fmt.Sprintf("%-20s %s  %d/%d", r.Name, r.Code, r.Players, r.MaxPlayers)
		if i == m.cursor {
			line = menuCursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("Enter: Join  |  C: Create  |  J: Join by code  |  R: Refresh  |  Esc: Back"), m.width))
	return b.String()
}

func (m LobbyModel) viewInput(title, prompt string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(lobbyTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(prompt, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(lobbyPanelStyle.Render(m.input.View()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render("Enter: Confirm  |  Esc: Back"), m.width))
	return b.String()
}

func (m LobbyModel) viewRoom() string {
	header := lobbyTitleStyle.Render(fmt.Sprintf("%s  [%s]", m.room.Name, m.room.Code))
	if m.room.Status == multiplayer.RoomPlaying {
		header += chatGameStyle.Render("  playing")
	}

	chat := lobbyPanelStyle.Render(m.chatLog.View() + "\n" + m.chat.View())

	var members strings.Builder
	members.WriteString(fmt.Sprintf("Players %d/%d\n", len(m.room.Members), m.room.MaxPlayers))
	for _, mem := range m.room.Members {
		dot := presenceOffStyle.Render("○")
		if mem.Online {
			dot = presenceOnStyle.Render("●")
		}
		name := mem.Name
		if mem.PlayerID == m.room.HostID {
			name += " ★"
		}
		ready := ""
		if mem.Ready {
			ready = " ready"
		}
		members.WriteString(fmt.Sprintf("%s %s\n  %d fish%s\n", dot, name, mem.FishCollected, ready))
	}
	side := lobbyPanelStyle.Width(membersWidth).Render(members.String())

	help := "Enter: Send  |  Ctrl+R: Ready  |  Ctrl+S: Start  |  Esc: Leave"
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, chat, " ", side),
		helpStyle.Render(help),
	)
}

// State returns the current lobby state.
func (m LobbyModel) State() LobbyState {
	return m.state
}

// Room returns the room the player is in.
func (m LobbyModel) Room() multiplayer.RoomSnapshot {
	return m.room
}

// WantsGame reports whether the room started a game for this player.
func (m LobbyModel) WantsGame() bool {
	return m.startGame
}

// GameStarted clears the start request once the game is running.
func (m LobbyModel) GameStarted() LobbyModel {
	m.startGame = false
	return m
}

// BackToMenu returns true if user wants to go back to menu.
func (m LobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m LobbyModel) IsQuitting() bool {
	return m.quitting
}
