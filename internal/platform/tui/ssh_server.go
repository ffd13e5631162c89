package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/multiplayer"
	"github.com/vovakirdan/kitty-madness/internal/notify"
	"github.com/vovakirdan/kitty-madness/internal/profile"
	"github.com/vovakirdan/kitty-madness/internal/registry"
	"github.com/vovakirdan/kitty-madness/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.kitty/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Variant is the variant started from a room.
	Variant string

	// Preset is the difficulty of every game on this server.
	Preset config.DifficultyPreset
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Variant:     config.VariantAdvanced,
		Preset:      config.DifficultyNormal,
	}
}

// sessionKey stores the hub session in the SSH context.
type sessionKey struct{}

// SSHServer wraps a Wish SSH server with the room hub.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	hub    *multiplayer.Hub
	reg    *registry.Registry
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. store may be nil; rooms then live
// in memory only.
func NewSSHServer(cfg SSHServerConfig, reg *registry.Registry, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "kitty-ssh",
		})
	}

	hub := multiplayer.NewHub(multiplayer.DefaultHubConfig(), multiplayer.NewSessionRegistry())
	hub.SetLogger(logger)
	if store != nil {
		hub.SetPersister(store)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		hub:    hub,
		reg:    reg,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".kitty", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middleware runs last to first: logging wraps presence wraps the program.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.presenceMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionID derives the hub session id from the SSH session.
func sessionID(s ssh.Session) multiplayer.SessionID {
	return multiplayer.SessionID(fmt.Sprintf("%s-%s", s.User(), s.Context().SessionID()))
}

// playerFor maps an SSH user to a hub player.
func playerFor(s ssh.Session) multiplayer.Player {
	return multiplayer.Player{ID: "ssh:" + s.User(), Name: s.User()}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	ch, _ := sshSession.Context().Value(sessionKey{}).(*multiplayer.ChannelSession)
	if ch == nil {
		s.logger.Error("session missing hub handle", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
	}

	model := NewSessionModel(SessionDeps{
		Registry: s.reg,
		Store:    s.store,
		Hub:      s.hub,
		Logger:   s.logger.With("user", sshSession.User()),
		Variant:  s.config.Variant,
		Preset:   s.config.Preset,
	}, cfg, playerFor(sshSession), ch)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// presenceMiddleware registers the session with the hub for its lifetime.
func (s *SSHServer) presenceMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		ch := multiplayer.NewChannelSession(sessionID(sshSession), multiplayer.DefaultEventBuffer)
		sshSession.Context().SetValue(sessionKey{}, ch)
		s.hub.Sessions().Register(ch)

		next(sshSession)

		ch.Close()
		s.hub.Disconnect(ch.ID())
		s.hub.Sessions().Unregister(ch.ID())
		if n := ch.Dropped(); n > 0 {
			s.logger.Warn("room events dropped", "user", sshSession.User(), "count", n)
		}
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.hub.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server and flushes pending room writes.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.hub.Stop()
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Hub returns the room hub.
func (s *SSHServer) Hub() *multiplayer.Hub {
	return s.hub
}

// SessionDeps are the shared services a session model uses.
type SessionDeps struct {
	Registry *registry.Registry
	Store    *storage.Store
	Hub      *multiplayer.Hub
	Logger   *log.Logger
	Variant  string
	Preset   config.DifficultyPreset
}

// sessionMode is the screen a session is on.
type sessionMode int

const (
	modeMenu sessionMode = iota
	modeGame
	modeLobby
	modeScores
)

// hubEventMsg carries a hub event into the Bubble Tea loop.
type hubEventMsg struct {
	evt multiplayer.SessionEvent
}

// SessionModel manages the full session flow: menu, game, lobby and scores.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	deps     SessionDeps
	config   core.RuntimeConfig
	player   multiplayer.Player
	handle   *multiplayer.ChannelSession
	mode     sessionMode
	back     sessionMode // Where a finished game returns to
	menu     MenuModel
	game     *GameModel
	lobby    *LobbyModel
	scores   ScoreboardModel
	preset   config.DifficultyPreset
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig, player multiplayer.Player, handle *multiplayer.ChannelSession) *SessionModel {
	m := &SessionModel{
		deps:   deps,
		config: cfg,
		player: player,
		handle: handle,
		preset: deps.Preset,
	}
	m.menu = m.newMenu()
	return m
}

func (m *SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.deps.Registry, m.config, m.preset, m.deps.Hub != nil).
		WithGreeting(fmt.Sprintf("Welcome, %s!", m.player.Name))
}

// Init starts listening for hub events.
func (m *SessionModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next hub event.
func (m *SessionModel) waitForEvent() tea.Cmd {
	if m.handle == nil {
		return nil
	}
	events, done := m.handle.Events(), m.handle.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return hubEventMsg{evt: evt}
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the session.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case hubEventMsg:
		return m, tea.Batch(m.handleHubEvent(msg.evt), m.waitForEvent())
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeGame:
		cmd = m.updateGame(msg)
	case modeLobby:
		cmd = m.updateLobby(msg)
	case modeScores:
		cmd = m.updateScores(msg)
	default:
		cmd = m.updateMenu(msg)
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, cmd
}

// handleHubEvent keeps the lobby current even while a game runs.
func (m *SessionModel) handleHubEvent(evt multiplayer.SessionEvent) tea.Cmd {
	if m.lobby == nil {
		lobby := NewLobbyModel(m.deps.Hub, m.player, m.handle.ID(), m.config.ScreenW, m.config.ScreenH)
		m.lobby = &lobby
	}
	*m.lobby = m.lobby.HandleEvent(evt)

	switch e := evt.(type) {
	case multiplayer.ChatEvent:
		if m.mode == modeGame && e.Message.PlayerID != m.player.ID {
			text := e.Message.Text
			if e.Message.PlayerName != "" {
				text = e.Message.PlayerName + ": " + text
			}
			m.game.toasts.Push(text, notify.SeverityInfo)
		}
	case multiplayer.RoomJoinedEvent:
		if m.mode == modeMenu {
			m.mode = modeLobby
		}
	}

	if m.mode == modeLobby && m.lobby.WantsGame() {
		return m.startGame(m.deps.Variant, modeLobby)
	}
	return nil
}

func (m *SessionModel) updateMenu(msg tea.Msg) tea.Cmd {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return nil
	}
	sel := m.menu.Selected()
	if sel == nil {
		return cmd
	}
	m.preset = m.menu.Preset()
	m.config = m.menu.Config()
	m.menu = m.newMenu()

	switch sel.Kind {
	case MenuItemScores:
		m.scores = NewScoreboardModel(m.deps.Registry, m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.mode = modeScores
		return nil
	case MenuItemLobby:
		if m.lobby == nil {
			lobby := NewLobbyModel(m.deps.Hub, m.player, m.handle.ID(), m.config.ScreenW, m.config.ScreenH)
			m.lobby = &lobby
		}
		m.mode = modeLobby
		return nil
	default:
		return m.startGame(sel.Variant.ID, modeMenu)
	}
}

// startGame opens a game; its result is reported to the player's room.
func (m *SessionModel) startGame(variant string, back sessionMode) tea.Cmd {
	gm, err := NewGameModel(m.deps.Registry, variant, m.preset, GameOptions{
		Store:    m.deps.Store,
		Identity: profile.Identity{ID: m.player.ID, Name: m.player.Name},
		Logger:   m.deps.Logger,
		Config:   m.config,
		OnResult: func(r game.RunResult) {
			if m.deps.Hub != nil {
				m.deps.Hub.ReportRun(m.player.ID, r.FishCollected, r.Score)
			}
		},
	})
	if err != nil {
		m.deps.Logger.Error("could not create game", "variant", variant, "error", err)
		return nil
	}
	if m.lobby != nil {
		*m.lobby = m.lobby.GameStarted()
	}
	m.game = gm
	m.back = back
	m.mode = modeGame
	return gm.Init()
}

func (m *SessionModel) updateGame(msg tea.Msg) tea.Cmd {
	_, cmd := m.game.Update(msg)

	if m.game.IsQuitting() {
		m.quitting = true
		return nil
	}
	if m.game.BackToMenu() {
		m.game = nil
		m.mode = m.back
		if m.mode == modeMenu {
			m.menu = m.newMenu()
		}
		return nil
	}
	return cmd
}

func (m *SessionModel) updateLobby(msg tea.Msg) tea.Cmd {
	next, cmd := m.lobby.Update(msg)
	lobby := next.(LobbyModel)
	m.lobby = &lobby

	switch {
	case lobby.IsQuitting():
		m.quitting = true
		return nil
	case lobby.BackToMenu():
		lobby.backToMenu = false
		m.mode = modeMenu
		m.menu = m.newMenu()
		return nil
	case lobby.WantsGame():
		return m.startGame(m.deps.Variant, modeLobby)
	}
	return cmd
}

func (m *SessionModel) updateScores(msg tea.Msg) tea.Cmd {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return nil
	case m.scores.IsGoingBack():
		m.mode = modeMenu
		m.menu = m.newMenu()
		return nil
	}
	return cmd
}

// View renders the current view.
func (m *SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeLobby:
		return m.lobby.View()
	case modeScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
