package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kitty-madness/internal/audio"
	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/notify"
	"github.com/vovakirdan/kitty-madness/internal/profile"
	"github.com/vovakirdan/kitty-madness/internal/registry"
	"github.com/vovakirdan/kitty-madness/internal/replay"
	"github.com/vovakirdan/kitty-madness/internal/storage"
)

// maxTickStep caps how much game time one tick may advance, so a stalled
// terminal does not fast-forward the run.
const maxTickStep = 250 * time.Millisecond

// toastRows is the number of lines reserved under the playfield.
const toastRows = 2

// GameOptions configures a GameModel.
type GameOptions struct {
	Store      *storage.Store
	Identity   profile.Identity
	Logger     *log.Logger
	Sound      *audio.SoundManager
	Recorder   *replay.Recorder
	Config     core.RuntimeConfig
	OnResult   func(game.RunResult) // Called once per finished run
	Standalone bool                 // Back quits the program
}

// runSavedMsg reports the outcome of an asynchronous SaveRun.
type runSavedMsg struct {
	ID  int64
	Err error
}

// GameModel is the Bubble Tea model for one Kitty Madness game.
type GameModel struct {
	game   *game.Game
	loop   *game.Loop
	sched  *game.SteppedScheduler
	screen *core.Screen
	canvas *ScreenCanvas
	toasts *notify.ToastQueue
	held   *heldKeys
	keys   GameKeyMap
	help   help.Model
	opts   GameOptions
	logger *log.Logger

	tickID   int64
	width    int
	height   int
	lastTick time.Time
	recStart time.Duration

	ended      *game.RunResult
	saved      bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for variant. Events go to the on-screen
// toasts, the logger and the sound manager when one is set.
func NewGameModel(reg *registry.Registry, variant string, preset config.DifficultyPreset, opts GameOptions) (*GameModel, error) {
	if opts.Config.TickRate <= 0 {
		opts.Config = core.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &GameModel{
		sched:  game.NewSteppedScheduler(),
		toasts: notify.NewToastQueue(notify.DefaultToastTTL, toastRows),
		held:   newHeldKeys(DefaultHoldDelay, DefaultHoldRepeat),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		opts:   opts,
		logger: logger,
		tickID: nextTickID(),
		width:  opts.Config.ScreenW,
		height: opts.Config.ScreenH,
	}

	sinks := []game.Notifier{m.toasts, notify.LogSink{Logger: logger}}
	if opts.Sound != nil {
		sinks = append(sinks, opts.Sound)
	}
	g, err := reg.Create(variant, preset, game.WithNotifier(notify.NewFanout(sinks...)))
	if err != nil {
		return nil, err
	}
	m.game = g

	w, h := playfieldSize(m.width, m.height)
	m.screen = core.NewScreen(w, h)
	m.canvas = NewScreenCanvas(m.screen, g.Rules().World.Width, g.Rules().World.Height)
	m.loop = game.NewLoop(g, m.sched,
		game.WithFPS(opts.Config.TickRate),
		game.OnEnd(m.onEnd),
	)
	return m, nil
}

// playfieldSize leaves room for the toast and help lines.
func playfieldSize(w, h int) (int, int) {
	h -= toastRows + 1
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	return w, h
}

// Init starts the tick loop. The run itself starts on Enter.
func (m *GameModel) Init() tea.Cmd {
	return tickCmd(m.tickID, m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m *GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(playfieldSize(msg.Width, msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		return m.handleTick(msg.Time)

	case runSavedMsg:
		if msg.Err != nil {
			m.logger.Warn("could not save run", "error", msg.Err)
			m.toasts.Push("Could not save your result", notify.SeverityWarning)
		} else {
			m.logger.Debug("run saved", "id", msg.ID)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m *GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	status := m.game.Status()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.loop.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.loop.Stop()
		m.backToMenu = true
		if m.opts.Standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case status == game.StatusNotStarted && key.Matches(msg, m.keys.Start):
		m.loop.Start()
		m.recStart = m.sched.Now()
		return m, nil

	case status.Terminal() && key.Matches(msg, m.keys.Restart):
		m.releaseAll()
		m.ended = nil
		m.saved = false
		if m.opts.Recorder != nil {
			m.opts.Recorder = replay.NewRecorder()
		}
		m.loop.Restart()
		m.recStart = m.sched.Now()
		return m, nil

	case key.Matches(msg, m.keys.Mute):
		if m.opts.Sound != nil {
			muted := !m.opts.Sound.Muted()
			m.opts.Sound.SetMuted(muted)
			if muted {
				m.toasts.Push("Sound off", notify.SeverityInfo)
			} else {
				m.toasts.Push("Sound on", notify.SeverityInfo)
			}
		}
		return m, nil
	}

	if k, ok := GameKey(msg); ok {
		m.pressKey(k)
	}
	return m, nil
}

// pressKey marks k held. Pressing one direction releases the other, since
// the terminal never tells us the previous key went up.
func (m *GameModel) pressKey(k string) {
	switch {
	case slices.Contains(game.LeftKeys, k):
		m.releaseKeys(game.RightKeys)
	case slices.Contains(game.RightKeys, k):
		m.releaseKeys(game.LeftKeys)
	}
	if m.held.press(k, m.now()) {
		m.game.Input().KeyDown(k)
		m.record(func(t time.Duration) { m.opts.Recorder.KeyDown(t, k) })
	}
}

func (m *GameModel) releaseKeys(keys []string) {
	for _, k := range keys {
		if m.held.release(k) {
			m.keyUp(k)
		}
	}
}

func (m *GameModel) releaseAll() {
	for _, k := range m.held.releaseAll() {
		m.keyUp(k)
	}
}

func (m *GameModel) keyUp(k string) {
	m.game.Input().KeyUp(k)
	m.record(func(t time.Duration) { m.opts.Recorder.KeyUp(t, k) })
}

func (m *GameModel) record(fn func(t time.Duration)) {
	if m.opts.Recorder == nil || !m.loop.Running() {
		return
	}
	fn(m.sched.Now() - m.recStart)
}

// now is the time of the latest tick, or the wall clock before the first.
func (m *GameModel) now() time.Time {
	if m.lastTick.IsZero() {
		return time.Now()
	}
	return m.lastTick
}

// handleTick advances the game clock by the real time since the last tick.
func (m *GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = min(now.Sub(m.lastTick), maxTickStep)
	}
	m.lastTick = now

	for _, k := range m.held.expire(now) {
		m.keyUp(k)
	}
	if dt > 0 {
		m.sched.Advance(dt)
	}

	cmds := []tea.Cmd{tickCmd(m.tickID, m.opts.Config.TickRate)}
	if m.ended != nil && !m.saved {
		m.saved = true
		m.releaseAll()
		cmds = append(cmds, saveRunCmd(m.opts.Store, m.opts.Identity, *m.ended))
	}
	return m, tea.Batch(cmds...)
}

func (m *GameModel) onEnd(r game.RunResult) {
	m.ended = &r
	if m.opts.OnResult != nil {
		m.opts.OnResult(r)
	}
}

// saveRunCmd stores a finished run off the update goroutine.
func saveRunCmd(store *storage.Store, id profile.Identity, r game.RunResult) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		runID, err := store.SaveRun(id.Record(r))
		return runSavedMsg{ID: runID, Err: err}
	}
}

// View renders the playfield, toasts and key help.
func (m *GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.canvas)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")

	toasts := m.toasts.Active()
	lines := strings.Split(renderToasts(toasts, m.width), "\n")
	for i := range toastRows {
		if i < len(toasts) {
			b.WriteString(lines[i])
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Game returns the driven game.
func (m *GameModel) Game() *game.Game {
	return m.game
}

// Result returns the last finished run, if any.
func (m *GameModel) Result() (game.RunResult, bool) {
	if m.ended == nil {
		return game.RunResult{}, false
	}
	return *m.ended, true
}

// RecordedScript returns the keys recorded since the run started.
func (m *GameModel) RecordedScript() (replay.Script, error) {
	if m.opts.Recorder == nil {
		return replay.Script{}, fmt.Errorf("tui: recording is off")
	}
	s := m.opts.Recorder.Script(m.sched.Now() - m.recStart)
	s.Variant = m.game.Rules().Variant
	s.FPS = m.opts.Config.TickRate
	return s, nil
}

// IsQuitting returns true if user requested to quit entirely.
func (m *GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m *GameModel) BackToMenu() bool {
	return m.backToMenu
}

// RunGame runs a single game in the terminal and returns the final model.
func RunGame(reg *registry.Registry, variant string, preset config.DifficultyPreset, opts GameOptions) (*GameModel, error) {
	opts.Standalone = true
	model, err := NewGameModel(reg, variant, preset, opts)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return model, err
	}
	return model, nil
}
