package gui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

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

// DefaultTPS is the simulation rate of the window.
const DefaultTPS = 60

const (
	toastHeight = 20
	maxToasts   = 3
)

// Options configures a Window.
type Options struct {
	Store    *storage.Store
	Identity profile.Identity
	Logger   *log.Logger
	Sound    *audio.SoundManager
	Recorder *replay.Recorder
	TPS      int
	Scale    float64 // Window size relative to the world
	Debug    bool    // Show the measured TPS
}

// Window is an ebiten.Game that plays one Kitty Madness variant.
// Ebiten calls Update and Draw on one goroutine, so the game is advanced
// with a stepped scheduler by one tick per Update.
type Window struct {
	game   *game.Game
	loop   *game.Loop
	sched  *game.SteppedScheduler
	canvas *ImageCanvas
	toasts *notify.ToastQueue
	opts   Options
	logger *log.Logger
	step   time.Duration

	pressed  []ebiten.Key
	released []ebiten.Key

	recStart time.Duration
	ended    *game.RunResult
	saved    bool
	saves    sync.WaitGroup
}

// NewWindow creates a window game for variant.
func NewWindow(reg *registry.Registry, variant string, preset config.DifficultyPreset, opts Options) (*Window, error) {
	if opts.TPS <= 0 {
		opts.TPS = DefaultTPS
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &Window{
		sched:  game.NewSteppedScheduler(),
		canvas: NewImageCanvas(),
		toasts: notify.NewToastQueue(notify.DefaultToastTTL, maxToasts),
		opts:   opts,
		logger: logger,
		step:   time.Second / time.Duration(opts.TPS),
	}

	sinks := []game.Notifier{w.toasts, notify.LogSink{Logger: logger}}
	if opts.Sound != nil {
		sinks = append(sinks, opts.Sound)
	}
	g, err := reg.Create(variant, preset, game.WithNotifier(notify.NewFanout(sinks...)))
	if err != nil {
		return nil, err
	}
	w.game = g
	w.loop = game.NewLoop(g, w.sched,
		game.WithFPS(opts.TPS),
		game.OnEnd(w.onEnd),
	)
	return w, nil
}

// Update reads the keyboard and advances the game by one tick.
func (w *Window) Update() error {
	w.pressed = inpututil.AppendJustPressedKeys(w.pressed[:0])
	w.released = inpututil.AppendJustReleasedKeys(w.released[:0])
	if err := w.handleKeys(w.pressed, w.released); err != nil {
		return err
	}
	w.tick()
	return nil
}

// handleKeys applies one tick worth of key transitions.
// Returns ebiten.Termination when the player quits.
func (w *Window) handleKeys(pressed, released []ebiten.Key) error {
	status := w.game.Status()
	for _, k := range pressed {
		switch {
		case k == keyQuit:
			w.loop.Stop()
			return ebiten.Termination
		case status == game.StatusNotStarted && isStartKey(k):
			w.loop.Start()
			w.recStart = w.sched.Now()
			continue
		case status.Terminal() && (isStartKey(k) || k == keyAgain):
			w.restart()
			continue
		case k == keyMute:
			w.toggleMute()
			continue
		}
		if name, ok := GameKey(k); ok {
			w.game.Input().KeyDown(name)
			w.record(func(t time.Duration) { w.opts.Recorder.KeyDown(t, name) })
		}
	}
	for _, k := range released {
		if name, ok := GameKey(k); ok {
			w.game.Input().KeyUp(name)
			w.record(func(t time.Duration) { w.opts.Recorder.KeyUp(t, name) })
		}
	}
	return nil
}

func (w *Window) restart() {
	w.ended = nil
	w.saved = false
	if w.opts.Recorder != nil {
		w.opts.Recorder = replay.NewRecorder()
	}
	w.loop.Restart()
	w.recStart = w.sched.Now()
}

func (w *Window) toggleMute() {
	if w.opts.Sound == nil {
		return
	}
	muted := !w.opts.Sound.Muted()
	w.opts.Sound.SetMuted(muted)
	if muted {
		w.toasts.Push("Sound off", notify.SeverityInfo)
	} else {
		w.toasts.Push("Sound on", notify.SeverityInfo)
	}
}

func (w *Window) record(fn func(t time.Duration)) {
	if w.opts.Recorder == nil || !w.loop.Running() {
		return
	}
	fn(w.sched.Now() - w.recStart)
}

// tick advances the clock one step and saves a finished run once.
func (w *Window) tick() {
	w.sched.Advance(w.step)
	if w.ended != nil && !w.saved {
		w.saved = true
		w.saveRun(*w.ended)
	}
}

func (w *Window) onEnd(r game.RunResult) {
	w.ended = &r
}

// saveRun stores the run in the background. Failures are logged and
// shown as a toast.
func (w *Window) saveRun(r game.RunResult) {
	store := w.opts.Store
	if store == nil {
		return
	}
	rec := w.opts.Identity.Record(r)
	w.saves.Add(1)
	go func() {
		defer w.saves.Done()
		id, err := store.SaveRun(rec)
		if err != nil {
			w.logger.Warn("could not save run", "error", err)
			w.toasts.Push("Could not save your result", notify.SeverityWarning)
			return
		}
		w.logger.Debug("run saved", "id", id)
	}()
}

// Close stops the loop and waits for pending saves.
func (w *Window) Close() {
	w.loop.Stop()
	w.saves.Wait()
}

// Draw renders the game and the toast banners.
func (w *Window) Draw(screen *ebiten.Image) {
	w.canvas.Target(screen)
	w.game.Render(w.canvas)
	w.drawToasts(screen)
	if w.opts.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %0.1f", ebiten.ActualTPS()), 10, screen.Bounds().Dy()-20)
	}
}

func (w *Window) drawToasts(screen *ebiten.Image) {
	world := w.game.Rules().World
	toasts := w.toasts.Active()
	for i, t := range toasts {
		y := float64(i * toastHeight)
		bg := toastColors[t.Severity]
		vector.DrawFilledRect(screen, float32(world.Width/2), float32(y), float32(world.Width/2), toastHeight, bg, false)
		w.canvas.DrawLabel(core.NewRect(world.Width/2, y, world.Width/2, toastHeight), t.Message, core.ColorBrightWhite)
	}
}

// Layout keeps the logical screen at the world size.
func (w *Window) Layout(_, _ int) (int, int) {
	world := w.game.Rules().World
	return int(world.Width), int(world.Height)
}

// Game returns the driven game.
func (w *Window) Game() *game.Game {
	return w.game
}

// Result returns the last finished run, if any.
func (w *Window) Result() (game.RunResult, bool) {
	if w.ended == nil {
		return game.RunResult{}, false
	}
	return *w.ended, true
}

// RecordedScript returns the keys recorded since the run started.
func (w *Window) RecordedScript() (replay.Script, error) {
	if w.opts.Recorder == nil {
		return replay.Script{}, fmt.Errorf("gui: recording is off")
	}
	s := w.opts.Recorder.Script(w.sched.Now() - w.recStart)
	s.Variant = w.game.Rules().Variant
	s.FPS = w.opts.TPS
	return s, nil
}

// RunWindow opens a window and plays until it is closed or Escape is
// pressed. It returns the window for inspecting the final run.
func RunWindow(reg *registry.Registry, variant string, preset config.DifficultyPreset, opts Options) (*Window, error) {
	w, err := NewWindow(reg, variant, preset, opts)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	world := w.game.Rules().World
	ebiten.SetWindowSize(int(world.Width*w.opts.Scale), int(world.Height*w.opts.Scale))
	ebiten.SetWindowTitle("Kitty Madness - " + w.game.Rules().Gameplay.Title)
	ebiten.SetTPS(w.opts.TPS)

	if err := ebiten.RunGame(w); err != nil {
		return w, fmt.Errorf("gui: %w", err)
	}
	return w, nil
}
