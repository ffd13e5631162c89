package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/kitty-madness/internal/audio"
	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/profile"
	"github.com/vovakirdan/kitty-madness/internal/registry"
	"github.com/vovakirdan/kitty-madness/internal/storage"
)

// logFile receives logs while a full-screen UI owns the terminal.
const logFile = "~/.kitty/kitty.log"

// app holds what every command shares.
type app struct {
	cfg      config.KittyConfig
	reg      *registry.Registry
	preset   config.DifficultyPreset
	store    *storage.Store // nil when the database cannot be opened
	profiles *profile.Store
	identity profile.Identity
	settings profile.Settings
	logger   *log.Logger
	closers  []io.Closer
}

// newApp loads the configuration, profile and database.
// A missing database or profile store degrades to playing without them.
func newApp(logger *log.Logger) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		reg:    registry.New(cfg, registry.WithLogger(logger)),
		logger: logger,
	}

	a.profiles, err = profile.Open(profile.AppName)
	if err != nil {
		logger.Warn("profile unavailable, playing as guest", "error", err)
		a.profiles = profile.NewMemoryStore()
	}
	if a.identity, err = a.profiles.Identity(); err != nil {
		logger.Warn("could not read identity", "error", err)
	}
	if a.settings, err = a.profiles.Settings(); err != nil {
		logger.Warn("could not read settings", "error", err)
	}

	if a.preset, err = config.ParsePreset(flagDifficulty); err != nil {
		return nil, err
	}
	if flagDifficulty == "" {
		if p, err := config.ParsePreset(a.settings.Difficulty); err == nil {
			a.preset = p
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, results will not be saved", "error", err)
	} else {
		a.store = store
		a.closers = append(a.closers, store)
	}
	return a, nil
}

// Close releases the database and log file.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// variant resolves the variant argument, then the last played one, then
// the configured default.
func (a *app) variant(args []string) (string, error) {
	if len(args) > 0 {
		if !a.reg.Exists(args[0]) {
			return "", fmt.Errorf("unknown variant %q (run 'kitty levels' to see variants)", args[0])
		}
		return args[0], nil
	}
	if a.settings.Variant != "" && a.reg.Exists(a.settings.Variant) {
		return a.settings.Variant, nil
	}
	return a.cfg.DefaultVariant, nil
}

// remember stores the last used variant, difficulty and mute state.
// A --mute run does not change the saved mute state.
func (a *app) remember(variant string, sound *audio.SoundManager) {
	a.settings.Variant = variant
	a.settings.Difficulty = string(a.preset)
	if sound != nil && !flagMute {
		a.settings.Muted = sound.Muted()
	}
	if err := a.profiles.SaveSettings(a.settings); err != nil {
		a.logger.Warn("could not save settings", "error", err)
	}
}

// sound starts the speaker. Audio problems never stop a game.
func (a *app) sound() *audio.SoundManager {
	sm := audio.NewSoundManager()
	if err := sm.Initialize(); err != nil {
		a.logger.Warn("sound disabled", "error", err)
		return nil
	}
	a.closers = append(a.closers, closerFunc(sm.Cleanup))
	sm.SetMuted(flagMute || a.settings.Muted)
	return sm
}

// useLogFile redirects logging to logFile while a full-screen UI runs.
func (a *app) useLogFile() {
	path, err := expandHome(logFile)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		a.logger.SetOutput(io.Discard)
		return
	}
	a.closers = append(a.closers, f)
	a.logger.SetOutput(f)
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// newLogger creates the command logger on stderr.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kitty",
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger
}

// mustApp builds the app or exits.
func mustApp() *app {
	a, err := newApp(newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

// terminalConfig sizes the playfield to the terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	return cfg
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// printResult prints the summary of a finished run.
func printResult(r game.RunResult) {
	switch r.Outcome {
	case game.OutcomeWon:
		fmt.Printf("You won! Final score: %d\n", r.Score)
	default:
		fmt.Printf("Time's up! Final score: %d\n", r.Score)
	}
	fmt.Printf("  Fish: %d  Levels: %d  Time: %ds\n", r.FishCollected, r.LevelsCleared, r.TimeElapsed)
}
