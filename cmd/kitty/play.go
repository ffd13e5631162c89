package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/platform/tui"
	"github.com/vovakirdan/kitty-madness/internal/replay"
)

var flagRecord string

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play in the terminal",
	Long: `Start playing the given variant in the terminal.
Without a variant the last played one is used.

Controls:
  A/D or Left/Right  - Run
  W/Up/Space         - Jump
  Enter              - Start
  R/Enter            - Play again (after the run ends)
  M                  - Toggle sound
  Esc/Q/Ctrl+C       - Quit

Terminals only report key presses, so a held key counts as released
shortly after its last repeat.

Examples:
  kitty play
  kitty play classic
  kitty play advanced --difficulty hard
  kitty play classic --record run.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write the keys of the last run to a replay script")
}

func runPlay(_ *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	variant, err := a.variant(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sound := a.sound()
	var rec *replay.Recorder
	if flagRecord != "" {
		rec = replay.NewRecorder()
	}

	a.useLogFile()
	m, err := tui.RunGame(a.reg, variant, a.preset, tui.GameOptions{
		Store:    a.store,
		Identity: a.identity,
		Logger:   a.logger,
		Sound:    sound,
		Recorder: rec,
		Config:   terminalConfig(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	a.remember(variant, sound)

	if r, ok := m.Result(); ok {
		printResult(r)
	}
	if rec != nil {
		s, err := m.RecordedScript()
		if err == nil {
			err = writeScript(flagRecord, s, a.preset)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write replay: %v\n", err)
		}
	}
}

// writeScript saves a recorded script. Empty recordings are skipped.
func writeScript(path string, s replay.Script, preset config.DifficultyPreset) error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("nothing was recorded")
	}
	s.Difficulty = string(preset)
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Replay written to %s\n", path)
	return nil
}
