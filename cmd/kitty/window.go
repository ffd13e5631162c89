package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/platform/gui"
	"github.com/vovakirdan/kitty-madness/internal/replay"
)

var (
	flagScale       float64
	flagWindowDebug bool
)

var windowCmd = &cobra.Command{
	Use:   "window [variant]",
	Short: "Play in a desktop window",
	Long: `Open a desktop window and play the given variant.
Without a variant the last played one is used.

Controls:
  A/D or Left/Right  - Run
  W/Up/Space         - Jump
  Enter              - Start
  R/Enter            - Play again (after the run ends)
  M                  - Toggle sound
  Esc                - Quit

Examples:
  kitty window
  kitty window advanced --scale 1.5
  kitty window classic --record run.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWindow,
}

func init() {
	windowCmd.Flags().Float64Var(&flagScale, "scale", 1, "Window size relative to the 800x600 play field")
	windowCmd.Flags().BoolVar(&flagWindowDebug, "debug", false, "Show the measured tick rate")
	windowCmd.Flags().StringVar(&flagRecord, "record", "", "Write the keys of the last run to a replay script")
}

func runWindow(_ *cobra.Command, args []string) {
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

	w, err := gui.RunWindow(a.reg, variant, a.preset, gui.Options{
		Store:    a.store,
		Identity: a.identity,
		Logger:   a.logger,
		Sound:    sound,
		Recorder: rec,
		TPS:      flagFPS,
		Scale:    flagScale,
		Debug:    flagWindowDebug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	a.remember(variant, sound)

	if r, ok := w.Result(); ok {
		printResult(r)
	}
	if rec != nil {
		s, err := w.RecordedScript()
		if err == nil {
			err = writeScript(flagRecord, s, a.preset)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write replay: %v\n", err)
		}
	}
}
