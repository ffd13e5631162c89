package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/notify"
	"github.com/vovakirdan/kitty-madness/internal/replay"
)

var (
	flagRealtime      bool
	flagReplayVariant string
	flagReplaySave    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a recorded input script",
	Long: `Play a scripted sequence of held keys without a screen and print
the outcome. Scripts are written by 'kitty play --record' or by hand:

  name: walk right
  variant: classic
  steps:
    - keys: [d]
      for: 1s
    - keys: [d, w]
      for: 250ms
  until_end: true

By default no real time passes and the result is deterministic. With
--realtime the script runs against the wall clock.

Examples:
  kitty replay run.yaml
  kitty replay run.yaml --realtime
  kitty replay run.yaml --variant advanced --save`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Run against the wall clock")
	replayCmd.Flags().StringVar(&flagReplayVariant, "variant", "", "Override the script's variant")
	replayCmd.Flags().BoolVar(&flagReplaySave, "save", false, "Save a finished run to the scoreboard")
}

func runReplay(_ *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	s, err := replay.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	variant := flagReplayVariant
	if variant == "" {
		variant = s.Variant
	}
	if variant == "" {
		variant = a.cfg.DefaultVariant
	}
	if !a.reg.Exists(variant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		os.Exit(1)
	}

	preset := a.preset
	if flagDifficulty == "" && s.Difficulty != "" {
		if preset, err = config.ParsePreset(s.Difficulty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fps := s.FPS
	if fps <= 0 {
		fps = flagFPS
	}

	g, err := a.reg.Create(variant, preset, game.WithNotifier(notify.LogSink{Logger: a.logger}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	var res replay.Result
	if flagRealtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		res, err = replay.RunRealtime(ctx, g, s, game.WithFPS(fps))
	} else {
		res, err = replay.Run(g, s, game.WithFPS(fps))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := s.Name
	if name == "" {
		name = args[0]
	}
	p := res.Session.Player.Box
	fmt.Printf("Replay %s - %s, %s\n", name, variant, preset)
	fmt.Printf("  Game time: %v  Status: %v\n", res.Elapsed, res.Status)
	fmt.Printf("  Score: %d  Fish: %d  Kitty at (%.1f, %.1f)\n", res.Session.Score, res.Session.FishCollected, p.X, p.Y)
	if !res.Ended {
		return
	}
	printResult(res.Run)

	if flagReplaySave && a.store != nil {
		if _, err := a.store.SaveRun(a.identity.Record(res.Run)); err != nil {
			a.logger.Warn("could not save run", "error", err)
			return
		}
		fmt.Println("Run saved.")
	}
}
