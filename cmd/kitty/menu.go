package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Left/Right to change the difficulty and
Enter to play. After a run you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Difficulty
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  kitty menu
  kitty menu --fps 30
  kitty menu --db ./kitty.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.Close()

	sound := a.sound()
	a.useLogFile()
	cfg := terminalConfig()

	for {
		res, err := tui.RunMenu(a.reg, cfg, a.preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = res.Config
		if res.Preset != "" {
			a.preset = res.Preset
		}

		if res.Quit {
			break
		}

		if res.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(a.reg, a.store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if res.Variant == "" {
			break
		}

		m, err := tui.RunGame(a.reg, res.Variant, a.preset, tui.GameOptions{
			Store:    a.store,
			Identity: a.identity,
			Logger:   a.logger,
			Sound:    sound,
			Config:   cfg,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		a.remember(res.Variant, sound)
		if m.IsQuitting() && !m.BackToMenu() {
			break
		}
	}
}
