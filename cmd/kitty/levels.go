package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/game"
	"github.com/vovakirdan/kitty-madness/internal/level"
)

var flagLevelsDir string

var levelsCmd = &cobra.Command{
	Use:   "levels [variant]",
	Short: "List variants and validate their levels",
	Long: `Shows every variant with its levels. With a variant, only that one.

With --dir, loads the YAML levels in a directory instead and checks that
they are playable under the variant's rules.

Examples:
  kitty levels
  kitty levels advanced
  kitty levels advanced --dir ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelsDir, "dir", "", "Directory of YAML levels to validate")
}

func runLevels(_ *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	variants := a.cfg.VariantNames()
	if len(args) > 0 {
		if !a.reg.Exists(args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
			os.Exit(1)
		}
		variants = []string{args[0]}
	}

	failed := false
	for _, v := range variants {
		rules, err := game.RulesFor(a.cfg, v, a.preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if flagLevelsDir != "" {
			rules.Gameplay.LevelsDir = flagLevelsDir
		}

		fmt.Printf("%s (%s) - %ds", rules.Gameplay.Title, v, rules.Gameplay.TimeLimit)
		if rules.Gameplay.RequireDelivery {
			fmt.Print(", deliver fish to the scratcher")
		}
		fmt.Println()

		if !printLevels(rules) {
			failed = true
		}
		fmt.Println()
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("Run 'kitty play <variant>' to play.")
}

// printLevels prints one line per level and every validation problem.
// Returns false when a level is unplayable.
func printLevels(rules game.Rules) bool {
	var (
		levels []level.Level
		err    error
	)
	if dir := rules.Gameplay.LevelsDir; dir != "" {
		levels, err = level.NewLoader(dir).LoadAll()
	} else {
		levels, err = level.Pack(rules.Gameplay.LevelPack)
	}
	if err != nil {
		fmt.Printf("  ! %v\n", err)
	}
	if len(levels) == 0 {
		fmt.Println("  No levels found.")
		return false
	}

	ok := err == nil
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}
	fmt.Printf("  %-*s  %-9s  %-4s  %-4s  %s\n", maxIDLen, "ID", "Platforms", "Fish", "Goal", "Name")
	for _, l := range levels {
		goal := "-"
		if l.HasGoal() {
			goal = "yes"
		}
		fmt.Printf("  %-*s  %-9d  %-4d  %-4s  %s\n", maxIDLen, l.ID, len(l.Platforms), l.FishCount(), goal, l.Name)
		if err := level.Validate(l, rules.LevelRules()); err != nil {
			fmt.Printf("  ! %v\n", err)
			ok = false
		}
	}
	return ok
}
