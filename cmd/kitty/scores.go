package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show best runs and players",
	Long: `Display the best runs for a variant, or a summary of every variant
and the top players when no variant is given.

Examples:
  kitty scores
  kitty scores classic
  kitty scores advanced --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
}

func runScores(_ *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	if a.store == nil {
		fmt.Fprintln(os.Stderr, "Error: scores database is not available")
		os.Exit(1)
	}

	if len(args) == 0 {
		printSummary(a)
		return
	}

	variant := args[0]
	info, ok := a.reg.Info(variant)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		fmt.Fprintln(os.Stderr, "Run 'kitty levels' to see available variants.")
		os.Exit(1)
	}

	runs, err := a.store.TopRuns(variant, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Runs - %s\n", info.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'kitty play %s' to set the first high score!\n", variant)
		return
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %-4s  %-5s  %-4s  %s\n", "Rank", "Player", "Score", "Fish", "Time", "Won", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-4s  %-5s  %-4s  %s\n", "----", "------", "-----", "----", "----", "---", "----")
	for i, r := range runs {
		won := ""
		if r.Outcome == game.OutcomeWon {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-16s  %-6d  %-4d  %-5s  %-4s  %s\n",
			i+1, r.PlayerName, r.Score, r.FishCollected, fmt.Sprintf("%ds", r.TimeElapsed), won,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := a.store.HighScore(variant); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func printSummary(a *app) {
	stats, err := a.store.GetAllVariantStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Variants")
	fmt.Println()
	fmt.Printf("  %-10s  %-5s  %-5s  %-4s  %-7s  %s\n", "Variant", "Runs", "Best", "Wins", "Avg", "Fish")
	for _, v := range a.reg.List() {
		s, ok := stats[v.ID]
		if !ok {
			fmt.Printf("  %-10s  %-5d  %-5s  %-4s  %-7s  %s\n", v.ID, 0, "-", "-", "-", "-")
			continue
		}
		fmt.Printf("  %-10s  %-5d  %-5d  %-4d  %-7.1f  %d\n", v.ID, s.RunsCount, s.HighScore, s.Wins, s.AvgScore, s.TotalFish)
	}

	players, err := a.store.TopPlayers(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving players: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Top Players")
	fmt.Println()
	if len(players) == 0 {
		fmt.Println("No players yet.")
		return
	}
	fmt.Printf("  %-4s  %-16s  %-6s  %-5s  %s\n", "Rank", "Player", "Best", "Games", "Fish")
	for i, p := range players {
		fmt.Printf("  %-4d  %-16s  %-6d  %-5d  %d\n", i+1, p.PlayerName, p.BestScore, p.GamesPlayed, p.TotalFish)
	}
}
