package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagProfileName string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set your player name",
	Long: `Show the local player identity, preferences and lifetime stats.

Results are saved under your name once you pick one; until then you play
as a guest. An empty name goes back to guest.

Examples:
  kitty profile
  kitty profile --name Tom
  kitty profile --name ""`,
	Args: cobra.NoArgs,
	Run:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagProfileName, "name", "", "Set the player name")
}

func runProfile(cmd *cobra.Command, _ []string) {
	a := mustApp()
	defer a.Close()

	if cmd.Flags().Changed("name") {
		id, err := a.profiles.SetName(flagProfileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a.identity = id
		if !a.profiles.Persistent() {
			fmt.Fprintln(os.Stderr, "Warning: profile storage is unavailable, the name is not kept")
		}
	}

	id := a.identity
	fmt.Printf("Player: %s\n", id.DisplayName())
	if !id.IsGuest() {
		fmt.Printf("ID:     %s\n", id.ID)
	}

	st := a.settings
	if st.Variant != "" || st.Difficulty != "" {
		fmt.Printf("Last:   %s, %s\n", orDash(st.Variant), orDash(st.Difficulty))
	}
	if st.Muted {
		fmt.Println("Sound:  off")
	}

	if a.store == nil {
		return
	}
	stats, err := a.store.PlayerStats(id.PlayerID())
	if err != nil {
		a.logger.Warn("could not read stats", "error", err)
		return
	}
	fmt.Println()
	if stats == nil {
		fmt.Println("No runs yet. Run 'kitty play' to start.")
		return
	}
	fmt.Printf("Games: %d  Best: %d  Fish: %d\n", stats.GamesPlayed, stats.BestScore, stats.TotalFish)

	runs, err := a.store.PlayerRuns(id.PlayerID(), 5)
	if err != nil || len(runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range runs {
		fmt.Printf("  %s  %-9s  %-5d  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Variant, r.Score, r.Outcome)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
