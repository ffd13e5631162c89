// kitty is a platformer about a cat collecting fish, playable in the
// terminal, in a desktop window and over SSH.
//
// Usage:
//
//	kitty play [variant]       - Play in the terminal
//	kitty window [variant]     - Play in a desktop window
//	kitty menu                 - Pick variants interactively
//	kitty levels [variant]     - List or validate levels
//	kitty scores [variant]     - Show best runs and players
//	kitty replay <script>      - Replay a recorded input script
//	kitty serve                - Start the SSH server with rooms and chat
//	kitty profile              - Show or set the local player name
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--db <path>            - Set database path (default: ~/.kitty/kitty.db)
//	--config <path>        - Use a custom kitty.yaml
//	--difficulty <preset>  - easy, normal or hard
//	--log-level <level>    - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagMute       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kitty",
	Short: "Kitty Madness - help the kitty collect every fish",
	Long: `Kitty Madness is a small platformer: run, jump and collect fish
before the clock runs out. The advanced variant also asks you to deliver
the fish to the scratcher.

Available commands:
  play     - Play in the terminal
  window   - Play in a desktop window
  menu     - Interactive variant picker
  levels   - List or validate levels
  scores   - View best runs and players
  replay   - Replay a recorded input script
  serve    - Start SSH server with rooms and chat
  profile  - Show or set your player name

Examples:
  kitty play classic
  kitty window advanced --difficulty hard
  kitty menu
  kitty serve --ssh :2222
  kitty scores advanced`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom kitty.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard (default: last used)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
}
