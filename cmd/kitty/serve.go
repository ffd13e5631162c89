package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kitty-madness/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagRoomVariant string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Kitty Madness SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a variant picker and the
online rooms: create a room, share its code, chat and start a game
together. Results are stored per-server (all users share the scoreboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.kitty/host_key

Examples:
  kitty serve                           # Listen on :23234 with auto-generated key
  kitty serve --ssh :2222               # Listen on port 2222
  kitty serve --host-key ./my_host_key  # Use specific host key
  kitty serve --room-variant classic    # Rooms start the classic variant

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagRoomVariant, "room-variant", defaults.Variant, "Variant started from rooms")
}

func runServe(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.Close()

	if !a.reg.Exists(flagRoomVariant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", flagRoomVariant)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Variant:     flagRoomVariant,
		Preset:      a.preset,
	}

	server, err := tui.NewSSHServer(cfg, a.reg, a.store, a.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Kitty Madness SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
