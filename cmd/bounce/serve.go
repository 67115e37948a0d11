package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/game"
	"github.com/vovakirdan/tui-bounce/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSSHFPS      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bounce SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the level picker.
Progress is stored per-server (all users share the same unlocks and scores).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the settings

Examples:
  bounce serve                           # Listen on the configured address
  bounce serve --ssh :2222               # Listen on port 2222
  bounce serve --host-key ./my_host_key  # Use specific host key
  bounce serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from settings)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagSSHFPS, "session-fps", 30, "Refresh rate of remote sessions")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}
	logger, err := newLogger(os.Stderr, cfg, "bounce-ssh")
	if err != nil {
		fatal("%v", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		fatal("opening progress database: %v", err)
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = cfg.Server.SSHAddr
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	sshCfg.HostKeyPath = cfg.Server.HostKeyPath
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.TickRate = flagSSHFPS
	sshCfg.Play = tui.Options{
		Catalog: catalog,
		Store:   store,
		Game: game.Options{
			AimStep:      cfg.Display.AimStep,
			PreviewTicks: config.PreviewTicksForPreset(cfg.Difficulty),
		},
		Mouse: cfg.Display.Mouse,
	}

	server, err := tui.NewSSHServer(sshCfg, logger)
	if err != nil {
		store.Close()
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting bounce SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()
	store.Close()
	if serveErr != nil {
		fatal("server: %v", serveErr)
	}
}
