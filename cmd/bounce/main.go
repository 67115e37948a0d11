// bounce is a launch-and-bounce puzzle game for the terminal.
//
// Usage:
//
//	bounce play [level]         - Play, from the level picker or a given level
//	bounce levels               - List levels and their progress
//	bounce scores [level]       - Show best results
//	bounce simulate <level>     - Run a launch headless and print the outcome
//	bounce serve                - Start SSH server for remote play
//	bounce api                  - Start the HTTP API
//
// Global flags:
//
//	--config <path>       - Settings file (default: ~/.bounce/config.yaml)
//	--fps <rate>          - Display refresh rate
//	--db <path>           - Progress database (default: ~/.bounce/scores.db)
//	--levels <dir>        - Directory of level files instead of the built-in set
//	--difficulty <name>   - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagFPS        int
	flagDBPath     string
	flagLevelsDir  string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bounce",
	Short: "Bounce - a launch-and-bounce puzzle game in your terminal",
	Long: `Bounce is a physics puzzle: drag to aim, release to launch the ball,
collect the stars and land in the goal.

Available commands:
  play      - Play the campaign or a single level
  levels    - Show all levels and your progress
  scores    - View best results
  simulate  - Try a launch without the TUI
  serve     - Start SSH server for remote play
  api       - Start the HTTP API

Examples:
  bounce play
  bounce play 3 --difficulty easy
  bounce levels
  bounce simulate 1 --to 167,258
  bounce serve --ssh :2222
  bounce api --http :8080`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Display refresh rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bounce/scores.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of .yaml/.toml level files (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}
