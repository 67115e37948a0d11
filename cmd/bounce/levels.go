package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all levels",
	Long:  `Shows every level in play order with its lock state and best result.`,
	Args:  cobra.NoArgs,
	Run:   runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}

	var statuses []storage.LevelStatus
	store, err := openStore(cfg)
	if err == nil {
		statuses, err = storage.NewRecorder(store, catalog).Statuses()
		store.Close()
	}
	if err != nil {
		fmt.Printf("Warning: progress unavailable: %v\n\n", err)
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range catalog.All() {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-3s  %-*s  %-7s  %-6s  %s\n", "ID", maxNameLen, "Name", "Bounces", "Stars", "Best")
	fmt.Printf("  %-3s  %-*s  %-7s  %-6s  %s\n", "--", maxNameLen, "----", "-------", "-----", "----")

	for i, l := range catalog.All() {
		stars, best := "-", "-"
		if statuses != nil {
			st := statuses[i]
			switch {
			case !st.Unlocked:
				stars, best = "locked", ""
			case st.Progress.Completed:
				stars = strings.Repeat("★", st.Progress.BestStars) + strings.Repeat("☆", 3-st.Progress.BestStars)
				best = fmt.Sprint(st.Progress.BestScore)
			}
		}
		fmt.Printf("  %-3d  %-*s  %-7d  %-6s  %s\n", l.ID, maxNameLen, l.Name, l.MaxBounces, stars, best)
	}

	fmt.Println()
	fmt.Println("Run 'bounce play <id>' to play a level.")
}
