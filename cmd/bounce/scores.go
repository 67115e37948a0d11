package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best results",
	Long: `Without a level, shows the best result of every level. With a level,
shows its top scores.

Examples:
  bounce scores
  bounce scores 3
  bounce scores 3 --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings()
	if err != nil {
		fatal("%v", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		fatal("cannot load levels: %v", err)
	}

	// Open score storage
	store, err := openStore(cfg)
	if err != nil {
		fatal("opening progress database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		all, err := store.AllProgress()
		if err != nil {
			store.Close()
			fatal("retrieving progress: %v", err)
		}

		fmt.Println("Best Results")
		fmt.Println()
		fmt.Printf("  %-3s  %-20s  %-6s  %s\n", "ID", "Name", "Stars", "Score")
		fmt.Printf("  %-3s  %-20s  %-6s  %s\n", "--", "----", "-----", "-----")
		total := 0
		for _, p := range all {
			if !p.Completed {
				continue
			}
			name := "?"
			if l, err := catalog.Get(p.LevelID); err == nil {
				name = l.Name
			}
			fmt.Printf("  %-3d  %-20s  %-6d  %d\n", p.LevelID, name, p.BestStars, p.BestScore)
			total += p.BestScore
		}
		fmt.Println()
		fmt.Printf("Total: %d\n", total)
		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		store.Close()
		fatal("level must be a number, got %q", args[0])
	}
	lvl, err := catalog.Get(id)
	if err != nil {
		store.Close()
		fatal("level %d: %v\nRun 'bounce levels' to see available levels.", id, err)
	}

	// Get top scores
	scores, err := store.TopScores(id, flagScoresLimit)
	if err != nil {
		store.Close()
		fatal("retrieving scores: %v", err)
	}

	// Display scores
	fmt.Printf("High Scores - %d. %s\n", lvl.ID, lvl.Name)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bounce play %d' to set the first high score!\n", id)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Score", "Stars", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "-----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-5d  %s\n", i+1, entry.Score, entry.Stars, dateStr)
	}
}
