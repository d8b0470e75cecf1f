package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RauAliaxYr/ApocalypticBase/internal/registry"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresRuns  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the given mode, campaign by default.
With --runs, list the most recent runs instead.

Examples:
  apocbase scores
  apocbase scores sandbox --limit 20
  apocbase scores campaign --runs`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagScoresRuns, "runs", false, "Show recent runs instead of top scores")
}

func runScores(_ *cobra.Command, args []string) {
	modeID := "campaign"
	if len(args) > 0 {
		modeID = args[0]
	}

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'apocbase list' to see available modes.")
		os.Exit(1)
	}

	g, err := registry.Create(modeID)
	if err != nil {
		fail("creating mode: %v", err)
	}
	title := g.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	if flagScoresRuns {
		printRuns(store, modeID, title)
		return
	}

	scores, err := store.TopScores(modeID, flagScoresLimit)
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'apocbase play %s' to set the first high score!\n", modeID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetGameStats(modeID); err == nil && stats.GamesCount > 0 {
		fmt.Printf("Best: %d  Runs scored: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
}

func printRuns(store *storage.Store, modeID, title string) {
	runs, err := store.RecentRuns(modeID, flagScoresLimit)
	if err != nil {
		store.Close()
		fail("retrieving runs: %v", err)
	}

	fmt.Printf("Recent Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-7s  %-4s  %-5s  %-5s  %-6s  %-7s  %-7s  %s\n",
		"Score", "Days", "Waves", "Kills", "Towers", "Cascade", "Outcome", "Date")
	fmt.Printf("  %-7s  %-4s  %-5s  %-5s  %-6s  %-7s  %-7s  %s\n",
		"-----", "----", "-----", "-----", "------", "-------", "-------", "----")
	for _, r := range runs {
		fmt.Printf("  %-7d  %-4d  %-5d  %-5d  %-6d  %-7d  %-7s  %s\n",
			r.Score, r.Days, r.WavesCompleted, r.EnemiesKilled, r.TowersBuilt,
			r.LongestCascade, r.Outcome, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
