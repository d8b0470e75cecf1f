package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/sim"
)

var (
	flagSimBoards     int
	flagSimSwaps      int
	flagSimWorkers    int
	flagSimNoProgress bool
	flagSimJSON       bool
	flagSimDifficulty string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play boards headlessly and report statistics",
	Long: `Fill boards from the configured spawn pool, play random valid swaps
and report match rates, cascade depth and tower evolution.

Every board is seeded from --seed plus its index, so a report is
reproducible for the same seed, config and swap count regardless of
--workers.

Examples:
  apocbase simulate
  apocbase simulate --boards 1000 --swaps 100 --workers 8 --seed 7
  apocbase simulate --config ./wide-board.yaml --json`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimBoards, "boards", 100, "Number of boards to play")
	simulateCmd.Flags().IntVar(&flagSimSwaps, "swaps", 30, "Swaps per board")
	simulateCmd.Flags().IntVar(&flagSimWorkers, "workers", 4, "Boards played in parallel")
	simulateCmd.Flags().BoolVar(&flagSimNoProgress, "no-progress", false, "Hide the progress bar")
	simulateCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print the report as JSON")
	simulateCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "", "Apply a difficulty preset to the config")
}

func runSimulate(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	if p := config.ParsePreset(flagSimDifficulty); p != "" {
		config.ApplyPreset(&cfg, p)
	}

	s, err := sim.New(&cfg, sim.WithLogger(logger.WithPrefix("apocbase-sim")))
	if err != nil {
		fail("%v", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := sim.Options{
		Boards:  flagSimBoards,
		Swaps:   flagSimSwaps,
		Workers: flagSimWorkers,
		Seed:    seed,
	}
	if !flagSimNoProgress && !flagSimJSON {
		opts.Progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := s.Run(ctx, opts)
	if err != nil {
		stop()
		fail("%v", err)
	}

	if flagSimJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			stop()
			fail("encoding report: %v", err)
		}
		return
	}
	fmt.Print(report.String())
}
