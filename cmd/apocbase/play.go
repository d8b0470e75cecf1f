package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RauAliaxYr/ApocalypticBase/internal/platform/tui"
	"github.com/RauAliaxYr/ApocalypticBase/internal/registry"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, campaign by default.

Controls:
  Arrows/WASD/hjkl - Move cursor
  Enter/Space      - Select a tile, then a neighbour to swap
  Esc/B            - Cancel selection
  N                - End the day early
  P                - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  apocbase play
  apocbase play sandbox
  apocbase play campaign --difficulty hard
  apocbase play --config ./my-base.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// openRecorder opens the scores database. A failure is reported and play
// continues without recording.
func openRecorder() (*storage.Store, tui.Recorder) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil, nil
	}
	return store, store
}

func runPlay(_ *cobra.Command, args []string) {
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

	store, recorder := openRecorder()
	gl, closeLog := gameLogger()

	runErr := tui.Run(g, recorder, runtimeConfig(), flagDifficulty, gl)

	closeLog()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running mode: %v", runErr)
	}
}
