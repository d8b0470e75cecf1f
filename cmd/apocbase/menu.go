package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RauAliaxYr/ApocalypticBase/internal/platform/tui"
	"github.com/RauAliaxYr/ApocalypticBase/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode and difficulty picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to pick the difficulty
and Enter to play. Tab opens the scoreboard. Quitting a run with Q
returns to the menu.

Controls:
  Up/Down/j/k     - Navigate modes
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - Scoreboard
  Q               - Quit

Examples:
  apocbase menu
  apocbase menu --fps 20
  apocbase menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, recorder := openRecorder()
	var scores tui.ScoreReader
	if store != nil {
		scores = store
	}
	gl, closeLog := gameLogger()
	defer closeLog()

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(scores, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.GameID == "" {
			break
		}

		g, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating mode: %v\n", err)
			continue
		}

		// A fresh board every run unless --seed pins it.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(g, recorder, cfg, menuResult.Difficulty, gl); err != nil {
			fmt.Fprintf(os.Stderr, "Error running mode: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
