// apocbase is a match-3 tower defense played in the terminal.
//
// Usage:
//
//	apocbase list              - List available modes
//	apocbase play <mode>       - Play a mode
//	apocbase menu              - Pick modes and difficulty interactively
//	apocbase serve             - Start SSH server for remote play
//	apocbase api               - Start the JSON API
//	apocbase scores <mode>     - Show high scores and recent runs
//	apocbase simulate          - Play boards headlessly and report statistics
//	apocbase defs              - Print the built-in configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.apocbase/scores.db)
//	--config <path>     - Load a custom YAML config
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	// Also registers the campaign and sandbox modes.
	"github.com/RauAliaxYr/ApocalypticBase/internal/game"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "apocbase",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "apocbase",
	Short: "Apocalyptic Base - match-3 tower defense in your terminal",
	Long: `Apocalyptic Base is a match-3 tower defense game. Swap tiles to match
resources, grow them into towers and hold the base through the night waves.

Available commands:
  list      - Show all available modes
  play      - Play a specific mode directly
  menu      - Interactive mode and difficulty picker
  serve     - Start SSH server for remote play
  api       - Start the JSON API
  scores    - View high scores and recent runs
  simulate  - Play boards headlessly and report statistics
  defs      - Print the built-in configuration

Examples:
  apocbase list
  apocbase play campaign
  apocbase menu
  apocbase serve --ssh :2222
  apocbase simulate --boards 200 --swaps 50`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		applyGlobalFlags()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.apocbase/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write game logs to this file while playing")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(defsCmd)
}

// applyGlobalFlags sets the log level and hands --config to the modes.
func applyGlobalFlags() {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	game.SetConfigPath(flagConfig)
}

// gameLogger returns the logger handed to modes running in the terminal.
// The alternate screen owns stdout, so logs go to --log-file or nowhere.
// The returned func closes the file.
func gameLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return nil, func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.Warn("could not open log file", "path", flagLogFile, "err", err)
		return nil, func() {}
	}
	l := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "apocbase"})
	l.SetLevel(logger.GetLevel())
	return l, func() { f.Close() }
}

// runtimeConfig sizes the screen from the terminal, falling back to 80x24.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadConfig loads the game configuration honouring --config.
func loadConfig() (config.GameConfig, error) {
	return config.Load(flagConfig)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
