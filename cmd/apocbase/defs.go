package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
)

var (
	flagDefsEmbedded   bool
	flagDefsDifficulty string
)

var defsCmd = &cobra.Command{
	Use:   "defs",
	Short: "Print the game configuration",
	Long: `Print the effective configuration: board size, tile chains, pacing,
economy, enemies and the wave script as YAML. Use --embedded for the
built-in file, a starting point for a custom --config. The JSON API
serves the same definitions at /api/defs.

Examples:
  apocbase defs --embedded > ~/.apocbase/configs/apocbase.yaml
  apocbase defs --config ./my-base.yaml --difficulty hard`,
	Run: runDefs,
}

func init() {
	defsCmd.Flags().BoolVar(&flagDefsEmbedded, "embedded", false, "Print the built-in YAML file verbatim")
	defsCmd.Flags().StringVar(&flagDefsDifficulty, "difficulty", "", "Apply a difficulty preset before printing")
}

func runDefs(_ *cobra.Command, _ []string) {
	if flagDefsEmbedded {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	if p := config.ParsePreset(flagDefsDifficulty); p != "" {
		config.ApplyPreset(&cfg, p)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		fail("encoding config: %v", err)
	}
	fmt.Print(string(out))
}
