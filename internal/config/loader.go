package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up on the search path.
const FileName = "apocbase.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.apocbase/configs/apocbase.yaml -> ./configs/apocbase.yaml -> embedded default
//
// Files override the hardcoded defaults field by field. A custom path that
// cannot be read, parsed or validated is an error; broken files elsewhere
// on the search path are skipped.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(FileName), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document over DefaultGameConfig and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return GameConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".apocbase", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the economy based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Economy.BaseHealth = 150
		cfg.Economy.SwapsPerDay = 4
	case DifficultyHard:
		cfg.Economy.BaseHealth = 75
		cfg.Economy.StartingGold = 50
	}
}

// Validate checks the configuration for values the game cannot run with.
func (c *GameConfig) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board size %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	}
	if c.Board.MinMatch < 2 {
		return fmt.Errorf("%w: min_match %d is below 2", ErrInvalid, c.Board.MinMatch)
	}
	if c.Engine.MaxCascade < 0 {
		return fmt.Errorf("%w: max_cascade %d is negative", ErrInvalid, c.Engine.MaxCascade)
	}
	if c.Economy.BaseHealth <= 0 {
		return fmt.Errorf("%w: base_health must be positive", ErrInvalid)
	}
	if c.Economy.SwapsPerDay <= 0 {
		return fmt.Errorf("%w: swaps_per_day must be positive", ErrInvalid)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	inBoard := func(p PointConfig) bool {
		return p.X >= 0 && p.X < c.Board.Width && p.Y >= 0 && p.Y < c.Board.Height
	}
	for _, group := range []struct {
		name   string
		points []PointConfig
	}{{"spawn_points", c.Waves.SpawnPoints}, {"base_positions", c.Waves.BasePositions}} {
		for _, p := range group.points {
			if !inBoard(p) {
				return fmt.Errorf("%w: %s entry (%d,%d) is off the board", ErrInvalid, group.name, p.X, p.Y)
			}
		}
	}

	if len(c.Waves.Script) > 0 && (len(c.Waves.SpawnPoints) == 0 || len(c.Waves.BasePositions) == 0) {
		return fmt.Errorf("%w: waves need spawn_points and base_positions", ErrInvalid)
	}
	for _, en := range c.Waves.Enemies {
		if en.ID == "" || en.Health <= 0 || en.MoveSpeed <= 0 {
			return fmt.Errorf("%w: enemy %q needs an id, health and move_speed", ErrInvalid, en.ID)
		}
	}
	for _, w := range c.Waves.Script {
		for _, p := range w.Packs {
			if _, ok := c.Enemy(p.Enemy); !ok {
				return fmt.Errorf("%w: wave %q uses unknown enemy %q", ErrInvalid, w.Name, p.Enemy)
			}
			if p.Count < 0 {
				return fmt.Errorf("%w: wave %q has a negative pack count", ErrInvalid, w.Name)
			}
		}
		if w.Boss != "" {
			if _, ok := c.Enemy(w.Boss); !ok {
				return fmt.Errorf("%w: wave %q uses unknown boss %q", ErrInvalid, w.Name, w.Boss)
			}
		}
	}

	switch c.Difficulty.Progression.Type {
	case "", "day", "none":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalid, c.Difficulty.Progression.Type)
	}
	return nil
}
