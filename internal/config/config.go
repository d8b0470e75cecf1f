// Package config provides YAML-based configuration loading and
// difficulty management for Apocalyptic Base.
package config

import (
	"errors"
	"time"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// GameConfig contains all configuration for a run.
type GameConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Tiles      TilesConfig      `yaml:"tiles"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Engine     EngineConfig     `yaml:"engine"`
	Economy    EconomyConfig    `yaml:"economy"`
	Waves      WavesConfig      `yaml:"waves"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	MinMatch int `yaml:"min_match"`
}

// TilesConfig lists the evolution chains.
type TilesConfig struct {
	Chains    []ChainConfig `yaml:"chains"`
	SpawnPool []string      `yaml:"spawn_pool"` // empty means every resource
}

// ChainConfig is one resource and its towers, lowest level first.
type ChainConfig struct {
	Resource TileConfig   `yaml:"resource"`
	Towers   []TileConfig `yaml:"towers"`
}

// TileConfig describes a single tile definition.
type TileConfig struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Glyph     string `yaml:"glyph"`
	Color     string `yaml:"color"`
	Swappable *bool  `yaml:"swappable"` // nil means true
	Value     int    `yaml:"value"`
}

// IsSwappable reports the effective swappable flag.
func (t TileConfig) IsSwappable() bool {
	return t.Swappable == nil || *t.Swappable
}

// PacingConfig holds presentation timings.
type PacingConfig struct {
	Swap       time.Duration `yaml:"swap"`
	MatchCheck time.Duration `yaml:"match_check"`
	Resolve    time.Duration `yaml:"resolve"`
	RefillWave time.Duration `yaml:"refill_wave"`
}

// EngineConfig tunes the cascade engine.
type EngineConfig struct {
	MaxCascade int `yaml:"max_cascade"` // 0 disables the limit
}

// EconomyConfig defines gold, health and swap budgets.
type EconomyConfig struct {
	StartingGold      int `yaml:"starting_gold"`
	GoldPerEnemyKill  int `yaml:"gold_per_enemy_kill"`
	GoldPerWave       int `yaml:"gold_per_wave"`
	GoldPerDay        int `yaml:"gold_per_day"`
	GoldPerTower      int `yaml:"gold_per_tower"`
	GoldPerUpgrade    int `yaml:"gold_per_upgrade"`
	BaseHealth        int `yaml:"base_health"`
	HealthRegenPerDay int `yaml:"health_regen_per_day"`
	SwapsPerDay       int `yaml:"swaps_per_day"`
}

// WavesConfig defines enemies and the daily wave script.
type WavesConfig struct {
	TimeBetweenWaves time.Duration `yaml:"time_between_waves"`
	SpawnPoints      []PointConfig `yaml:"spawn_points"`
	BasePositions    []PointConfig `yaml:"base_positions"`
	Enemies          []EnemyConfig `yaml:"enemies"`
	Script           []WaveConfig  `yaml:"script"`
}

// PointConfig is a board position.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Coord converts p to a core.Coord.
func (p PointConfig) Coord() core.Coord { return core.C(p.X, p.Y) }

// EnemyConfig defines one enemy type.
type EnemyConfig struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Glyph      string  `yaml:"glyph"`
	Color      string  `yaml:"color"`
	Health     int     `yaml:"health"`
	MoveSpeed  float64 `yaml:"move_speed"` // cells per second
	Damage     int     `yaml:"damage"`
	GoldReward int     `yaml:"gold_reward"`
}

// WaveConfig is the wave fought at the end of one day.
type WaveConfig struct {
	Day        int          `yaml:"day"`
	Name       string       `yaml:"name"`
	Packs      []PackConfig `yaml:"packs"`
	Boss       string       `yaml:"boss"` // enemy id, empty for none
	GoldReward int          `yaml:"gold_reward"`
}

// PackConfig is a group of identical enemies spawned one after another.
type PackConfig struct {
	Enemy         string        `yaml:"enemy"`
	Count         int           `yaml:"count"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	DelayBefore   time.Duration `yaml:"delay_before"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over days.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "day" or "none"
	MaxAt int    `yaml:"max_at"` // day at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	PackMultiplier   float64 `yaml:"pack_multiplier"`   // extra pack size at max difficulty
	HealthMultiplier float64 `yaml:"health_multiplier"` // extra enemy health at max difficulty
	SwapReduction    int     `yaml:"swap_reduction"`    // fewer daily swaps at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// BoardPacing converts the pacing section for the engine.
func (c *GameConfig) BoardPacing() board.Pacing {
	return board.Pacing{
		Swap:       c.Pacing.Swap,
		MatchCheck: c.Pacing.MatchCheck,
		Resolve:    c.Pacing.Resolve,
		RefillWave: c.Pacing.RefillWave,
	}
}

// Catalog builds the tile catalog from the tiles section.
func (c *GameConfig) Catalog() (*board.Catalog, error) {
	chains := make([]board.ChainSpec, 0, len(c.Tiles.Chains))
	for _, ch := range c.Tiles.Chains {
		spec := board.ChainSpec{
			Resource: board.ResourceSpec{
				ID:        ch.Resource.ID,
				Name:      ch.Resource.Name,
				Swappable: ch.Resource.IsSwappable(),
				Value:     ch.Resource.Value,
			},
		}
		for _, tw := range ch.Towers {
			spec.Towers = append(spec.Towers, board.TowerSpec{
				ID:        tw.ID,
				Name:      tw.Name,
				Swappable: tw.IsSwappable(),
			})
		}
		chains = append(chains, spec)
	}
	return board.NewCatalog(chains, c.Tiles.SpawnPool)
}

// Style is how a tile or enemy is drawn.
type Style struct {
	Glyph rune
	Color core.Color
}

// Styles returns the draw style of every tile and enemy by id. Missing
// glyphs fall back to the first letter of the id.
func (c *GameConfig) Styles() map[string]Style {
	out := make(map[string]Style)
	add := func(id, glyph, color string) {
		st := Style{Glyph: '?'}
		if r := []rune(glyph); len(r) > 0 {
			st.Glyph = r[0]
		} else if r := []rune(id); len(r) > 0 {
			st.Glyph = r[0]
		}
		st.Color, _ = core.ParseColor(color)
		out[id] = st
	}
	for _, ch := range c.Tiles.Chains {
		add(ch.Resource.ID, ch.Resource.Glyph, ch.Resource.Color)
		for _, tw := range ch.Towers {
			add(tw.ID, tw.Glyph, tw.Color)
		}
	}
	for _, en := range c.Waves.Enemies {
		add(en.ID, en.Glyph, en.Color)
	}
	return out
}

// Enemy returns the enemy definition with the given id.
func (c *GameConfig) Enemy(id string) (EnemyConfig, bool) {
	for _, en := range c.Waves.Enemies {
		if en.ID == id {
			return en, true
		}
	}
	return EnemyConfig{}, false
}

// WaveForDay returns the wave fought on day: the script entry with the
// highest day not after it. Days past the script replay the last entry.
func (c *GameConfig) WaveForDay(day int) (WaveConfig, bool) {
	best := -1
	for i, w := range c.Waves.Script {
		if w.Day <= day && (best < 0 || w.Day > c.Waves.Script[best].Day) {
			best = i
		}
	}
	if best < 0 {
		return WaveConfig{}, false
	}
	w := c.Waves.Script[best]
	w.Day = day
	return w, true
}
