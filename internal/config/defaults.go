package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/apocbase.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// DefaultGameConfig returns the hardcoded default configuration. It matches
// the embedded defaults/apocbase.yaml.
func DefaultGameConfig() GameConfig {
	chain := func(res TileConfig, towers ...TileConfig) ChainConfig {
		return ChainConfig{Resource: res, Towers: towers}
	}
	tile := func(id, name, glyph, color string) TileConfig {
		return TileConfig{ID: id, Name: name, Glyph: glyph, Color: color}
	}
	resource := func(id, name, glyph, color string, value int) TileConfig {
		t := tile(id, name, glyph, color)
		t.Value = value
		return t
	}

	return GameConfig{
		Board: BoardConfig{Width: 5, Height: 5, MinMatch: 3},
		Tiles: TilesConfig{
			Chains: []ChainConfig{
				chain(resource("wood", "Wood", "w", "yellow", 1),
					tile("watchtower", "Watchtower", "T", "yellow"),
					tile("archer_tower", "Archer Tower", "A", "bright_yellow"),
					tile("ballista", "Ballista", "B", "orange")),
				chain(resource("stone", "Stone", "s", "gray", 1),
					tile("wall", "Wall", "W", "white"),
					tile("bastion", "Bastion", "N", "bright_white"),
					tile("fortress", "Fortress", "F", "bright_cyan")),
				chain(resource("scrap", "Scrap", "x", "cyan", 2),
					tile("turret", "Turret", "U", "cyan"),
					tile("cannon", "Cannon", "C", "bright_blue"),
					tile("railgun", "Railgun", "R", "bright_magenta")),
				chain(resource("food", "Food", "f", "green", 1),
					tile("farm", "Farm", "M", "green"),
					tile("granary", "Granary", "G", "bright_green"),
					tile("mess_hall", "Mess Hall", "H", "bright_green")),
			},
		},
		Pacing: PacingConfig{
			Swap:       300 * time.Millisecond,
			MatchCheck: 100 * time.Millisecond,
			Resolve:    200 * time.Millisecond,
			RefillWave: 100 * time.Millisecond,
		},
		Engine: EngineConfig{MaxCascade: 64},
		Economy: EconomyConfig{
			StartingGold:      100,
			GoldPerEnemyKill:  5,
			GoldPerWave:       50,
			GoldPerDay:        25,
			GoldPerTower:      10,
			GoldPerUpgrade:    20,
			BaseHealth:        100,
			HealthRegenPerDay: 10,
			SwapsPerDay:       3,
		},
		Waves: WavesConfig{
			TimeBetweenWaves: 5 * time.Second,
			SpawnPoints:      []PointConfig{{X: 0, Y: 4}, {X: 4, Y: 4}},
			BasePositions:    []PointConfig{{X: 2, Y: 0}},
			Enemies: []EnemyConfig{
				{ID: "raider", Name: "Raider", Glyph: "r", Color: "red", Health: 20, MoveSpeed: 1.0, Damage: 10, GoldReward: 5},
				{ID: "runner", Name: "Runner", Glyph: "n", Color: "bright_red", Health: 10, MoveSpeed: 2.0, Damage: 5, GoldReward: 3},
				{ID: "brute", Name: "Brute", Glyph: "b", Color: "magenta", Health: 60, MoveSpeed: 0.5, Damage: 25, GoldReward: 15},
				{ID: "warlord", Name: "Warlord", Glyph: "K", Color: "bright_red", Health: 200, MoveSpeed: 0.4, Damage: 50, GoldReward: 100},
			},
			Script: []WaveConfig{
				{Day: 1, Name: "First Scouts", GoldReward: 50, Packs: []PackConfig{
					{Enemy: "raider", Count: 3, SpawnInterval: time.Second},
				}},
				{Day: 2, Name: "Raiding Party", GoldReward: 60, Packs: []PackConfig{
					{Enemy: "raider", Count: 4, SpawnInterval: time.Second},
					{Enemy: "runner", Count: 2, SpawnInterval: 500 * time.Millisecond, DelayBefore: 2 * time.Second},
				}},
				{Day: 3, Name: "Heavy Hitters", GoldReward: 80, Packs: []PackConfig{
					{Enemy: "raider", Count: 4, SpawnInterval: time.Second},
					{Enemy: "brute", Count: 2, SpawnInterval: 2 * time.Second, DelayBefore: time.Second},
				}},
				{Day: 5, Name: "The Warlord", GoldReward: 150, Boss: "warlord", Packs: []PackConfig{
					{Enemy: "raider", Count: 5, SpawnInterval: time.Second},
					{Enemy: "brute", Count: 3, SpawnInterval: 2 * time.Second, DelayBefore: time.Second},
				}},
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression:  ProgressionConfig{Type: "day", MaxAt: 10},
			Scaling: ScalingConfig{
				PackMultiplier:   1.0,
				HealthMultiplier: 1.5,
				SwapReduction:    1,
			},
		},
	}
}
