package config

import "math"

// DifficultyManager calculates dynamic wave parameters based on the day.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) on the given day.
// Day 1 plays at the initial level.
func (d *DifficultyManager) Level(day int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		maxAt = 2 // Prevent division by zero
	}
	progress := clampF(float64(day-1)/(maxAt-1), 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// PackCount returns the scaled size of an enemy pack.
func (d *DifficultyManager) PackCount(base, day int) int {
	if base <= 0 {
		return 0
	}
	level := d.Level(day)
	return int(math.Round(float64(base) * (1.0 + level*d.cfg.Scaling.PackMultiplier)))
}

// EnemyHealth returns the scaled health of an enemy.
func (d *DifficultyManager) EnemyHealth(base, day int) int {
	level := d.Level(day)
	h := int(math.Round(float64(base) * (1.0 + level*d.cfg.Scaling.HealthMultiplier)))
	if h < 1 {
		h = 1
	}
	return h
}

// SwapsPerDay returns the daily swap budget.
func (d *DifficultyManager) SwapsPerDay(base, day int) int {
	level := d.Level(day)
	result := base - int(level*float64(d.cfg.Scaling.SwapReduction))
	if result < 1 { // Always at least one swap
		result = 1
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
