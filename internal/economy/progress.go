// Package economy tracks a run's progress: days, gold, base health, the
// daily swap budget and the statistics that feed the final score.
package economy

import "github.com/RauAliaxYr/ApocalypticBase/internal/config"

// ProgressState is the mutable progress of one run.
type ProgressState struct {
	Day            int `json:"day"`
	BaseHealth     int `json:"base_health"`
	MaxBaseHealth  int `json:"max_base_health"`
	SwapsLeft      int `json:"swaps_left"`
	MaxSwapsPerDay int `json:"max_swaps_per_day"`
	Gold           int `json:"gold"`

	TotalGoldEarned int `json:"total_gold_earned"`
	TotalGoldSpent  int `json:"total_gold_spent"`
	EnemiesKilled   int `json:"enemies_killed"`
	TowersBuilt     int `json:"towers_built"`
	TowersUpgraded  int `json:"towers_upgraded"`
	WavesCompleted  int `json:"waves_completed"`
	Matches         int `json:"matches"`
	SwapsMade       int `json:"swaps_made"`
	LongestCascade  int `json:"longest_cascade"`
}

// NewProgress returns the day 1 state for cfg. Starting gold is not
// counted as earned.
func NewProgress(cfg config.EconomyConfig) *ProgressState {
	return &ProgressState{
		Day:            1,
		BaseHealth:     cfg.BaseHealth,
		MaxBaseHealth:  cfg.BaseHealth,
		SwapsLeft:      cfg.SwapsPerDay,
		MaxSwapsPerDay: cfg.SwapsPerDay,
		Gold:           cfg.StartingGold,
	}
}

// StartNewDay advances the day, resets swaps to swaps and regenerates
// regen base health up to the maximum.
func (p *ProgressState) StartNewDay(swaps, regen int) {
	p.Day++
	p.MaxSwapsPerDay = swaps
	p.SwapsLeft = swaps
	p.BaseHealth = min(p.BaseHealth+regen, p.MaxBaseHealth)
}

// UseSwap spends one swap and reports whether one was available.
func (p *ProgressState) UseSwap() bool {
	if p.SwapsLeft <= 0 {
		return false
	}
	p.SwapsLeft--
	p.SwapsMade++
	return true
}

// CountSwap records a swap that did not spend the daily budget.
func (p *ProgressState) CountSwap() {
	p.SwapsMade++
}

// ForfeitSwaps drops today's remaining swaps, ending the day early.
func (p *ProgressState) ForfeitSwaps() {
	p.SwapsLeft = 0
}

// AddSwaps grants extra swaps for today. They may exceed the daily maximum.
func (p *ProgressState) AddSwaps(n int) {
	if n > 0 {
		p.SwapsLeft += n
	}
}

// AddGold credits gold.
func (p *ProgressState) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	p.Gold += amount
	p.TotalGoldEarned += amount
}

// SpendGold debits gold if enough is available.
func (p *ProgressState) SpendGold(amount int) bool {
	if amount < 0 || p.Gold < amount {
		return false
	}
	p.Gold -= amount
	p.TotalGoldSpent += amount
	return true
}

// TakeDamage lowers base health, never below zero.
func (p *ProgressState) TakeDamage(damage int) {
	p.BaseHealth = max(0, p.BaseHealth-damage)
}

// IsGameOver reports whether the base has fallen.
func (p *ProgressState) IsGameOver() bool {
	return p.BaseHealth <= 0
}

// Score is the run score: gold earned, 100 per completed wave and 10 per
// tower upgrade.
func (p *ProgressState) Score() int {
	return p.TotalGoldEarned + 100*p.WavesCompleted + 10*p.TowersUpgraded
}
