// Package event defines the domain events published by the board engine,
// the wave scheduler and the economy, plus a small observer bus.
package event

import "github.com/RauAliaxYr/ApocalypticBase/internal/core"

// Kind identifies an event type for subscription.
type Kind uint8

const (
	KindSwapApplied Kind = iota + 1
	KindMatchFound
	KindTowerUpgraded
	KindBonusSwaps
	KindCascadeSettled
	KindEngineFailed
	KindEnemySpawned
	KindEnemyDied
	KindEnemyReachedBase
	KindWaveStarted
	KindWaveCompleted
	KindDayStarted
	KindGameOver
)

var kindNames = map[Kind]string{
	KindSwapApplied:      "swap_applied",
	KindMatchFound:       "match_found",
	KindTowerUpgraded:    "tower_upgraded",
	KindBonusSwaps:       "bonus_swaps",
	KindCascadeSettled:   "cascade_settled",
	KindEngineFailed:     "engine_failed",
	KindEnemySpawned:     "enemy_spawned",
	KindEnemyDied:        "enemy_died",
	KindEnemyReachedBase: "enemy_reached_base",
	KindWaveStarted:      "wave_started",
	KindWaveCompleted:    "wave_completed",
	KindDayStarted:       "day_started",
	KindGameOver:         "game_over",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is implemented by every domain event.
type Event interface {
	Kind() Kind
}

// SwapApplied is published once a player swap has been written to the board.
type SwapApplied struct {
	A, B core.Coord
}

// MatchFound reports one detected run.
type MatchFound struct {
	Positions  []core.Coord
	TileID     string
	Count      int
	Horizontal bool
	Depth      int // cascade pass, 1 for the pass right after a swap
}

// TowerUpgraded reports an evolution at the result coordinate. OldLevel is
// 0 when a resource became a level 1 tower.
type TowerUpgraded struct {
	At       core.Coord
	OldID    string
	OldLevel int
	NewID    string
	NewLevel int
}

// Built reports whether the evolution turned a resource into a tower.
func (e TowerUpgraded) Built() bool { return e.OldLevel == 0 }

// BonusSwaps reports extra swaps earned by runs longer than the minimum.
type BonusSwaps struct {
	Count int
}

// CascadeSettled is published when a Checking pass finds no matches.
type CascadeSettled struct {
	Passes int // Checking passes that found matches before settling
}

// EngineFailed is published when the cascade engine aborts.
type EngineFailed struct {
	Err error
}

// EnemySpawned reports a new enemy at its spawn point.
type EnemySpawned struct {
	EnemyID int
	Type    string
	At      core.Coord
	Boss    bool
}

// EnemyDied reports an enemy killed by an external combat collaborator.
type EnemyDied struct {
	EnemyID    int
	Type       string
	GoldReward int
}

// EnemyReachedBase reports an enemy arriving at a base position.
type EnemyReachedBase struct {
	EnemyID int
	Type    string
	Damage  int
}

// WaveStarted reports the start of a day's wave.
type WaveStarted struct {
	Day     int
	Name    string
	Enemies int
}

// WaveCompleted reports that no enemy of the wave remains.
type WaveCompleted struct {
	Day        int
	Name       string
	GoldReward int
}

// DayStarted reports the beginning of a new day.
type DayStarted struct {
	Day int
}

// GameOver reports the base falling.
type GameOver struct {
	Day int
}

func (SwapApplied) Kind() Kind      { return KindSwapApplied }
func (MatchFound) Kind() Kind       { return KindMatchFound }
func (TowerUpgraded) Kind() Kind    { return KindTowerUpgraded }
func (BonusSwaps) Kind() Kind       { return KindBonusSwaps }
func (CascadeSettled) Kind() Kind   { return KindCascadeSettled }
func (EngineFailed) Kind() Kind     { return KindEngineFailed }
func (EnemySpawned) Kind() Kind     { return KindEnemySpawned }
func (EnemyDied) Kind() Kind        { return KindEnemyDied }
func (EnemyReachedBase) Kind() Kind { return KindEnemyReachedBase }
func (WaveStarted) Kind() Kind      { return KindWaveStarted }
func (WaveCompleted) Kind() Kind    { return KindWaveCompleted }
func (DayStarted) Kind() Kind       { return KindDayStarted }
func (GameOver) Kind() Kind         { return KindGameOver }
