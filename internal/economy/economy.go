package economy

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

// Economy applies board and wave events to a ProgressState.
type Economy struct {
	cfg    config.EconomyConfig
	state  *ProgressState
	bus    *event.Bus
	logger *log.Logger
	budget func(day int) int
	subs   []event.Subscription
	over   bool
}

// Option configures an Economy.
type Option func(*Economy)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(e *Economy) { e.logger = l } }

// WithSwapBudget sets how many swaps each new day grants. The default is
// the configured swaps_per_day.
func WithSwapBudget(fn func(day int) int) Option { return func(e *Economy) { e.budget = fn } }

// New creates an economy with a fresh progress state.
func New(cfg config.EconomyConfig, opts ...Option) *Economy {
	e := &Economy{cfg: cfg, state: NewProgress(cfg)}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.budget == nil {
		e.budget = func(int) int { return cfg.SwapsPerDay }
	}
	e.state.SwapsLeft = e.budget(1)
	e.state.MaxSwapsPerDay = e.state.SwapsLeft
	return e
}

// State returns the live progress state.
func (e *Economy) State() *ProgressState { return e.state }

// Attach subscribes the economy to bus. DayStarted and GameOver are
// published back on the same bus.
func (e *Economy) Attach(bus *event.Bus) {
	e.Detach()
	e.bus = bus
	e.subs = []event.Subscription{
		bus.Subscribe(event.KindMatchFound, func(event.Event) { e.state.Matches++ }),
		bus.Subscribe(event.KindTowerUpgraded, func(ev event.Event) { e.onTower(ev.(event.TowerUpgraded)) }),
		bus.Subscribe(event.KindBonusSwaps, func(ev event.Event) { e.state.AddSwaps(ev.(event.BonusSwaps).Count) }),
		bus.Subscribe(event.KindCascadeSettled, func(ev event.Event) {
			e.state.LongestCascade = max(e.state.LongestCascade, ev.(event.CascadeSettled).Passes)
		}),
		bus.Subscribe(event.KindEnemyDied, func(ev event.Event) { e.onEnemyDied(ev.(event.EnemyDied)) }),
		bus.Subscribe(event.KindEnemyReachedBase, func(ev event.Event) { e.onEnemyReachedBase(ev.(event.EnemyReachedBase)) }),
		bus.Subscribe(event.KindWaveCompleted, func(ev event.Event) { e.onWaveCompleted(ev.(event.WaveCompleted)) }),
	}
}

// Detach removes the economy's subscriptions.
func (e *Economy) Detach() {
	if e.bus == nil {
		return
	}
	for _, s := range e.subs {
		e.bus.Unsubscribe(s)
	}
	e.subs = nil
	e.bus = nil
}

// UseSwap spends one of today's swaps.
func (e *Economy) UseSwap() bool {
	return e.state.UseSwap()
}

// CountSwap records a free swap, as made in sandbox runs.
func (e *Economy) CountSwap() {
	e.state.CountSwap()
}

// CompleteDay pays the daily gold and starts the next day.
func (e *Economy) CompleteDay() {
	e.state.AddGold(e.cfg.GoldPerDay)
	next := e.state.Day + 1
	e.state.StartNewDay(e.budget(next), e.cfg.HealthRegenPerDay)
	e.logger.Info("day started", "day", e.state.Day, "gold", e.state.Gold, "health", e.state.BaseHealth)
	e.bus.Publish(event.DayStarted{Day: e.state.Day})
}

func (e *Economy) onTower(ev event.TowerUpgraded) {
	if ev.Built() {
		e.state.TowersBuilt++
		e.state.AddGold(e.cfg.GoldPerTower)
		return
	}
	e.state.TowersUpgraded++
	e.state.AddGold(e.cfg.GoldPerUpgrade)
}

func (e *Economy) onEnemyDied(ev event.EnemyDied) {
	reward := ev.GoldReward
	if reward == 0 {
		reward = e.cfg.GoldPerEnemyKill
	}
	e.state.AddGold(reward)
	e.state.EnemiesKilled++
}

func (e *Economy) onEnemyReachedBase(ev event.EnemyReachedBase) {
	e.state.TakeDamage(ev.Damage)
	e.logger.Debug("base hit", "enemy", ev.Type, "damage", ev.Damage, "health", e.state.BaseHealth)
	if e.state.IsGameOver() && !e.over {
		e.over = true
		e.logger.Info("base destroyed", "day", e.state.Day)
		e.bus.Publish(event.GameOver{Day: e.state.Day})
	}
}

func (e *Economy) onWaveCompleted(ev event.WaveCompleted) {
	if e.over {
		return
	}
	reward := ev.GoldReward
	if reward == 0 {
		reward = e.cfg.GoldPerWave
	}
	e.state.AddGold(reward)
	e.state.WavesCompleted++
	e.CompleteDay()
}
