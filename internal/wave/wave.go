// Package wave runs the scripted enemy wave fought at the end of each day.
//
// Enemies spawn from a random spawn point, walk a straight-line step path
// to a random base position and damage the base on arrival. Combat is
// external: a collaborator calls Damage or Kill.
package wave

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

var (
	ErrWaveActive = errors.New("wave: a wave is already running")
	ErrNoWave     = errors.New("wave: no wave scripted")
)

// bossDelay separates the last pack from the boss.
const bossDelay = 2 * time.Second

// Enemy is one live enemy.
type Enemy struct {
	ID         int
	Type       string
	Health     int
	MaxHealth  int
	Damage     int
	GoldReward int
	Boss       bool
	Path       []core.Coord

	speed    float64 // cells per second
	step     int
	progress float64
}

// Pos returns the cell the enemy currently occupies.
func (e *Enemy) Pos() core.Coord { return e.Path[e.step] }

// Path returns the straight-line step path from start to target,
// both included.
func Path(start, target core.Coord) []core.Coord {
	path := []core.Coord{start}
	for cur := start; cur != target; {
		cur = cur.StepToward(target)
		path = append(path, cur)
	}
	return path
}

type spawnOrder struct {
	at    time.Duration
	enemy config.EnemyConfig
	boss  bool
}

// Scheduler spawns, moves and retires the enemies of one wave at a time.
// It is not safe for concurrent use.
type Scheduler struct {
	cfg        config.WavesConfig
	economy    config.EconomyConfig
	difficulty *config.DifficultyManager
	script     func(day int) (config.WaveConfig, bool)
	rng        *rand.Rand
	bus        *event.Bus
	logger     *log.Logger

	active   bool
	wave     config.WaveConfig
	elapsed  time.Duration
	cooldown time.Duration
	queue    []spawnOrder
	enemies  []*Enemy
	nextID   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand sets the random source for spawn and base selection.
func WithRand(r *rand.Rand) Option { return func(s *Scheduler) { s.rng = r } }

// WithBus sets where wave events are published.
func WithBus(b *event.Bus) Option { return func(s *Scheduler) { s.bus = b } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Scheduler) { s.logger = l } }

// WithDifficulty scales pack sizes and enemy health by day.
func WithDifficulty(d *config.DifficultyManager) Option {
	return func(s *Scheduler) { s.difficulty = d }
}

// New creates a scheduler for cfg.
func New(cfg *config.GameConfig, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:     cfg.Waves,
		economy: cfg.Economy,
		script:  cfg.WaveForDay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Active reports whether a wave is running.
func (s *Scheduler) Active() bool { return s.active }

// Wave returns the running or last wave.
func (s *Scheduler) Wave() config.WaveConfig { return s.wave }

// Remaining returns the enemies still to spawn or alive.
func (s *Scheduler) Remaining() int { return len(s.queue) + len(s.enemies) }

// Cooldown returns the rest left before a new wave's first spawn.
func (s *Scheduler) Cooldown() time.Duration { return s.cooldown }

// Enemies returns a snapshot of the live enemies.
func (s *Scheduler) Enemies() []Enemy {
	out := make([]Enemy, len(s.enemies))
	for i, e := range s.enemies {
		out[i] = *e
		out[i].Path = slices.Clone(e.Path)
	}
	return out
}

// StartWave begins the wave scripted for day. If the rest period after the
// previous wave is not over, the first spawn waits for it.
func (s *Scheduler) StartWave(day int) error {
	if s.active {
		return ErrWaveActive
	}
	w, ok := s.script(day)
	if !ok {
		return fmt.Errorf("%w for day %d", ErrNoWave, day)
	}
	if len(s.cfg.SpawnPoints) == 0 || len(s.cfg.BasePositions) == 0 {
		return fmt.Errorf("%w: no spawn points or bases", ErrNoWave)
	}

	s.wave = w
	s.queue = s.plan(w)
	s.elapsed = -s.cooldown
	s.cooldown = 0
	s.active = true
	s.logger.Info("wave started", "day", day, "name", w.Name, "enemies", len(s.queue))
	s.bus.Publish(event.WaveStarted{Day: day, Name: w.Name, Enemies: len(s.queue)})
	return nil
}

func (s *Scheduler) plan(w config.WaveConfig) []spawnOrder {
	var (
		orders []spawnOrder
		t      time.Duration
	)
	for _, p := range w.Packs {
		def, ok := s.enemy(p.Enemy)
		if !ok {
			s.logger.Error("wave references unknown enemy", "wave", w.Name, "enemy", p.Enemy)
			continue
		}
		count := p.Count
		if s.difficulty != nil {
			count = s.difficulty.PackCount(count, w.Day)
		}
		t += p.DelayBefore
		for i := 0; i < count; i++ {
			orders = append(orders, spawnOrder{at: t, enemy: def})
			t += p.SpawnInterval
		}
	}
	if w.Boss != "" {
		if def, ok := s.enemy(w.Boss); ok {
			orders = append(orders, spawnOrder{at: t + bossDelay, enemy: def, boss: true})
		} else {
			s.logger.Error("wave references unknown boss", "wave", w.Name, "enemy", w.Boss)
		}
	}
	return orders
}

func (s *Scheduler) enemy(id string) (config.EnemyConfig, bool) {
	for _, en := range s.cfg.Enemies {
		if en.ID == id {
			return en, true
		}
	}
	return config.EnemyConfig{}, false
}

// Tick advances the wave by dt: due enemies spawn, live enemies walk, and
// the wave completes once nothing is left.
func (s *Scheduler) Tick(dt time.Duration) {
	if !s.active {
		s.cooldown = max(0, s.cooldown-dt)
		return
	}
	s.elapsed += dt

	for len(s.queue) > 0 && s.queue[0].at <= s.elapsed {
		s.spawn(s.queue[0])
		s.queue = s.queue[1:]
	}

	alive := s.enemies[:0]
	for _, e := range s.enemies {
		if s.advance(e, dt) {
			s.logger.Debug("enemy reached base", "id", e.ID, "type", e.Type, "damage", e.Damage)
			s.bus.Publish(event.EnemyReachedBase{EnemyID: e.ID, Type: e.Type, Damage: e.Damage})
			if !s.active {
				return // stopped by a subscriber
			}
			continue
		}
		alive = append(alive, e)
	}
	clear(s.enemies[len(alive):])
	s.enemies = alive

	s.checkComplete()
}

func (s *Scheduler) spawn(o spawnOrder) {
	start := s.cfg.SpawnPoints[s.rng.Intn(len(s.cfg.SpawnPoints))].Coord()
	target := s.cfg.BasePositions[s.rng.Intn(len(s.cfg.BasePositions))].Coord()
	health := o.enemy.Health
	if s.difficulty != nil {
		health = s.difficulty.EnemyHealth(health, s.wave.Day)
	}
	s.nextID++
	e := &Enemy{
		ID:         s.nextID,
		Type:       o.enemy.ID,
		Health:     health,
		MaxHealth:  health,
		Damage:     o.enemy.Damage,
		GoldReward: o.enemy.GoldReward,
		Boss:       o.boss,
		Path:       Path(start, target),
		speed:      o.enemy.MoveSpeed,
	}
	s.enemies = append(s.enemies, e)
	s.bus.Publish(event.EnemySpawned{EnemyID: e.ID, Type: e.Type, At: start, Boss: e.Boss})
}

// advance walks e and reports whether it is standing on its base.
func (s *Scheduler) advance(e *Enemy, dt time.Duration) bool {
	last := len(e.Path) - 1
	e.progress += e.speed * dt.Seconds()
	for e.progress >= 1 && e.step < last {
		e.progress--
		e.step++
	}
	return e.step == last
}

// Damage hits an enemy and kills it once its health is gone. It reports
// whether the enemy died.
func (s *Scheduler) Damage(id, amount int) bool {
	i := s.find(id)
	if i < 0 {
		return false
	}
	e := s.enemies[i]
	e.Health -= amount
	if e.Health > 0 {
		return false
	}
	return s.Kill(id)
}

// Kill removes a live enemy and pays its reward. It reports whether the
// enemy was alive.
func (s *Scheduler) Kill(id int) bool {
	i := s.find(id)
	if i < 0 {
		return false
	}
	e := s.enemies[i]
	s.enemies = slices.Delete(s.enemies, i, i+1)
	reward := e.GoldReward
	if reward == 0 {
		reward = s.economy.GoldPerEnemyKill
	}
	s.bus.Publish(event.EnemyDied{EnemyID: e.ID, Type: e.Type, GoldReward: reward})
	s.checkComplete()
	return true
}

func (s *Scheduler) find(id int) int {
	return slices.IndexFunc(s.enemies, func(e *Enemy) bool { return e.ID == id })
}

func (s *Scheduler) checkComplete() {
	if !s.active || len(s.queue) > 0 || len(s.enemies) > 0 {
		return
	}
	s.active = false
	s.cooldown = s.cfg.TimeBetweenWaves
	reward := s.wave.GoldReward
	if reward == 0 {
		reward = s.economy.GoldPerWave
	}
	s.logger.Info("wave completed", "day", s.wave.Day, "name", s.wave.Name)
	s.bus.Publish(event.WaveCompleted{Day: s.wave.Day, Name: s.wave.Name, GoldReward: reward})
}

// Stop abandons the running wave without completing it.
func (s *Scheduler) Stop() {
	s.active = false
	s.queue = nil
	s.enemies = nil
}
