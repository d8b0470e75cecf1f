package wave

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

// testConfig has one spawn point four rows above a single base.
func testConfig() *config.GameConfig {
	cfg := config.DefaultGameConfig()
	cfg.Waves = config.WavesConfig{
		TimeBetweenWaves: 3 * time.Second,
		SpawnPoints:      []config.PointConfig{{X: 0, Y: 4}},
		BasePositions:    []config.PointConfig{{X: 0, Y: 0}},
		Enemies: []config.EnemyConfig{
			{ID: "raider", Health: 20, MoveSpeed: 1, Damage: 10, GoldReward: 5},
			{ID: "warlord", Health: 100, MoveSpeed: 2, Damage: 50},
		},
		Script: []config.WaveConfig{
			{Day: 1, Name: "scouts", GoldReward: 40, Packs: []config.PackConfig{
				{Enemy: "raider", Count: 2, SpawnInterval: time.Second},
			}},
			{Day: 2, Name: "boss", Boss: "warlord"},
		},
	}
	return &cfg
}

type recorder struct {
	kinds []string
}

func (r *recorder) attach(bus *event.Bus) {
	bus.SubscribeAll(func(e event.Event) { r.kinds = append(r.kinds, e.Kind().String()) })
}

func newScheduler(t *testing.T, bus *event.Bus) *Scheduler {
	t.Helper()
	return New(testConfig(), WithBus(bus), WithRand(rand.New(rand.NewSource(1))))
}

func TestPath(t *testing.T) {
	tests := []struct {
		from, to core.Coord
		want     string
	}{
		{core.C(0, 4), core.C(0, 0), "[(0,4) (0,3) (0,2) (0,1) (0,0)]"},
		{core.C(0, 4), core.C(2, 0), "[(0,4) (1,3) (2,2) (2,1) (2,0)]"},
		{core.C(3, 3), core.C(3, 3), "[(3,3)]"},
	}
	for _, tt := range tests {
		if got := fmt.Sprint(Path(tt.from, tt.to)); got != tt.want {
			t.Errorf("Path(%v, %v) = %s, want %s", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestWaveReachesBase(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	rec.attach(bus)
	var damage int
	bus.Subscribe(event.KindEnemyReachedBase, func(e event.Event) { damage += e.(event.EnemyReachedBase).Damage })
	var done event.WaveCompleted
	bus.Subscribe(event.KindWaveCompleted, func(e event.Event) { done = e.(event.WaveCompleted) })

	s := newScheduler(t, bus)
	if err := s.StartWave(1); err != nil {
		t.Fatalf("StartWave() failed: %v", err)
	}
	if err := s.StartWave(1); !errors.Is(err, ErrWaveActive) {
		t.Errorf("second StartWave() error = %v, want ErrWaveActive", err)
	}

	s.Tick(0)
	if got := s.Enemies(); len(got) != 1 || got[0].Pos() != core.C(0, 4) {
		t.Fatalf("after first tick enemies = %+v", got)
	}
	s.Tick(2500 * time.Millisecond)
	if got := s.Enemies(); len(got) != 2 || got[0].Pos() != core.C(0, 2) {
		t.Fatalf("after 2.5s enemies = %+v", got)
	}
	for i := 0; i < 10 && s.Active(); i++ {
		s.Tick(time.Second)
	}
	if s.Active() {
		t.Fatal("wave still active")
	}
	if damage != 20 {
		t.Errorf("base damage = %d, want 20", damage)
	}
	if done.Name != "scouts" || done.GoldReward != 40 || done.Day != 1 {
		t.Errorf("WaveCompleted = %+v", done)
	}
	if s.Cooldown() != 3*time.Second {
		t.Errorf("Cooldown() = %v, want 3s", s.Cooldown())
	}

	want := "[wave_started enemy_spawned enemy_spawned enemy_reached_base enemy_reached_base wave_completed]"
	if got := fmt.Sprint(rec.kinds); got != want {
		t.Errorf("events = %s\nwant     %s", got, want)
	}
}

func TestKillCompletesWave(t *testing.T) {
	bus := event.NewBus()
	var rewards []int
	bus.Subscribe(event.KindEnemyDied, func(e event.Event) { rewards = append(rewards, e.(event.EnemyDied).GoldReward) })
	completed := 0
	bus.Subscribe(event.KindWaveCompleted, func(event.Event) { completed++ })

	s := newScheduler(t, bus)
	if err := s.StartWave(1); err != nil {
		t.Fatal(err)
	}
	s.Tick(time.Second)
	enemies := s.Enemies()
	if len(enemies) != 2 {
		t.Fatalf("got %d enemies, want 2", len(enemies))
	}
	if s.Damage(enemies[0].ID, 15) {
		t.Error("Damage(15) on a 20 health enemy should not kill")
	}
	if !s.Damage(enemies[0].ID, 5) {
		t.Error("Damage(5) should finish the enemy")
	}
	if s.Kill(enemies[0].ID) {
		t.Error("Kill() of a dead enemy should report false")
	}
	if completed != 0 {
		t.Fatal("wave completed with an enemy alive")
	}
	if !s.Kill(enemies[1].ID) {
		t.Fatal("Kill() of a live enemy failed")
	}
	if completed != 1 || s.Active() {
		t.Errorf("completed %d active %v, want the wave finished", completed, s.Active())
	}
	if fmt.Sprint(rewards) != "[5 5]" {
		t.Errorf("rewards = %v, want [5 5]", rewards)
	}
}

func TestBossAndCooldown(t *testing.T) {
	bus := event.NewBus()
	var spawned []event.EnemySpawned
	bus.Subscribe(event.KindEnemySpawned, func(e event.Event) { spawned = append(spawned, e.(event.EnemySpawned)) })

	s := newScheduler(t, bus)
	if err := s.StartWave(1); err != nil {
		t.Fatal(err)
	}
	s.Tick(time.Second)
	for _, e := range s.Enemies() {
		s.Kill(e.ID)
	}
	if s.Active() {
		t.Fatal("wave 1 should be over")
	}

	s.Tick(time.Second) // 2s of rest left
	if err := s.StartWave(2); err != nil {
		t.Fatalf("StartWave(2) failed: %v", err)
	}
	s.Tick(3 * time.Second)
	if len(spawned) != 2 {
		t.Fatalf("boss spawned before the rest and boss delay, spawns = %d", len(spawned))
	}
	s.Tick(time.Second)
	if len(spawned) != 3 || !spawned[2].Boss || spawned[2].Type != "warlord" {
		t.Errorf("spawns = %+v, want the warlord boss last", spawned)
	}
}

func TestStopFromSubscriber(t *testing.T) {
	bus := event.NewBus()
	s := newScheduler(t, bus)
	bus.Subscribe(event.KindEnemyReachedBase, func(event.Event) { s.Stop() })

	if err := s.StartWave(1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		s.Tick(time.Second)
	}
	if s.Active() || s.Remaining() != 0 {
		t.Errorf("active %v remaining %d after Stop", s.Active(), s.Remaining())
	}
}

func TestDifficultyScalesWave(t *testing.T) {
	cfg := testConfig()
	diff := config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:      true,
		InitialLevel: 1,
		Progression:  config.ProgressionConfig{Type: "day", MaxAt: 2},
		Scaling:      config.ScalingConfig{PackMultiplier: 1, HealthMultiplier: 1},
	})
	s := New(cfg, WithDifficulty(diff), WithRand(rand.New(rand.NewSource(1))))
	if err := s.StartWave(1); err != nil {
		t.Fatal(err)
	}
	if s.Remaining() != 4 {
		t.Errorf("Remaining() = %d, want the pack doubled to 4", s.Remaining())
	}
	s.Tick(0)
	if e := s.Enemies(); len(e) != 1 || e[0].Health != 40 {
		t.Errorf("enemies = %+v, want one raider with 40 health", e)
	}
}

func TestStartWaveWithoutScript(t *testing.T) {
	cfg := testConfig()
	cfg.Waves.Script = nil
	s := New(cfg)
	if err := s.StartWave(1); !errors.Is(err, ErrNoWave) {
		t.Errorf("StartWave() error = %v, want ErrNoWave", err)
	}
}
