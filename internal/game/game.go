// Package game implements the playable modes: the board engine, the
// economy and the wave scheduler wired together behind registry.Game.
package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/economy"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
	"github.com/RauAliaxYr/ApocalypticBase/internal/registry"
	"github.com/RauAliaxYr/ApocalypticBase/internal/wave"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign" // limited daily swaps, a wave each night
	ModeSandbox  Mode = "sandbox"  // unlimited swaps, no waves
)

// Package-level settings applied on the next Reset.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLogger sets the logger handed to new runs.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game is one run of a mode.
type Game struct {
	mode   Mode
	preset config.DifficultyPreset // overrides the package preset when set
	seed   int64
	rng    *rand.Rand
	tick   uint64
	dt     time.Duration

	cfg        config.GameConfig
	styles     map[string]config.Style
	bus        *event.Bus
	engine     *board.Engine
	view       *board.Board // presentation copy, updated by transitions
	eco        *economy.Economy
	waves      *wave.Scheduler
	difficulty *config.DifficultyManager

	cursor   core.Coord
	selected core.Coord
	selectOn bool
	flash    map[core.Coord]bool
	status   string

	screenW  int
	screenH  int
	paused   bool
	gameOver bool
	tooSmall bool
	err      error
}

// New creates a campaign run.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewSandbox creates a sandbox run.
func NewSandbox() *Game {
	return &Game{mode: ModeSandbox}
}

func init() {
	registry.Register(string(ModeCampaign), func() registry.Game {
		return New()
	})
	registry.Register(string(ModeSandbox), func() registry.Game {
		return NewSandbox()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeSandbox {
		return "Apocalyptic Base (Sandbox)"
	}
	return "Apocalyptic Base"
}

// Reset initializes or restarts the run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", configPath, "err", err)
		cfg = config.DefaultGameConfig()
	}
	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	g.start(cfg, rc)
}

// SetDifficulty sets the preset for this run only, taking effect on the
// next Reset.
func (g *Game) SetDifficulty(preset string) {
	g.preset = config.ParsePreset(preset)
}

// start builds a run from an explicit configuration.
func (g *Game) start(cfg config.GameConfig, rc core.RuntimeConfig) {
	g.cfg = cfg
	g.styles = cfg.Styles()
	g.seed = rc.Seed
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.tick = 0
	g.dt = time.Second / 30
	if rc.TickRate > 0 {
		g.dt = time.Second / time.Duration(rc.TickRate)
	}
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.paused = false
	g.gameOver = false
	g.err = nil
	g.selectOn = false
	g.flash = make(map[core.Coord]bool)
	g.status = ""

	g.bus = event.NewBus()
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.eco = economy.New(cfg.Economy,
		economy.WithLogger(logger),
		economy.WithSwapBudget(func(day int) int {
			return g.difficulty.SwapsPerDay(cfg.Economy.SwapsPerDay, day)
		}))
	g.eco.Attach(g.bus)
	g.waves = wave.New(&g.cfg,
		wave.WithBus(g.bus),
		wave.WithRand(g.rng),
		wave.WithLogger(logger),
		wave.WithDifficulty(g.difficulty))
	g.subscribe()

	b, err := board.New(cfg.Board.Width, cfg.Board.Height)
	if err == nil {
		var cat *board.Catalog
		if cat, err = cfg.Catalog(); err == nil {
			g.view = b.Clone()
			g.engine = board.NewEngine(b, cat,
				board.WithPacing(cfg.BoardPacing()),
				board.WithRand(g.rng),
				board.WithBus(g.bus),
				board.WithLogger(logger),
				board.WithMinMatch(cfg.Board.MinMatch),
				board.WithMaxCascade(cfg.Engine.MaxCascade))
			g.engine.OnTransition(g.onTransition)
			err = g.engine.Start()
		}
	}
	if err != nil {
		g.fail(err)
	}

	g.cursor = core.C(cfg.Board.Width/2, cfg.Board.Height/2)
	g.checkScreenSize()
}

func (g *Game) subscribe() {
	g.bus.Subscribe(event.KindGameOver, func(event.Event) {
		g.gameOver = true
		g.waves.Stop()
		if g.engine != nil {
			g.engine.Stop()
		}
		g.status = "The base has fallen"
	})
	g.bus.Subscribe(event.KindEngineFailed, func(e event.Event) {
		g.fail(e.(event.EngineFailed).Err)
	})
	g.bus.Subscribe(event.KindTowerUpgraded, func(e event.Event) {
		ev := e.(event.TowerUpgraded)
		if ev.Built() {
			g.status = fmt.Sprintf("Built %s", g.tileName(ev.NewID))
		} else {
			g.status = fmt.Sprintf("Upgraded to %s (level %d)", g.tileName(ev.NewID), ev.NewLevel)
		}
	})
	g.bus.Subscribe(event.KindBonusSwaps, func(e event.Event) {
		g.status = fmt.Sprintf("Bonus: +%d swaps", e.(event.BonusSwaps).Count)
	})
	g.bus.Subscribe(event.KindWaveStarted, func(e event.Event) {
		ev := e.(event.WaveStarted)
		g.status = fmt.Sprintf("Night %d: %s (%d enemies)", ev.Day, ev.Name, ev.Enemies)
	})
	g.bus.Subscribe(event.KindDayStarted, func(e event.Event) {
		g.status = fmt.Sprintf("Day %d dawns", e.(event.DayStarted).Day)
	})
}

func (g *Game) fail(err error) {
	if g.err != nil {
		return
	}
	g.err = err
	g.gameOver = true
	g.waves.Stop()
	logger.Error("run aborted", "mode", g.mode, "err", err)
	g.status = "Engine failure"
}

func (g *Game) tileName(id string) string {
	if g.engine == nil {
		return id
	}
	def, err := g.engine.Catalog().Lookup(id)
	if err != nil || def.Name == "" {
		return id
	}
	return def.Name
}

// onTransition mirrors the engine's steps onto the presentation board.
func (g *Game) onTransition(t board.Transition) {
	t.Apply(g.view)
	clear(g.flash)
	for _, w := range t.Writes {
		g.flash[w.At] = true
	}
	for _, s := range t.Spawns {
		g.flash[s.At] = true
	}
}

// Resize adapts the run to a new screen size without restarting it.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := g.minSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the run by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)

	g.engine.Tick(g.dt)
	if !g.engine.Busy() {
		clear(g.flash)
	}
	g.waves.Tick(g.dt)
	g.maybeStartWave()

	return core.StepResult{State: g.State()}
}

// maybeStartWave starts the night's wave once the day's swaps are spent
// and the board has settled.
func (g *Game) maybeStartWave() {
	if g.mode != ModeCampaign || g.gameOver || g.waves.Active() {
		return
	}
	st := g.eco.State()
	if st.SwapsLeft > 0 || g.engine.State() != board.StateIdle {
		return
	}
	err := g.waves.StartWave(st.Day)
	if errors.Is(err, wave.ErrNoWave) {
		// Nothing scripted: the night passes quietly.
		g.eco.CompleteDay()
		return
	}
	if err != nil {
		logger.Warn("wave did not start", "day", st.Day, "err", err)
	}
}

func (g *Game) handleInput(in core.InputFrame) {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(0, 1, w, h)
	case in.Has(core.ActionDown):
		g.moveCursor(0, -1, w, h)
	case in.Has(core.ActionLeft):
		g.moveCursor(-1, 0, w, h)
	case in.Has(core.ActionRight):
		g.moveCursor(1, 0, w, h)
	}

	switch {
	case in.Has(core.ActionSelect), in.Has(core.ActionConfirm):
		g.selectCell()
	case in.Has(core.ActionBack):
		g.selectOn = false
	case in.Has(core.ActionSkip):
		if g.mode == ModeCampaign && !g.waves.Active() && g.eco.State().SwapsLeft > 0 {
			g.eco.State().ForfeitSwaps()
			g.selectOn = false
			g.status = "Day ended early"
		}
	}
}

func (g *Game) moveCursor(dx, dy, w, h int) {
	g.cursor = core.C(
		core.Clamp(g.cursor.X+dx, 0, w-1),
		core.Clamp(g.cursor.Y+dy, 0, h-1),
	)
}

// selectCell picks the cursor cell, or swaps it with the selected one
// when they are adjacent.
func (g *Game) selectCell() {
	switch {
	case !g.selectOn:
		g.selected = g.cursor
		g.selectOn = true
	case g.selected == g.cursor:
		g.selectOn = false
	case g.selected.Adjacent(g.cursor):
		if g.trySwap(g.selected, g.cursor) {
			g.selectOn = false
		}
	default:
		g.selected = g.cursor
	}
}

// trySwap asks the engine for a swap, charging a daily swap in campaign
// mode. It reports whether the swap was accepted.
func (g *Game) trySwap(a, c core.Coord) bool {
	if g.mode == ModeCampaign {
		if g.waves.Active() {
			g.status = "The wave is on, hold on"
			return false
		}
		if g.eco.State().SwapsLeft <= 0 {
			g.status = "No swaps left today"
			return false
		}
	}
	if err := g.engine.RequestSwap(a, c); err != nil {
		g.status = swapMessage(err)
		return false
	}
	if g.mode == ModeCampaign {
		g.eco.UseSwap()
	} else {
		g.eco.CountSwap()
	}
	g.status = ""
	return true
}

func swapMessage(err error) string {
	switch {
	case errors.Is(err, board.ErrBusy):
		return "Wait for the board to settle"
	case errors.Is(err, board.ErrNotSwappable):
		return "That tile is locked"
	case errors.Is(err, board.ErrNotAdjacent):
		return "Tiles must be neighbours"
	case errors.Is(err, board.ErrEmptyCell):
		return "Nothing to swap there"
	}
	return err.Error()
}

// Progress returns a copy of the run's progress.
func (g *Game) Progress() economy.ProgressState {
	if g.eco == nil {
		return economy.ProgressState{}
	}
	return *g.eco.State()
}

// Seed returns the seed the run was started with.
func (g *Game) Seed() int64 { return g.seed }

// Err returns the failure that ended the run, if any.
func (g *Game) Err() error { return g.err }

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.eco != nil {
		score = g.eco.State().Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
}
