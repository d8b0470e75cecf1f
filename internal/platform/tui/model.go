package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/economy"
	"github.com/RauAliaxYr/ApocalypticBase/internal/registry"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

// Recorder persists finished runs. *storage.Store implements it.
type Recorder interface {
	SaveScore(mode string, score int) (int64, error)
	SaveRun(r storage.Run) (int64, error)
}

// progressReporter is implemented by modes that track a run summary.
type progressReporter interface {
	Progress() economy.ProgressState
	Seed() int64
	Err() error
}

// difficultySetter is implemented by modes with a per-run difficulty.
type difficultySetter interface {
	SetDifficulty(preset string)
}

// Model is the Bubble Tea model for running a game mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	recorder   Recorder
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	started    time.Time
	embedded   bool // inside a session: Esc returns to the menu
	quitting   bool
	backToMenu bool
	recorded   bool // the current run has been saved
}

// NewModel creates a new Bubble Tea model for the given game. recorder may
// be nil.
func NewModel(game registry.Game, recorder Recorder, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		recorder:   recorder,
		logger:     log.New(io.Discard),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		started:    time.Now(),
	}
}

// WithLogger returns a copy of the model that logs save failures to l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.recordRun(storage.OutcomeQuit)
		m.quitting = true
		return m, tea.Quit
	}

	if m.embedded && m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.recordRun(storage.OutcomeQuit)
		m.backToMenu = true
	}
	return m, nil
}

// handleResize processes window resize events. A run in progress is kept;
// the game reports itself paused while the window is too small.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	if r, ok := m.game.(interface{ Resize(w, h int) }); ok {
		r.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.recorded = false
		m.started = time.Now()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		outcome := storage.OutcomeFallen
		if p, ok := m.game.(progressReporter); ok && p.Err() != nil {
			outcome = storage.OutcomeFailed
		}
		m.recordRun(outcome)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordRun saves the current run once. Quit runs that never made a move
// are not saved, and only finished runs post a score.
func (m *Model) recordRun(outcome string) {
	if m.recorded || m.recorder == nil {
		return
	}
	run := runSummary(m.game, outcome, time.Since(m.started))
	if outcome == storage.OutcomeQuit && run.SwapsMade == 0 && run.Matches == 0 {
		return
	}
	m.recorded = true

	if outcome != storage.OutcomeQuit && run.Score > 0 {
		if _, err := m.recorder.SaveScore(run.Mode, run.Score); err != nil {
			m.logger.Warn("could not save score", "mode", run.Mode, "err", err)
		}
	}
	if _, err := m.recorder.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "mode", run.Mode, "err", err)
	}
}

// runSummary builds the stored summary of the game's current run.
func runSummary(g registry.Game, outcome string, elapsed time.Duration) storage.Run {
	run := storage.Run{
		Mode:         g.ID(),
		Score:        g.State().Score,
		Outcome:      outcome,
		DurationSecs: int(elapsed.Seconds()),
	}
	p, ok := g.(progressReporter)
	if !ok {
		return run
	}
	st := p.Progress()
	run.Seed = p.Seed()
	run.Days = st.Day
	run.WavesCompleted = st.WavesCompleted
	run.EnemiesKilled = st.EnemiesKilled
	run.TowersBuilt = st.TowersBuilt
	run.TowersUpgraded = st.TowersUpgraded
	run.GoldEarned = st.TotalGoldEarned
	run.Matches = st.Matches
	run.LongestCascade = st.LongestCascade
	run.SwapsMade = st.SwapsMade
	return run
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".apocbase", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one mode. difficulty is applied
// when the mode supports it; empty keeps the configured default.
func Run(game registry.Game, recorder Recorder, cfg core.RuntimeConfig, difficulty string, logger *log.Logger) error {
	if d, ok := game.(difficultySetter); ok && difficulty != "" {
		d.SetDifficulty(difficulty)
	}
	model := NewModel(game, recorder, cfg).WithLogger(logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
