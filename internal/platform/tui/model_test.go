package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/economy"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

type fakeGame struct {
	score      int
	gameOver   bool
	paused     bool
	progress   economy.ProgressState
	seed       int64
	err        error
	resets     int
	difficulty string
	resizedW   int
}

func (g *fakeGame) ID() string                           { return "campaign" }
func (g *fakeGame) Title() string                        { return "Fake" }
func (g *fakeGame) Render(dst *core.Screen)              { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{State: g.State()} }
func (g *fakeGame) Progress() economy.ProgressState      { return g.progress }
func (g *fakeGame) Seed() int64                          { return g.seed }
func (g *fakeGame) Err() error                           { return g.err }
func (g *fakeGame) SetDifficulty(p string)               { g.difficulty = p }
func (g *fakeGame) Resize(w, _ int)                      { g.resizedW = w }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.gameOver = false
}

func (g *fakeGame) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.gameOver, Paused: g.paused}
}

type fakeRecorder struct {
	scores []int
	runs   []storage.Run
}

func (r *fakeRecorder) SaveScore(_ string, score int) (int64, error) {
	r.scores = append(r.scores, score)
	return int64(len(r.scores)), nil
}

func (r *fakeRecorder) SaveRun(run storage.Run) (int64, error) {
	r.runs = append(r.runs, run)
	return int64(len(r.runs)), nil
}

func testModel(g *fakeGame, rec Recorder) Model {
	m := NewModel(g, rec, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})
	m.Init()
	return m
}

func TestRunSummary(t *testing.T) {
	g := &fakeGame{
		score: 420,
		seed:  99,
		progress: economy.ProgressState{
			Day: 4, WavesCompleted: 3, EnemiesKilled: 17, TowersBuilt: 5, TowersUpgraded: 2,
			TotalGoldEarned: 310, Matches: 21, LongestCascade: 4, SwapsMade: 12,
		},
	}

	run := runSummary(g, storage.OutcomeFallen, 95*time.Second)
	want := storage.Run{
		Mode: "campaign", Seed: 99, Score: 420, Days: 4, WavesCompleted: 3, EnemiesKilled: 17,
		TowersBuilt: 5, TowersUpgraded: 2, GoldEarned: 310, Matches: 21, LongestCascade: 4,
		SwapsMade: 12, Outcome: storage.OutcomeFallen, DurationSecs: 95,
	}
	if run != want {
		t.Errorf("runSummary =\n%+v\nwant\n%+v", run, want)
	}
}

func TestRecordRun(t *testing.T) {
	tests := []struct {
		name      string
		game      fakeGame
		outcome   string
		wantRuns  int
		wantScore []int
	}{
		{"quit before moving", fakeGame{score: 50}, storage.OutcomeQuit, 0, nil},
		{"quit after moving", fakeGame{score: 50, progress: economy.ProgressState{SwapsMade: 2}}, storage.OutcomeQuit, 1, nil},
		{"fallen with score", fakeGame{score: 80, progress: economy.ProgressState{SwapsMade: 6}}, storage.OutcomeFallen, 1, []int{80}},
		{"fallen without score", fakeGame{progress: economy.ProgressState{Matches: 1}}, storage.OutcomeFallen, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			g := tt.game
			m := testModel(&g, rec)

			m.recordRun(tt.outcome)
			m.recordRun(tt.outcome)

			if len(rec.runs) != tt.wantRuns {
				t.Fatalf("saved %d runs, want %d", len(rec.runs), tt.wantRuns)
			}
			if len(rec.scores) != len(tt.wantScore) {
				t.Fatalf("saved scores %v, want %v", rec.scores, tt.wantScore)
			}
			for i := range tt.wantScore {
				if rec.scores[i] != tt.wantScore[i] {
					t.Errorf("score[%d] = %d, want %d", i, rec.scores[i], tt.wantScore[i])
				}
			}
			if tt.wantRuns > 0 && rec.runs[0].Outcome != tt.outcome {
				t.Errorf("outcome = %q, want %q", rec.runs[0].Outcome, tt.outcome)
			}
		})
	}
}

func TestRecordRunWithoutRecorder(t *testing.T) {
	m := testModel(&fakeGame{score: 10, progress: economy.ProgressState{SwapsMade: 1}}, nil)
	m.recordRun(storage.OutcomeFallen)
	if m.recorded {
		t.Error("run marked recorded without a recorder")
	}
}

func TestTickRecordsGameOver(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"base fallen", nil, storage.OutcomeFallen},
		{"engine failed", errors.New("cascade limit"), storage.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			g := &fakeGame{score: 30, gameOver: true, err: tt.err, progress: economy.ProgressState{SwapsMade: 3}}
			m := testModel(g, rec)

			next, _ := m.Update(TickMsg(time.Now()))
			m = next.(Model)
			next, _ = m.Update(TickMsg(time.Now()))
			m = next.(Model)

			if len(rec.runs) != 1 {
				t.Fatalf("saved %d runs over two game-over ticks, want 1", len(rec.runs))
			}
			if rec.runs[0].Outcome != tt.want {
				t.Errorf("outcome = %q, want %q", rec.runs[0].Outcome, tt.want)
			}
		})
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	rec := &fakeRecorder{}
	g := &fakeGame{score: 30, gameOver: true, progress: economy.ProgressState{SwapsMade: 3}}
	m := testModel(g, rec)

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	next, _ = m.Update(keyMsg("r"))
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)

	if g.resets != 2 {
		t.Errorf("resets = %d, want 2 (init and restart)", g.resets)
	}
	if m.recorded || m.gameState.GameOver {
		t.Error("restart kept the finished run's state")
	}
}

func TestQuitKey(t *testing.T) {
	rec := &fakeRecorder{}
	g := &fakeGame{progress: economy.ProgressState{Matches: 2}}
	m := testModel(g, rec)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q did not quit")
	}
	if len(rec.runs) != 1 || rec.runs[0].Outcome != storage.OutcomeQuit {
		t.Errorf("runs = %+v, want one quit run", rec.runs)
	}
	if m.View() != "" {
		t.Error("view not empty after quitting")
	}
}

func TestEmbeddedBackToMenu(t *testing.T) {
	g := &fakeGame{paused: true}
	m := testModel(g, nil)
	m.embedded = true

	next, _ := m.Update(keyMsg("esc"))
	m = next.(Model)
	if m.BackToMenu() {
		t.Fatal("back before the first tick reported paused")
	}

	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	if !m.BackToMenu() {
		t.Error("esc while paused did not return to the menu")
	}

	standalone := testModel(&fakeGame{paused: true}, nil)
	next, _ = standalone.Update(TickMsg(time.Now()))
	standalone = next.(Model)
	next, _ = standalone.Update(keyMsg("esc"))
	if next.(Model).BackToMenu() {
		t.Error("standalone model left for a menu")
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := &fakeGame{}
	m := testModel(g, nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if g.resets != 1 {
		t.Errorf("resize reset the run: resets = %d", g.resets)
	}
	if g.resizedW != 120 || m.screen.Width() != 120 {
		t.Errorf("resize not forwarded: game %d, screen %d", g.resizedW, m.screen.Width())
	}
}
