package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 42}
}

func startGame(t *testing.T, mode Mode) *Game {
	t.Helper()
	g := &Game{mode: mode}
	g.start(config.DefaultGameConfig(), testRuntime())
	if g.err != nil {
		t.Fatalf("start failed: %v", g.err)
	}
	return g
}

// settle steps with no input until the board engine is idle.
func settle(t *testing.T, g *Game) {
	t.Helper()
	empty := core.NewInputFrame()
	for i := 0; i < 3000 && g.engine.Busy(); i++ {
		g.Step(empty)
	}
	if g.engine.Busy() {
		t.Fatalf("engine still %v after stepping", g.engine.State())
	}
}

func press(g *Game, actions ...core.Action) {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	g.Step(in)
}

func TestViewMirrorsEngine(t *testing.T) {
	g := startGame(t, ModeCampaign)
	settle(t, g)
	if !g.view.Equal(g.engine.Board()) {
		t.Fatalf("view drifted from engine\nview:\n%sengine:\n%s", g.view, g.engine.Board())
	}

	if !g.trySwap(core.C(0, 0), core.C(1, 0)) {
		t.Fatalf("swap rejected: %s", g.status)
	}
	settle(t, g)
	if !g.view.Equal(g.engine.Board()) {
		t.Fatalf("view drifted after a swap\nview:\n%sengine:\n%s", g.view, g.engine.Board())
	}
}

func TestCursorClampsToBoard(t *testing.T) {
	g := startGame(t, ModeSandbox)
	if g.cursor != core.C(2, 2) {
		t.Fatalf("cursor starts at %v, want (2,2)", g.cursor)
	}
	for i := 0; i < 10; i++ {
		press(g, core.ActionUp)
		press(g, core.ActionLeft)
	}
	if g.cursor != core.C(0, 4) {
		t.Errorf("cursor = %v, want top-left (0,4)", g.cursor)
	}
	press(g, core.ActionDown)
	press(g, core.ActionRight)
	if g.cursor != core.C(1, 3) {
		t.Errorf("cursor = %v, want (1,3)", g.cursor)
	}
}

func TestSelectionSwaps(t *testing.T) {
	g := startGame(t, ModeCampaign)
	settle(t, g)
	g.cursor = core.C(0, 0)

	press(g, core.ActionSelect)
	if !g.selectOn || g.selected != core.C(0, 0) {
		t.Fatalf("selection = %v on %v", g.selected, g.selectOn)
	}
	press(g, core.ActionSelect)
	if g.selectOn {
		t.Fatal("selecting the same cell again should cancel")
	}

	press(g, core.ActionSelect)
	press(g, core.ActionRight)
	press(g, core.ActionSelect)
	if g.selectOn {
		t.Errorf("selection still on after an adjacent pick: %s", g.status)
	}
	if got := g.eco.State().SwapsLeft; got < 2 {
		// Bonus swaps may add to the budget but one was spent.
		t.Errorf("SwapsLeft = %d after one swap", got)
	}
	if g.eco.State().SwapsMade != 1 {
		t.Errorf("SwapsMade = %d, want 1", g.eco.State().SwapsMade)
	}
}

func TestWaveStartsWhenSwapsRunOut(t *testing.T) {
	g := startGame(t, ModeCampaign)
	settle(t, g)

	press(g, core.ActionSkip)
	if g.eco.State().SwapsLeft != 0 {
		t.Fatalf("SwapsLeft = %d after ending the day", g.eco.State().SwapsLeft)
	}
	press(g)
	if !g.waves.Active() {
		t.Fatal("wave did not start once swaps ran out")
	}
	if g.trySwap(core.C(0, 0), core.C(1, 0)) {
		t.Error("swap accepted during a wave")
	}

	empty := core.NewInputFrame()
	for i := 0; i < 30*60 && g.waves.Active(); i++ {
		g.Step(empty)
	}
	st := g.eco.State()
	if st.Day != 2 || st.WavesCompleted != 1 {
		t.Errorf("after the first wave day %d waves %d, want day 2 and 1 wave", st.Day, st.WavesCompleted)
	}
	if st.BaseHealth >= st.MaxBaseHealth {
		t.Errorf("base health %d, enemies should have reached it", st.BaseHealth)
	}
	if st.SwapsLeft == 0 {
		t.Error("new day should restore swaps")
	}
}

func TestSandboxHasNoWaves(t *testing.T) {
	g := startGame(t, ModeSandbox)
	settle(t, g)
	for i := 0; i < 5; i++ {
		if !g.trySwap(core.C(0, 0), core.C(1, 0)) {
			t.Fatalf("sandbox swap %d rejected: %s", i, g.status)
		}
		settle(t, g)
	}
	if g.waves.Active() {
		t.Error("sandbox started a wave")
	}
	st := g.eco.State()
	if st.SwapsLeft < 3 {
		t.Errorf("sandbox spent swaps: %d left", st.SwapsLeft)
	}
	if st.SwapsMade != 5 {
		t.Errorf("SwapsMade = %d, want 5", st.SwapsMade)
	}
}

func TestGameOver(t *testing.T) {
	g := startGame(t, ModeCampaign)
	g.bus.Publish(event.EnemyReachedBase{Type: "warlord", Damage: 1000})
	if !g.State().GameOver {
		t.Fatal("State().GameOver = false after the base fell")
	}
	if g.engine.State() != board.StateStopped {
		t.Errorf("engine state = %v, want stopped", g.engine.State())
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Errorf("render lacks the game over overlay:\n%s", screen)
	}
}

func TestEngineFailureEndsRun(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Tiles.SpawnPool = []string{"wood"}
	cfg.Engine.MaxCascade = 2

	g := &Game{mode: ModeSandbox}
	g.start(cfg, testRuntime())
	empty := core.NewInputFrame()
	for i := 0; i < 3000 && !g.gameOver; i++ {
		g.Step(empty)
	}
	if g.err == nil || !g.State().GameOver {
		t.Fatalf("err %v game over %v, want a cascade failure", g.err, g.State().GameOver)
	}
}

func TestRender(t *testing.T) {
	g := startGame(t, ModeCampaign)
	settle(t, g)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"Apocalyptic Base", "Day 1", "Swaps ", "N: End day", "[", "^"} {
		if !strings.Contains(out, want) {
			t.Errorf("render lacks %q:\n%s", want, out)
		}
	}

	small := &Game{mode: ModeCampaign}
	rc := testRuntime()
	rc.ScreenW, rc.ScreenH = 20, 8
	small.start(config.DefaultGameConfig(), rc)
	tiny := core.NewScreen(20, 8)
	small.Render(tiny)
	if !strings.Contains(tiny.String(), "Window too small") {
		t.Errorf("small screen render:\n%s", tiny)
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := startGame(t, ModeCampaign)
	settle(t, g)
	before := g.engine.Board().Clone()

	g.Resize(20, 10)
	if !g.State().Paused {
		t.Fatal("run not paused on a screen too small for the board")
	}
	press(g, core.ActionSelect)
	if g.selectOn {
		t.Error("input handled while the screen is too small")
	}

	g.Resize(80, 24)
	if g.State().Paused {
		t.Error("run still paused after growing the screen")
	}
	if !g.engine.Board().Equal(before) {
		t.Error("resize changed the board")
	}
}

func TestSetDifficultyPerRun(t *testing.T) {
	// An empty file keeps every default.
	path := filepath.Join(t.TempDir(), "apocbase.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	defer SetConfigPath("")

	tests := []struct {
		preset     string
		wantHealth int
		wantSwaps  int
	}{
		{"", 100, 3},
		{"easy", 150, 4},
		{"hard", 75, 3},
		{"unknown", 100, 3},
	}
	for _, tt := range tests {
		t.Run("preset "+tt.preset, func(t *testing.T) {
			g := New()
			g.SetDifficulty(tt.preset)
			g.Reset(testRuntime())
			if g.Err() != nil {
				t.Fatalf("reset failed: %v", g.Err())
			}
			st := g.Progress()
			if st.MaxBaseHealth != tt.wantHealth {
				t.Errorf("max base health = %d, want %d", st.MaxBaseHealth, tt.wantHealth)
			}
			if st.MaxSwapsPerDay != tt.wantSwaps {
				t.Errorf("swaps per day = %d, want %d", st.MaxSwapsPerDay, tt.wantSwaps)
			}
			if g.Seed() != testRuntime().Seed {
				t.Errorf("seed = %d, want %d", g.Seed(), testRuntime().Seed)
			}
		})
	}
}
