package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

func TestSessionPlaysAndReturns(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewSessionModel(rec, nil, core.DefaultConfig(), "alice")

	m = sendKeys(m, "right", "enter").(SessionModel)
	if m.gameModel == nil {
		t.Fatal("enter did not start a game")
	}
	if !m.gameModel.embedded {
		t.Error("session game is not embedded")
	}
	if m.View() == "" {
		t.Error("empty view while playing")
	}

	m = sendKeys(m, "p").(SessionModel)
	next, _ := m.Update(TickMsg{})
	m = next.(SessionModel)
	m = sendKeys(m, "esc").(SessionModel)
	if m.gameModel != nil {
		t.Fatal("esc while paused did not return to the menu")
	}
	if m.quitting {
		t.Error("session quit instead of returning to the menu")
	}
}

func TestSessionScoreboard(t *testing.T) {
	m := NewSessionModel(nil, testScores(), core.DefaultConfig(), "bob")

	m = sendKeys(m, "tab").(SessionModel)
	if m.scoreboard == nil {
		t.Fatal("tab did not open the scoreboard")
	}
	if m.scoreboard.rows != 2 {
		t.Errorf("scoreboard rows = %d, want 2", m.scoreboard.rows)
	}

	m = sendKeys(m, "esc").(SessionModel)
	if m.scoreboard != nil || m.quitting {
		t.Fatal("esc did not return from the scoreboard to the menu")
	}

	m = sendKeys(m, "q").(SessionModel)
	if !m.quitting {
		t.Error("q in the menu did not end the session")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, want := expandHome("~/.apocbase/host_key"), filepath.Join(home, ".apocbase", "host_key"); got != want {
		t.Errorf("expandHome = %q, want %q", got, want)
	}
	if got := expandHome("/tmp/key"); got != "/tmp/key" {
		t.Errorf("absolute path changed: %q", got)
	}
}
