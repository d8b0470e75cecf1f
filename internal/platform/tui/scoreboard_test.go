package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

type fakeScores struct {
	scores map[string][]storage.ScoreEntry
	runs   map[string][]storage.Run
	err    error
}

func (f fakeScores) TopScores(mode string, _ int) ([]storage.ScoreEntry, error) {
	return f.scores[mode], f.err
}

func (f fakeScores) RecentRuns(mode string, _ int) ([]storage.Run, error) {
	return f.runs[mode], f.err
}

func testScores() fakeScores {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return fakeScores{
		scores: map[string][]storage.ScoreEntry{
			"campaign": {{Score: 300, CreatedAt: at}, {Score: 120, CreatedAt: at}},
			"sandbox":  {{Score: 40, CreatedAt: at}},
		},
		runs: map[string][]storage.Run{
			"campaign": {{Score: 300, Days: 4, Outcome: storage.OutcomeFallen, CreatedAt: at}},
		},
	}
}

func TestScoreboardRows(t *testing.T) {
	m := NewScoreboardModel(testScores(), 100, 30)
	if m.currentMode() != "campaign" || m.rows != 2 {
		t.Fatalf("mode %q rows %d, want campaign with 2", m.currentMode(), m.rows)
	}

	next, _ := m.Update(keyMsg("r"))
	m = next.(ScoreboardModel)
	if !m.showRuns || m.rows != 1 {
		t.Errorf("runs view: showRuns=%v rows=%d, want true and 1", m.showRuns, m.rows)
	}

	next, _ = m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	if m.currentMode() != "sandbox" || m.rows != 0 {
		t.Errorf("after tab: mode %q rows %d, want sandbox runs with 0", m.currentMode(), m.rows)
	}

	next, _ = m.Update(keyMsg("r"))
	m = next.(ScoreboardModel)
	if m.rows != 1 {
		t.Errorf("sandbox scores rows = %d, want 1", m.rows)
	}

	next, _ = m.Update(keyMsg("tab"))
	if got := next.(ScoreboardModel).currentMode(); got != "campaign" {
		t.Errorf("tab did not wrap: mode %q", got)
	}
}

func TestScoreboardEmpty(t *testing.T) {
	tests := []struct {
		name  string
		store ScoreReader
	}{
		{"no store", nil},
		{"store error", fakeScores{err: errors.New("locked")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewScoreboardModel(tt.store, 60, 20)
			if m.rows != 0 {
				t.Errorf("rows = %d, want 0", m.rows)
			}
			if !strings.Contains(m.View(), "Nothing recorded yet") {
				t.Errorf("empty view missing placeholder:\n%s", m.View())
			}
		})
	}
}

func TestScoreboardLeave(t *testing.T) {
	next, cmd := NewScoreboardModel(nil, 80, 24).Update(keyMsg("esc"))
	m := next.(ScoreboardModel)
	if !m.IsGoingBack() || m.IsQuitting() || cmd == nil {
		t.Error("esc did not go back")
	}

	next, _ = NewScoreboardModel(nil, 80, 24).Update(keyMsg("q"))
	if !next.(ScoreboardModel).IsQuitting() {
		t.Error("q did not quit")
	}
}
