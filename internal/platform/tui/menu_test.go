package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"

	// Registers campaign and sandbox.
	_ "github.com/RauAliaxYr/ApocalypticBase/internal/game"
)

func sendKeys(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	if len(m.items) != 2 {
		t.Fatalf("menu has %d items, want campaign and sandbox", len(m.items))
	}

	tests := []struct {
		keys   []string
		cursor int
	}{
		{nil, 0},
		{[]string{"down"}, 1},
		{[]string{"down", "down", "down"}, 1},
		{[]string{"down", "up", "up"}, 0},
		{[]string{"j", "k", "j"}, 1},
	}
	for _, tt := range tests {
		got := sendKeys(m, tt.keys...).(MenuModel)
		if got.cursor != tt.cursor {
			t.Errorf("keys %v: cursor = %d, want %d", tt.keys, got.cursor, tt.cursor)
		}
	}
}

func TestMenuDifficultyCycles(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())

	tests := []struct {
		keys []string
		want string
	}{
		{nil, "normal"},
		{[]string{"right"}, "easy"},
		{[]string{"right", "right", "right"}, "fixed"},
		{[]string{"right", "right", "right", "right"}, "normal"},
		{[]string{"left"}, "fixed"},
		{[]string{"h", "h"}, "hard"},
	}
	for _, tt := range tests {
		got := sendKeys(m, tt.keys...).(MenuModel)
		if got.Difficulty() != tt.want {
			t.Errorf("keys %v: difficulty = %q, want %q", tt.keys, got.Difficulty(), tt.want)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := sendKeys(NewMenuModel(core.DefaultConfig()), "down", "right", "enter").(MenuModel)

	sel := m.Selected()
	if sel == nil || sel.GameID != "sandbox" {
		t.Fatalf("selected = %+v, want sandbox", sel)
	}
	if m.Difficulty() != "easy" {
		t.Errorf("difficulty = %q, want easy", m.Difficulty())
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := sendKeys(NewMenuModel(core.DefaultConfig()), "tab").(MenuModel)
	if !m.WantsScoreboard() || m.Selected() != nil {
		t.Error("tab did not request the scoreboard")
	}

	m = sendKeys(NewMenuModel(core.DefaultConfig()), "q").(MenuModel)
	if !m.IsQuitting() || m.View() != "" {
		t.Error("q did not quit the menu")
	}
}

func TestMenuResize(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	cfg := next.(MenuModel).Config()
	if cfg.ScreenW != 100 || cfg.ScreenH != 30 {
		t.Errorf("config = %dx%d, want 100x30", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestMenuView(t *testing.T) {
	view := sendKeys(NewMenuModel(core.DefaultConfig()), "right").(MenuModel).View()
	for _, want := range []string{"Apocalyptic Base", "Sandbox", "Difficulty: < easy >"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"abcdef", 4, "abcdef"},
		{"", 4, "  "},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.want {
			t.Errorf("centerText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
