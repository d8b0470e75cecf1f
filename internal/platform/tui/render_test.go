package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "base")
	s.DrawText(1, 1, "ok")

	if got, want := RenderScreen(s), "base\n ok "; got != want {
		t.Errorf("RenderScreen = %q, want %q", got, want)
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(6, 1)
	s.DrawTextColor(0, 0, "ww", core.ColorYellow)
	s.DrawTextColor(2, 0, "T", core.ColorBrightWhite)
	s.SetColor(5, 0, 'r', core.Color(255))

	out := RenderScreen(s)
	if strings.Contains(out, "\n") {
		t.Fatalf("single row rendered with a newline: %q", out)
	}
	if w := lipgloss.Width(out); w != 6 {
		t.Errorf("printable width = %d, want 6", w)
	}
	for _, r := range "wwTr" {
		if !strings.ContainsRune(out, r) {
			t.Errorf("output lost %q: %q", r, out)
		}
	}
}

func TestStyleForUnknownColor(t *testing.T) {
	if got := styleFor(core.Color(250)).Render("x"); got != "x" {
		t.Errorf("unknown colour styled: %q", got)
	}
}
