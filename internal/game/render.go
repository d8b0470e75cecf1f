package game

import (
	"fmt"
	"time"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

const (
	cellWidth = 3 // glyph plus cursor brackets
	hudHeight = 4
)

// minSize returns the smallest screen that fits the board and the HUD.
func (g *Game) minSize() (int, int) {
	w := max(g.cfg.Board.Width*cellWidth+2, 44)
	h := hudHeight + g.cfg.Board.Height + 2 + 4
	return w, h
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := g.cfg.Board.Width*cellWidth + 2
	boardH := g.cfg.Board.Height + 2
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst)
	if g.view != nil {
		g.renderBoard(dst, boardX, boardY)
		g.renderEnemies(dst, boardX, boardY)
		g.renderBases(dst, boardX, boardY+boardH)
	}

	if g.status != "" {
		dst.DrawTextCentered(boardY+boardH+1, g.status)
	}
	dst.DrawTextColor(0, g.screenH-1, g.Controls(), core.ColorGray)

	g.renderOverlays(dst, boardX+boardW/2, boardY+boardH/2)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	y := g.screenH / 2
	dst.DrawText((g.screenW-len(msg))/2, y, msg)

	hint := "Please resize terminal"
	dst.DrawText((g.screenW-len(hint))/2, y+1, hint)
}

// renderHUD draws the title, progress and wave lines.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, g.Title())

	st := g.eco.State()
	line := fmt.Sprintf("Day %d  Gold %d  Base %d/%d", st.Day, st.Gold, st.BaseHealth, st.MaxBaseHealth)
	if g.mode == ModeCampaign {
		line += fmt.Sprintf("  Swaps %d/%d", st.SwapsLeft, st.MaxSwapsPerDay)
	}
	healthColor := core.ColorGreen
	switch {
	case st.BaseHealth*4 <= st.MaxBaseHealth:
		healthColor = core.ColorRed
	case st.BaseHealth*2 <= st.MaxBaseHealth:
		healthColor = core.ColorYellow
	}
	dst.DrawTextColor((g.screenW-len(line))/2, 1, line, healthColor)

	dst.DrawTextCentered(2, g.waveLine())
}

func (g *Game) waveLine() string {
	score := fmt.Sprintf("Score %d", g.State().Score)
	if g.mode == ModeSandbox {
		return score + "  Towers " + fmt.Sprint(g.eco.State().TowersBuilt)
	}
	switch {
	case g.waves.Active():
		return fmt.Sprintf("%s  Wave: %s (%d left)", score, g.waves.Wave().Name, g.waves.Remaining())
	case g.waves.Cooldown() > 0:
		return fmt.Sprintf("%s  Rest %s", score, g.waves.Cooldown().Round(time.Second))
	}
	return score
}

// renderBoard draws the grid, top row first.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	frame := core.ColorDefault
	if g.engine != nil && g.engine.Busy() {
		frame = core.ColorGray
	}
	dst.DrawBox(core.Rect{X: boardX, Y: boardY, W: w*cellWidth + 2, H: h + 2}, frame)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			at := core.C(x, y)
			px, py := g.cellOrigin(boardX, boardY, at)

			cell := g.view.Get(at)
			glyph, color := g.glyph(cell)
			if g.flash[at] {
				color = core.ColorBrightWhite
			}
			dst.SetColor(px+1, py, glyph, color)

			switch {
			case g.selectOn && at == g.selected:
				dst.SetColor(px, py, '<', core.ColorBrightYellow)
				dst.SetColor(px+2, py, '>', core.ColorBrightYellow)
			case at == g.cursor:
				dst.SetColor(px, py, '[', core.ColorBrightCyan)
				dst.SetColor(px+2, py, ']', core.ColorBrightCyan)
			}
		}
	}
}

// cellOrigin returns the screen position of the left bracket of a cell.
func (g *Game) cellOrigin(boardX, boardY int, at core.Coord) (int, int) {
	return boardX + 1 + at.X*cellWidth, boardY + 1 + (g.cfg.Board.Height - 1 - at.Y)
}

func (g *Game) glyph(c board.Cell) (rune, core.Color) {
	if c.IsEmpty() {
		return '·', core.ColorGray
	}
	if st, ok := g.styles[c.ID]; ok {
		return st.Glyph, st.Color
	}
	return '?', core.ColorMagenta
}

// renderEnemies draws live enemies over the cells they stand on.
func (g *Game) renderEnemies(dst *core.Screen, boardX, boardY int) {
	for _, e := range g.waves.Enemies() {
		px, py := g.cellOrigin(boardX, boardY, e.Pos())
		glyph := 'e'
		color := core.ColorRed
		if st, ok := g.styles[e.Type]; ok {
			glyph, color = st.Glyph, st.Color
		}
		if e.Boss {
			color = core.ColorBrightRed
		}
		dst.SetColor(px+1, py, glyph, color)
	}
}

// renderBases marks the base columns under the board.
func (g *Game) renderBases(dst *core.Screen, boardX, y int) {
	if g.mode != ModeCampaign {
		return
	}
	for _, p := range g.cfg.Waves.BasePositions {
		px, _ := g.cellOrigin(boardX, 0, p.Coord())
		dst.SetColor(px+1, y, '^', core.ColorBrightGreen)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	switch {
	case g.err != nil:
		g.drawOverlay(dst, centerX, centerY, "ENGINE FAILURE", g.err.Error(), "Press R to restart")
	case g.gameOver:
		st := g.eco.State()
		g.drawOverlay(dst, centerX, centerY, "GAME OVER",
			fmt.Sprintf("Survived %d days, %d waves", st.Day, st.WavesCompleted),
			fmt.Sprintf("Score: %d", st.Score()),
			"Press R to restart")
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH}, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, boxY+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	if g.mode == ModeSandbox {
		return "Arrows/WASD: Move | Enter/Space: Select | Esc: Cancel | P: Pause | Q: Quit"
	}
	return "Arrows/WASD: Move | Enter/Space: Select | N: End day | P: Pause | Q: Quit"
}
