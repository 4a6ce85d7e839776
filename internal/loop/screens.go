package loop

import (
	"fmt"
	"strings"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// drawFrame clears the screen and draws the current screen.
func (s *session) drawFrame() error {
	cw := s.chunkWriter
	cw.WriteString("\033[H\033[2J")

	s.canvas.Clear()
	s.stars.Draw(s.canvas)
	if s.ctrl != nil {
		s.drawEntities()
		s.host.drawBursts(s.canvas)
	}

	// Render canvas to terminal
	s.canvas.Render(cw)
	s.canvas.RenderBorder(cw)

	// Glyph overlays and UI go on top of the canvas
	if s.ctrl != nil {
		s.drawEnemyGlyphs()
	}
	s.drawUI()

	return cw.Flush()
}

// drawEntities plots the player and projectiles onto the canvas.
func (s *session) drawEntities() {
	s.ctrl.ForEach(func(e *object.Entity) {
		v, ok := s.host.visuals[e.ID]
		if !ok {
			return
		}
		switch v.kind {
		case object.KindPlayer:
			s.canvas.FillPolygon(shipPolygon(e.Rect()), colorPlayer)
		case object.KindProjectile:
			s.canvas.FillCircle(e.Circle(), colorProjectile)
		}
	})
}

// shipPolygon is an arrow-shaped ship filling rect, nose up.
func shipPolygon(r physics.Rect) []draw.Point {
	c := r.Center
	return []draw.Point{
		{X: c.X, Y: c.Y + r.HalfH},
		{X: c.X + r.HalfW, Y: c.Y - r.HalfH},
		{X: c.X, Y: c.Y - r.HalfH/2},
		{X: c.X - r.HalfW, Y: c.Y - r.HalfH},
	}
}

// drawEnemyGlyphs fills the cells covered by each enemy with its variant
// glyph in the variant colour.
func (s *session) drawEnemyGlyphs() {
	top := s.canvas.Bounds().Height
	s.ctrl.ForEach(func(e *object.Entity) {
		v, ok := s.host.visuals[e.ID]
		if !ok || v.kind != object.KindEnemy {
			return
		}
		// Enemies wait above the field before falling in.
		if e.Position.Y-e.Size.Height/2 >= top {
			return
		}
		col0, col1, row0, row1, ok := s.canvas.CellsCovering(e.Rect())
		if !ok {
			return
		}
		line := strings.Repeat(v.style.Glyph, col1-col0+1)
		for row := row0; row <= row1; row++ {
			s.chunkWriter.WriteColoredAt(col0, row, draw.Color(v.style.ANSI), line)
		}
	})
}

// drawUI draws the overlay for the current screen.
func (s *session) drawUI() {
	centerY := s.termHeight / 2

	switch s.screen {
	case ScreenTitle:
		s.drawTitleScreen(centerY)
	case ScreenPlaying:
		s.drawPlayingHUD()
	case ScreenGameOver:
		s.drawPlayingHUD()
		s.drawGameOverScreen(centerY)
	}
}

// drawTitleScreen draws the title and the enemy legend.
func (s *session) drawTitleScreen(centerY int) {
	cw := s.chunkWriter
	titleArt := []string{
		` ___ ___  _   ___ ___   ___ _  _  ___   ___ _____ ___ ___ `,
		`/ __| _ \/_\ / __| __| / __| || |/ _ \ / _ \_   _| __| _ \`,
		`\__ \  _/ _ \ (__| _|  \__ \ __ | (_) | (_) || | | _||   /`,
		`|___/_|/_/ \_\___|___| |___/_||_|\___/ \___/ |_| |___|_|_\`,
	}
	startY := max(centerY-6, 2)
	for i, line := range titleArt {
		cw.WriteCentered(s.termWidth, startY+i, line)
	}

	row := startY + len(titleArt) + 1
	cw.WriteCentered(s.termWidth, row, "Press SPACE to Start")

	// Legend: one entry per variant, worth the same
	legend := make([]string, 0, len(object.Variants))
	for _, v := range object.Variants {
		style := s.opts.Variants.Get(v)
		legend = append(legend, fmt.Sprintf("%s %s", style.Glyph, style.Name))
	}
	text := strings.Join(legend, "   ")
	col := max((s.termWidth-len(text))/2+1, 1)
	for _, v := range object.Variants {
		style := s.opts.Variants.Get(v)
		cw.WriteColoredAt(col, row+2, draw.Color(style.ANSI), style.Glyph)
		cw.WriteAt(col+len(style.Glyph)+1, row+2, style.Name)
		col += len(style.Glyph) + 1 + len(style.Name) + 3
	}
	cw.WriteCentered(s.termWidth, row+3, fmt.Sprintf("%d points each", s.settings.HitReward))

	controls := "Controls: A/D or Arrows to move, SPACE to fire, Q to quit"
	cw.WriteCentered(s.termWidth, row+5, controls)
}

// drawPlayingHUD draws the score in the top-left corner.
func (s *session) drawPlayingHUD() {
	cw := s.chunkWriter
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %d", s.ctrl.Score()))

	if s.best > 0 {
		best := fmt.Sprintf("Best: %d", s.best)
		cw.WriteAt(max(s.termWidth-len(best), 1), 1, best)
	}
}

// drawGameOverScreen draws the game-over overlay.
func (s *session) drawGameOverScreen(centerY int) {
	cw := s.chunkWriter
	cw.WriteCentered(s.termWidth, centerY-2, "GAME OVER")
	cw.WriteCentered(s.termWidth, centerY, fmt.Sprintf("Score: %d", s.ctrl.Score()))
	if s.gameOverFor >= restartDelay {
		cw.WriteCentered(s.termWidth, centerY+2, "Press SPACE to Restart")
	}
}
