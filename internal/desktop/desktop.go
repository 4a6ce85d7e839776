// Package desktop runs the game in a window using ebiten.
package desktop

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/data"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

var (
	colorBackground = color.RGBA{0x05, 0x05, 0x12, 0xff}
	colorPlayer     = color.RGBA{0x4f, 0xe8, 0xff, 0xff}
	colorProjectile = color.RGBA{0xff, 0xf0, 0x50, 0xff}
	colorStar       = color.RGBA{0x90, 0x90, 0xa0, 0xff}
	colorBurst      = color.RGBA{0xff, 0x8c, 0x1a, 0xff}
)

type phase int

const (
	phaseTitle phase = iota
	phasePlaying
	phaseGameOver
)

// Options configures the desktop front-end.
type Options struct {
	Config   *config.Config
	Logger   *zap.Logger
	Variants *data.VariantTable
	Host     game.Host // extra host, e.g. audio
}

// App implements ebiten.Game.
type App struct {
	opts     Options
	settings game.Settings
	scale    float64

	phase    phase
	ctrl     *game.Controller
	effects  *effects
	stars    *draw.Starfield
	games    int
	overFor  time.Duration
	quitting bool
}

var _ ebiten.Game = (*App)(nil)

// New creates the desktop app on the title screen.
func New(opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Variants == nil {
		opts.Variants = data.DefaultVariants()
	}
	if opts.Host == nil {
		opts.Host = game.NopHost{}
	}

	settings := game.SettingsFrom(opts.Config)
	return &App{
		opts:     opts,
		settings: settings,
		scale:    opts.Config.Desktop.Scale,
		effects:  newEffects(),
		stars:    draw.NewStarfield(settings.Bounds, 80, uint64(time.Now().UnixNano())),
	}
}

// ScreenSize returns the window size in pixels.
func (a *App) ScreenSize() (int, int) {
	return int(2 * a.settings.Bounds.Width * a.scale), int(2 * a.settings.Bounds.Height * a.scale)
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	w, h := a.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Space Shooter")
	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (a *App) startGame() error {
	a.effects = newEffects()
	ctrl, err := game.New(a.settings,
		game.WithHost(game.Hosts(a.effects, a.opts.Host)),
		game.WithLogger(a.opts.Logger))
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	a.ctrl = ctrl
	a.phase = phasePlaying
	a.overFor = 0
	a.games++
	return nil
}

// Update advances one tick (ebiten runs it at a fixed TPS).
func (a *App) Update() error {
	if a.quitting || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	dt := time.Second / time.Duration(ebiten.TPS())
	a.stars.Update(dt)

	switch a.phase {
	case phaseTitle:
		if startPressed() {
			return a.startGame()
		}

	case phasePlaying:
		a.ctrl.Tilt(tilt())
		if firePressed() {
			a.ctrl.Fire()
		}
		if err := a.tick(dt); err != nil {
			return err
		}
		if !a.ctrl.Active() {
			a.phase = phaseGameOver
		}

	case phaseGameOver:
		if err := a.tick(dt); err != nil {
			return err
		}
		a.overFor += dt
		if a.overFor >= time.Second && startPressed() {
			return a.startGame()
		}
	}
	return nil
}

func (a *App) tick(dt time.Duration) error {
	a.effects.update(dt)
	return a.ctrl.Tick(dt)
}

func tilt() float64 {
	left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA)
	right := ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD)
	switch {
	case left && !right:
		return -1
	case right && !left:
		return 1
	}
	return 0
}

func firePressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

func startPressed() bool {
	return firePressed() || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.ScreenSize()
}

// toScreen converts world coordinates to screen pixels.
func (a *App) toScreen(p physics.Vec) (float32, float32) {
	return float32((p.X + a.settings.Bounds.Width) * a.scale), float32((a.settings.Bounds.Height - p.Y) * a.scale)
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, p := range a.stars.Positions() {
		x, y := a.toScreen(p)
		vector.DrawFilledRect(screen, x, y, 1, 1, colorStar, false)
	}

	if a.ctrl != nil {
		a.drawEntities(screen)
		a.drawEffects(screen)
	}

	switch a.phase {
	case phaseTitle:
		a.drawTitle(screen)
	case phasePlaying:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", a.ctrl.Score()), 8, 8)
	case phaseGameOver:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", a.ctrl.Score()), 8, 8)
		w, h := a.ScreenSize()
		ebitenutil.DebugPrintAt(screen, "GAME OVER", w/2-27, h/2-16)
		if a.overFor >= time.Second {
			ebitenutil.DebugPrintAt(screen, "Press SPACE or click to restart", w/2-93, h/2+8)
		}
	}
}

func (a *App) drawEntities(screen *ebiten.Image) {
	a.ctrl.ForEach(func(e *object.Entity) {
		r := e.Rect()
		x, y := a.toScreen(physics.Vec{X: r.Center.X - r.HalfW, Y: r.Center.Y + r.HalfH})
		w, h := float32(2*r.HalfW*a.scale), float32(2*r.HalfH*a.scale)

		switch e.Kind {
		case object.KindPlayer:
			// Hull plus a narrower nose.
			vector.DrawFilledRect(screen, x, y+h/2, w, h/2, colorPlayer, false)
			vector.DrawFilledRect(screen, x+w/3, y, w/3, h/2, colorPlayer, false)
		case object.KindEnemy:
			vector.DrawFilledRect(screen, x, y, w, h, a.opts.Variants.Get(e.Variant).RGBA(), false)
		case object.KindProjectile:
			c := e.Circle()
			cx, cy := a.toScreen(c.Center)
			vector.DrawFilledCircle(screen, cx, cy, float32(c.Radius*a.scale), colorProjectile, true)
		}
	})
}

func (a *App) drawEffects(screen *ebiten.Image) {
	for _, b := range a.effects.bursts {
		progress := b.age.Seconds() / b.lifetime.Seconds()
		cx, cy := a.toScreen(b.at)
		vector.StrokeCircle(screen, cx, cy, float32(b.radius*progress*a.scale), 2, colorBurst, true)
	}
	a.effects.debris.ForEach(func(p *draw.Particle) {
		x, y := a.toScreen(p.Pos)
		vector.DrawFilledRect(screen, x-1, y-1, 2, 2, colorBurst, false)
	})
}

func (a *App) drawTitle(screen *ebiten.Image) {
	w, h := a.ScreenSize()
	ebitenutil.DebugPrintAt(screen, "SPACE SHOOTER", w/2-39, h/2-48)
	ebitenutil.DebugPrintAt(screen, "Press SPACE or click to start", w/2-87, h/2-24)
	ebitenutil.DebugPrintAt(screen, "Arrows or A/D to move, SPACE to fire, ESC to quit", w/2-147, h/2)

	y := float32(h/2 + 32)
	x := float32(w/2 - 120)
	for _, v := range object.Variants {
		style := a.opts.Variants.Get(v)
		vector.DrawFilledRect(screen, x, y, 12, 12, style.RGBA(), false)
		ebitenutil.DebugPrintAt(screen, style.Name, int(x)+18, int(y))
		x += 90
	}
}
