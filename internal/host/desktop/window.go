// Package desktop hosts an App in an ebiten window.
package desktop

import (
	"errors"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"drake-renderer/internal/host"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/raster"
)

// WindowConfig sets up the desktop window.
type WindowConfig struct {
	Title      string
	Scale      int // window pixels per viewport pixel
	TPS        int
	LineWidth  float64
	Background color.NRGBA
	ShowFPS    bool
}

var keymap = map[host.Action][]ebiten.Key{
	host.MoveForward: {ebiten.KeyW},
	host.MoveBack:    {ebiten.KeyS},
	host.MoveLeft:    {ebiten.KeyA},
	host.MoveRight:   {ebiten.KeyD},
	host.MoveUp:      {ebiten.KeySpace},
	host.MoveDown:    {ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
	host.YawLeft:     {ebiten.KeyArrowLeft},
	host.YawRight:    {ebiten.KeyArrowRight},
	host.PitchUp:     {ebiten.KeyArrowUp},
	host.PitchDown:   {ebiten.KeyArrowDown},
	host.RollLeft:    {ebiten.KeyQ},
	host.RollRight:   {ebiten.KeyE},
	host.ResetView:   {ebiten.KeyR},
	host.ZoomIn:      {ebiten.KeyEqual, ebiten.KeyKPAdd},
	host.ZoomOut:     {ebiten.KeyMinus, ebiten.KeyKPSubtract},
}

type keyboard struct{}

func (keyboard) Active(a host.Action) bool {
	for _, k := range keymap[a] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// RunWindow opens a window sized to the scene viewport and drives app at
// cfg.TPS. It blocks until the window closes or Escape is pressed.
func RunWindow(app *host.App, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	s := &Surface{LineWidth: float32(cfg.LineWidth), colors: make(map[string]color.NRGBA)}
	app.Pipeline.SetSurface(s)

	g := &game{app: app, cfg: cfg, surface: s}
	vp := app.Scene.Viewport
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(vp.Width*cfg.Scale, vp.Height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	app     *host.App
	cfg     WindowConfig
	surface *Surface
	err     error
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.app.Update(time.Now(), keyboard{})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	g.surface.dst = screen
	if err := g.app.Render(); err != nil {
		g.err = err
		return
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, g.app.Clock.FPS())
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := g.app.Scene.Viewport
	return vp.Width, vp.Height
}

// Surface strokes segments onto the ebiten screen of the current frame.
type Surface struct {
	LineWidth float32

	dst    *ebiten.Image
	colors map[string]color.NRGBA
}

func (s *Surface) DrawSegment(p0, p1 mathutil.Vec2, token string, glow bool) {
	if s.dst == nil {
		return
	}
	col, ok := s.colors[token]
	if !ok {
		var err error
		if col, err = raster.ParseColor(token); err != nil {
			col = color.NRGBA{255, 255, 255, 255}
		}
		s.colors[token] = col
	}

	x0, y0, x1, y1 := float32(p0[0]), float32(p0[1]), float32(p1[0]), float32(p1[1])
	if glow {
		halo := col
		halo.A = col.A / 4
		vector.StrokeLine(s.dst, x0, y0, x1, y1, s.LineWidth*3, halo, true)
	}
	vector.StrokeLine(s.dst, x0, y0, x1, y1, s.LineWidth, col, true)
}
