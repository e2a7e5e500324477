// Package host drives a scene frame by frame: input, reloads, simulation
// and the render pipeline, either headless or under a desktop window.
package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drake-renderer/internal/mesh"
	"drake-renderer/internal/render"
	"drake-renderer/internal/scene"
)

// App is the per-frame callback shared by every host.
type App struct {
	Scene    *scene.Scene
	Pipeline *render.Pipeline
	Cache    *mesh.Cache
	Controls Controls

	// Watcher is optional; changed meshes are reloaded at frame start.
	Watcher *Watcher
	// OnReload is called after each reload attempt, if set. Watcher
	// failures arrive with an empty path.
	OnReload func(path string, n int, err error)

	Clock render.Clock
	Stats render.FrameStats
}

// Update advances one frame: pending reloads first, then input, then the
// scene simulation. It returns the frame delta in seconds.
func (a *App) Update(now time.Time, in Input) float64 {
	dt := a.Clock.Tick(now)

	if a.Watcher != nil {
		if err := a.Watcher.Err(); err != nil && a.OnReload != nil {
			a.OnReload("", 0, err)
		}
		if a.Cache != nil {
			for _, p := range a.Watcher.Pending() {
				n, err := a.Scene.Reload(p, a.Cache)
				if a.OnReload != nil {
					a.OnReload(p, n, err)
				}
			}
		}
	}

	a.Controls.Apply(a.Scene.Camera, in, dt)
	a.Scene.Update(dt)
	return dt
}

// Render runs the pipeline over the current scene into the pipeline's
// surface. The caller clears the surface first.
func (a *App) Render() error {
	stats, err := a.Pipeline.RenderFrame(a.Scene.Camera, a.Scene.Viewport, a.Scene.Segments())
	a.Stats = stats
	return err
}

// HeadlessConfig controls RunHeadless.
type HeadlessConfig struct {
	Hz    int
	Ticks int // 0 runs until ctx is done
	// Realtime paces frames with a wall-clock ticker. Otherwise frames run
	// back to back on a simulated clock advancing exactly 1/Hz per tick.
	Realtime bool
	// Clear prepares the surface before each Render.
	Clear func()
	// OnFrame receives each rendered frame number.
	OnFrame func(frame int) error
}

// ErrStop can be returned from OnFrame to end the loop without error.
var ErrStop = errors.New("host: stop")

// RunHeadless drives app without a window. It returns nil after Ticks
// frames or ErrStop, and ctx.Err() if the context ends first.
func RunHeadless(ctx context.Context, app *App, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		return fmt.Errorf("host: hz must be positive, got %d", cfg.Hz)
	}
	period := time.Second / time.Duration(cfg.Hz)

	var ticks <-chan time.Time
	if cfg.Realtime {
		t := time.NewTicker(period)
		defer t.Stop()
		ticks = t.C
	}

	sim := time.Now()
	for frame := 0; cfg.Ticks == 0 || frame < cfg.Ticks; frame++ {
		now := sim
		if cfg.Realtime {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now = <-ticks:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		sim = sim.Add(period)

		app.Update(now, nil)
		if cfg.Clear != nil {
			cfg.Clear()
		}
		if err := app.Render(); err != nil {
			return err
		}
		if cfg.OnFrame != nil {
			if err := cfg.OnFrame(frame); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}
