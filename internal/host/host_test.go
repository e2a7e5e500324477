package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/raster"
	"drake-renderer/internal/render"
	"drake-renderer/internal/scene"
	"drake-renderer/internal/viewmatrix"
)

func TestControlsMove(t *testing.T) {
	cam := camera.Default()
	DefaultControls().Apply(cam, Held{MoveForward: true}, 0.5)
	assert.InDelta(t, -6, cam.Position[2], 1e-9)
	assert.InDelta(t, 0, cam.Position[0], 1e-9)

	DefaultControls().Apply(cam, Held{MoveRight: true, MoveUp: true}, 0.25)
	assert.Greater(t, cam.Position[0], 0.0)
	assert.Greater(t, cam.Position[1], 0.0)
	assert.InDelta(t, 2, cam.Position.Sub(mathutil.V3(0, 0, -6)).Len(), 1e-9)
}

func TestControlsRotate(t *testing.T) {
	cam := camera.Default()
	DefaultControls().Apply(cam, Held{YawLeft: true}, 0.2)
	assert.Less(t, cam.LookDir[0], 0.0)
	assert.InDelta(t, 0, cam.LookDir[1], 1e-9)
	assert.InDelta(t, 1, cam.LookDir.Len(), 1e-9)

	cam = camera.Default()
	DefaultControls().Apply(cam, Held{PitchUp: true}, 0.2)
	assert.Greater(t, cam.LookDir[1], 0.0)

	DefaultControls().Apply(cam, Held{ResetView: true}, 0.1)
	assert.Equal(t, mathutil.Forward, cam.LookDir)
}

func TestControlsZoom(t *testing.T) {
	cam := camera.Default()
	DefaultControls().Apply(cam, Held{ZoomIn: true}, 0.5)
	assert.InDelta(t, 75, cam.FOV, 1e-9)

	DefaultControls().Apply(cam, Held{ZoomOut: true}, 1)
	assert.InDelta(t, 105, cam.FOV, 1e-9)

	DefaultControls().Apply(cam, Held{ZoomIn: true}, 10)
	assert.Equal(t, MinFOV, cam.FOV)
	DefaultControls().Apply(cam, Held{ZoomOut: true}, 10)
	assert.Equal(t, MaxFOV, cam.FOV)

	DefaultControls().Apply(cam, Held{ZoomIn: true, ZoomOut: true}, 1)
	assert.Equal(t, MaxFOV, cam.FOV)
}

func TestControlsIgnoreEmptyFrame(t *testing.T) {
	cam := camera.Default()
	DefaultControls().Apply(cam, Held{MoveForward: true}, 0)
	DefaultControls().Apply(cam, nil, 1)
	assert.Equal(t, mathutil.V3(0, 0, -10), cam.Position)
}

func newApp(t *testing.T) (*App, *raster.Canvas) {
	t.Helper()
	vp := viewmatrix.Viewport{Width: 160, Height: 120}
	s := scene.New(camera.Default(), vp)
	e := scene.NewEntity("cube", scene.Options{Size: mathutil.V3(4, 4, 4)})
	e.Behavior = func(e *scene.Entity, dt float64) { e.Rotate(0, dt, 0) }
	s.Add(e)

	cache := mesh.NewCache(false)
	require.NoError(t, s.LoadMeshes(context.Background(), cache, 1))

	c := raster.NewCanvas(vp.Width, vp.Height)
	return &App{
		Scene:    s,
		Pipeline: render.NewPipeline(c),
		Cache:    cache,
		Controls: DefaultControls(),
	}, c
}

func TestRunHeadlessTicks(t *testing.T) {
	app, c := newApp(t)
	var frames []int
	clears := 0

	err := RunHeadless(context.Background(), app, HeadlessConfig{
		Hz:    50,
		Ticks: 5,
		Clear: func() { clears++; c.Clear() },
		OnFrame: func(frame int) error {
			frames = append(frames, frame)
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, frames)
	assert.Equal(t, 5, clears)
	assert.Equal(t, 4, app.Clock.Frame())
	assert.InDelta(t, 0.02, app.Clock.Delta(), 1e-9)
	assert.Equal(t, 12, app.Stats.Submitted)
	assert.Positive(t, app.Stats.Drawn)

	// first tick has dt 0, then four steps of 20ms
	e := app.Scene.Entities()[0]
	assert.InDelta(t, 0.08, e.Rotation()[1], 1e-9)
}

func TestRunHeadlessStop(t *testing.T) {
	app, _ := newApp(t)
	n := 0
	err := RunHeadless(context.Background(), app, HeadlessConfig{
		Hz: 30,
		OnFrame: func(frame int) error {
			n++
			if frame == 2 {
				return ErrStop
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	boom := errors.New("boom")
	err = RunHeadless(context.Background(), app, HeadlessConfig{
		Hz:      30,
		OnFrame: func(int) error { return boom },
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunHeadlessContext(t *testing.T) {
	app, _ := newApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RunHeadless(ctx, app, HeadlessConfig{Hz: 60}), context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := RunHeadless(ctx, app, HeadlessConfig{Hz: 100, Realtime: true})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, app.Clock.Frame())
}

func TestRunHeadlessErrors(t *testing.T) {
	app, _ := newApp(t)
	assert.Error(t, RunHeadless(context.Background(), app, HeadlessConfig{}))

	app.Scene.Camera = nil
	err := RunHeadless(context.Background(), app, HeadlessConfig{Hz: 60, Ticks: 1})
	assert.ErrorIs(t, err, render.ErrNoCamera)
}

const triangle = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func waitPending(t *testing.T, w *Watcher) []string {
	t.Helper()
	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Pending()...)
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)
	return got
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(p, []byte(triangle), 0o644))

	w, err := NewWatcher([]string{p})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.obj"), []byte(triangle), 0o644))
	require.NoError(t, os.WriteFile(p, []byte(triangle+"l 1 3\n"), 0o644))

	for _, got := range waitPending(t, w) {
		assert.Equal(t, p, got)
	}
	assert.NoError(t, w.Err())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestAppReportsWatcherErrors(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(p, []byte(triangle), 0o644))

	w, err := NewWatcher([]string{p})
	require.NoError(t, err)
	defer w.Close()

	app, _ := newApp(t)
	app.Watcher = w
	var reported []error
	app.OnReload = func(path string, n int, err error) {
		assert.Empty(t, path)
		assert.Zero(t, n)
		reported = append(reported, err)
	}

	w.mu.Lock()
	w.err = errors.New("queue overflow")
	w.mu.Unlock()

	now := time.Now()
	app.Update(now, nil)
	app.Update(now.Add(time.Second/60), nil)
	require.Len(t, reported, 1)
	assert.EqualError(t, reported[0], "queue overflow")
	assert.NoError(t, w.Err())
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "nope", "x.obj")})
	assert.Error(t, err)
}

func TestAppReloadsChangedMesh(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(p, []byte(triangle), 0o644))

	s := scene.New(camera.Default(), viewmatrix.Viewport{Width: 64, Height: 48})
	e := scene.NewEntity(p, scene.Options{})
	s.Add(e)
	cache := mesh.NewCache(false)
	require.NoError(t, s.LoadMeshes(context.Background(), cache, 2))
	require.Len(t, e.Segments(), 3)

	w, err := NewWatcher([]string{p})
	require.NoError(t, err)
	defer w.Close()

	var reloaded []string
	app := &App{
		Scene:    s,
		Pipeline: render.NewPipeline(raster.NewCanvas(64, 48)),
		Cache:    cache,
		Watcher:  w,
		OnReload: func(path string, n int, err error) {
			assert.NoError(t, err)
			assert.Equal(t, 1, n)
			reloaded = append(reloaded, path)
		},
	}

	require.NoError(t, os.WriteFile(p, []byte(triangle+"l 1 2 3\n"), 0o644))

	now := time.Now()
	require.Eventually(t, func() bool {
		now = now.Add(time.Second / 60)
		app.Update(now, nil)
		return len(reloaded) > 0 && len(e.Segments()) == 5
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, p, reloaded[0])
}
