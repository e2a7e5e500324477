package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drake-renderer/internal/mathutil"
)

const jsonConfig = `{
  "width": 320,
  "height": 200,
  "glow": true,
  "camera": {"fov": 70, "position": [1, 2, -8], "look_dir": [0, 0, 1]},
  "objects": [
    {"mesh": "ship.obj", "color": "#f80", "velocity": [1, 0, 0], "collider": [-1, -1, -1, 1, 1, 1]},
    {"mesh": "cube", "spin": [0, 1, 0]}
  ]
}`

const tomlConfig = `
width = 320
height = 200
glow = true

[camera]
fov = 70
position = [1.0, 2.0, -8.0]
look_dir = [0.0, 0.0, 1.0]

[[objects]]
mesh = "ship.obj"
color = "#f80"
velocity = [1.0, 0.0, 0.0]
collider = [-1.0, -1.0, -1.0, 1.0, 1.0, 1.0]

[[objects]]
mesh = "cube"
spin = [0.0, 1.0, 0.0]
`

const yamlConfig = `
width: 320
height: 200
glow: true
camera:
  fov: 70
  position: [1, 2, -8]
  look_dir: [0, 0, 1]
objects:
  - mesh: ship.obj
    color: "#f80"
    velocity: [1, 0, 0]
    collider: [-1, -1, -1, 1, 1, 1]
  - mesh: cube
    spin: [0, 1, 0]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	for name, body := range map[string]string{
		"scene.json": jsonConfig,
		"scene.toml": tomlConfig,
		"scene.yaml": yamlConfig,
		"scene.yml":  yamlConfig,
	} {
		cfg, err := Load(writeFile(t, name, body))
		require.NoError(t, err, name)

		assert.Equal(t, 320, cfg.Width, name)
		assert.Equal(t, 200, cfg.Height, name)
		assert.True(t, cfg.Glow, name)
		assert.Equal(t, 70.0, cfg.Camera.FOV, name)
		assert.Equal(t, []float64{1, 2, -8}, cfg.Camera.Position, name)
		require.Len(t, cfg.Objects, 2, name)
		assert.Equal(t, "ship.obj", cfg.Objects[0].Mesh, name)
		assert.Equal(t, "#f80", cfg.Objects[0].Color, name)
		assert.Equal(t, []float64{-1, -1, -1, 1, 1, 1}, cfg.Objects[0].Collider, name)
		assert.Equal(t, []float64{0, 1, 0}, cfg.Objects[1].Spin, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "scene.ini", "width=1"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "scene.json", "{"))
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 60, cfg.Hz)
	assert.Equal(t, 1, cfg.Frames)
	assert.Equal(t, "#000", cfg.Background)
	assert.Equal(t, 1.5, cfg.LineWidth)
	assert.Equal(t, 90.0, cfg.Camera.FOV)
	assert.Equal(t, 0.1, cfg.Camera.Near)
	assert.Equal(t, 1000.0, cfg.Camera.Far)
	assert.Equal(t, []float64{0, 0, -10}, cfg.Camera.Position)
	assert.Equal(t, []float64{0, 0, 1}, cfg.Camera.LookDir)
	assert.NotEmpty(t, cfg.Objects)
	assert.NoError(t, cfg.Validate())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Width: 100, Height: 100, Workers: 3}
	cfg.Resolve(Flags{Width: 800, Workers: 7, FOV: 60, Frames: 30, OutputDir: "out", Watch: true})

	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 60.0, cfg.Camera.FOV)
	assert.Equal(t, 30, cfg.Frames)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.Watch)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"fov":        func(c *Config) { c.Camera.FOV = 180 },
		"near":       func(c *Config) { c.Camera.Near = -1 },
		"far":        func(c *Config) { c.Camera.Far = 0.05 },
		"look":       func(c *Config) { c.Camera.LookDir = []float64{0, 0, 0} },
		"position":   func(c *Config) { c.Camera.Position = []float64{1, 2} },
		"background": func(c *Config) { c.Background = "#xyz" },
		"supersample": func(c *Config) {
			c.Supersample = 20
		},
		"mesh":     func(c *Config) { c.Objects[0].Mesh = "" },
		"collider": func(c *Config) { c.Objects[0].Collider = []float64{1, 2, 3} },
		"mass":     func(c *Config) { c.Objects[0].Mass = -2 },
		"color":    func(c *Config) { c.Objects[0].Color = "blurple" },
	} {
		var cfg Config
		cfg.Resolve(Flags{})
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalid, name)
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := Config{
		Backdrop: "sky.png",
		Objects: []ObjectConfig{
			{Mesh: "ship.obj"},
			{Mesh: "cube"},
			{Mesh: "/abs/rock.obj"},
			{Mesh: "ship.obj"},
		},
	}
	cfg.ResolvePaths("/data")

	assert.Equal(t, filepath.Join("/data", "sky.png"), cfg.Backdrop)
	assert.Equal(t, filepath.Join("/data", "ship.obj"), cfg.Objects[0].Mesh)
	assert.Equal(t, "cube", cfg.Objects[1].Mesh)
	assert.Equal(t, "/abs/rock.obj", cfg.Objects[2].Mesh)
	assert.Equal(t, []string{filepath.Join("/data", "ship.obj"), "/abs/rock.obj"}, cfg.MeshPaths())
}

func TestBuildScene(t *testing.T) {
	cfg, err := Load(writeFile(t, "scene.json", jsonConfig))
	require.NoError(t, err)
	cfg.Resolve(Flags{})
	require.NoError(t, cfg.Validate())

	s := cfg.BuildScene()
	assert.Equal(t, 640, s.Viewport.Width)
	assert.Equal(t, 400, s.Viewport.Height)
	assert.Equal(t, mathutil.V3(1, 2, -8), s.Camera.Position)
	assert.Equal(t, 70.0, s.Camera.FOV)

	ents := s.Entities()
	require.Len(t, ents, 2)

	ship := ents[0]
	assert.Equal(t, "#f80", ship.Color)
	assert.True(t, ship.Shining)
	require.NotNil(t, ship.Physics)
	assert.Equal(t, 1.0, ship.Physics.Mass)
	assert.Equal(t, mathutil.V3(1, 0, 0), ship.Physics.Velocity)
	require.NotNil(t, ship.Collider)
	assert.Equal(t, mathutil.V3(1, 1, 1), ship.Collider.Max)

	cube := ents[1]
	assert.Nil(t, cube.Physics)
	require.NotNil(t, cube.Behavior)
	s.Update(0.5)
	assert.InDelta(t, 0.5, cube.Rotation()[1], 1e-12)
}

func TestIndexMeshes(t *testing.T) {
	dir := t.TempDir()
	ship := filepath.Join(dir, "fleet", "Ship.obj")
	require.NoError(t, os.MkdirAll(filepath.Dir(ship), 0o755))
	require.NoError(t, os.WriteFile(ship, []byte("v 0 0 0\nv 1 0 0\nl 1 2\n"), 0o644))

	cfg := Config{
		MeshDir: "models",
		Objects: []ObjectConfig{{Mesh: "ship"}, {Mesh: "cube"}, {Mesh: "rock.obj"}},
	}
	cfg.ResolvePaths("/data")
	assert.Equal(t, filepath.Join("/data", "models"), cfg.MeshDir)
	assert.Equal(t, "ship", cfg.Objects[0].Mesh)
	assert.Equal(t, filepath.Join("/data", "rock.obj"), cfg.Objects[2].Mesh)

	cfg.MeshDir = dir
	n, err := cfg.IndexMeshes()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, ship, cfg.Objects[0].Mesh)
	assert.Equal(t, "cube", cfg.Objects[1].Mesh)

	cfg.Objects = append(cfg.Objects, ObjectConfig{Mesh: "ghost"})
	_, err = cfg.IndexMeshes()
	assert.ErrorIs(t, err, ErrInvalid)

	n, err = (&Config{}).IndexMeshes()
	assert.NoError(t, err)
	assert.Zero(t, n)
}
