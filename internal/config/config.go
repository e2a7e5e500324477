package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"drake-renderer/internal/mesh"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds render settings and the scene description.
type Config struct {
	// Output
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Render settings
	Width       int     `json:"width" toml:"width" yaml:"width"`
	Height      int     `json:"height" toml:"height" yaml:"height"`
	Supersample int     `json:"supersample" toml:"supersample" yaml:"supersample"`
	Workers     int     `json:"workers" toml:"workers" yaml:"workers"`
	Hz          int     `json:"hz" toml:"hz" yaml:"hz"`
	Frames      int     `json:"frames" toml:"frames" yaml:"frames"`
	Background  string  `json:"background" toml:"background" yaml:"background"`
	Backdrop    string  `json:"backdrop" toml:"backdrop" yaml:"backdrop"`
	LineWidth   float64 `json:"line_width" toml:"line_width" yaml:"line_width"`
	Glow        bool    `json:"glow" toml:"glow" yaml:"glow"`

	// Meshes
	MeshDir string `json:"mesh_dir" toml:"mesh_dir" yaml:"mesh_dir"`
	Dedup   bool   `json:"dedup" toml:"dedup" yaml:"dedup"`
	Watch   bool   `json:"watch" toml:"watch" yaml:"watch"`

	Camera  CameraConfig   `json:"camera" toml:"camera" yaml:"camera"`
	Objects []ObjectConfig `json:"objects" toml:"objects" yaml:"objects"`
}

// CameraConfig describes the scene camera. Vectors are [x, y, z].
type CameraConfig struct {
	FOV      float64   `json:"fov" toml:"fov" yaml:"fov"`
	Near     float64   `json:"near" toml:"near" yaml:"near"`
	Far      float64   `json:"far" toml:"far" yaml:"far"`
	Position []float64 `json:"position" toml:"position" yaml:"position"`
	LookDir  []float64 `json:"look_dir" toml:"look_dir" yaml:"look_dir"`
}

// ObjectConfig places one mesh. Mesh is a file path, a bare name looked up
// under MeshDir, or one of the built-in primitives "cube", "axes" and "grid".
type ObjectConfig struct {
	Mesh     string    `json:"mesh" toml:"mesh" yaml:"mesh"`
	Position []float64 `json:"position" toml:"position" yaml:"position"`
	Size     []float64 `json:"size" toml:"size" yaml:"size"`
	Rotation []float64 `json:"rotation" toml:"rotation" yaml:"rotation"` // radians
	Color    string    `json:"color" toml:"color" yaml:"color"`
	Shining  bool      `json:"shining" toml:"shining" yaml:"shining"`

	// Collider is [minX, minY, minZ, maxX, maxY, maxZ] relative to Position.
	Collider     []float64 `json:"collider" toml:"collider" yaml:"collider"`
	ShowCollider bool      `json:"show_collider" toml:"show_collider" yaml:"show_collider"`

	Velocity     []float64 `json:"velocity" toml:"velocity" yaml:"velocity"`
	Acceleration []float64 `json:"acceleration" toml:"acceleration" yaml:"acceleration"`
	Mass         float64   `json:"mass" toml:"mass" yaml:"mass"`
	// Spin is an Euler rotation rate in radians per second.
	Spin []float64 `json:"spin" toml:"spin" yaml:"spin"`
}

// Load reads a config file. The format follows the extension: .json,
// .toml, .yaml or .yml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: unknown format: %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir   string
	MeshDir     string
	Width       int
	Height      int
	Supersample int
	Workers     int
	Hz          int
	Frames      int
	FOV         float64
	Watch       bool
}

// Resolve applies CLI overrides, then fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.MeshDir != "" {
		c.MeshDir = flags.MeshDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Hz > 0 {
		c.Hz = flags.Hz
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.FOV > 0 {
		c.Camera.FOV = flags.FOV
	}
	if flags.Watch {
		c.Watch = true
	}

	// Defaults for render settings
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Background == "" {
		c.Background = "#000"
	}
	if c.LineWidth <= 0 {
		c.LineWidth = 1.5
	}

	// Camera
	if c.Camera.FOV <= 0 {
		c.Camera.FOV = 90
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far <= 0 {
		c.Camera.Far = 1000
	}
	if c.Camera.Position == nil {
		c.Camera.Position = []float64{0, 0, -10}
	}
	if c.Camera.LookDir == nil {
		c.Camera.LookDir = []float64{0, 0, 1}
	}

	if len(c.Objects) == 0 {
		c.Objects = []ObjectConfig{
			{Mesh: "cube", Size: []float64{4, 4, 4}, Color: "#0ff", Spin: []float64{0.3, 0.5, 0}},
			{Mesh: "grid", Position: []float64{0, -3, 0}, Color: "#335"},
			{Mesh: "axes", Size: []float64{3, 3, 3}},
		}
	}
}

// ResolvePaths makes relative mesh and backdrop paths relative to dir,
// typically the directory of the config file.
func (c *Config) ResolvePaths(dir string) {
	if dir == "" {
		return
	}
	if c.Backdrop != "" && !filepath.IsAbs(c.Backdrop) {
		c.Backdrop = filepath.Join(dir, c.Backdrop)
	}
	if c.MeshDir != "" && !filepath.IsAbs(c.MeshDir) {
		c.MeshDir = filepath.Join(dir, c.MeshDir)
	}
	for i := range c.Objects {
		m := c.Objects[i].Mesh
		if m == "" || isBuiltin(m) || isName(m) || filepath.IsAbs(m) {
			continue
		}
		c.Objects[i].Mesh = filepath.Join(dir, m)
	}
}

// MeshPaths lists the distinct mesh files referenced by objects.
func (c *Config) MeshPaths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range c.Objects {
		if o.Mesh == "" || isBuiltin(o.Mesh) || seen[o.Mesh] {
			continue
		}
		seen[o.Mesh] = true
		out = append(out, o.Mesh)
	}
	return out
}

// IndexMeshes scans MeshDir, when set, and resolves bare mesh names
// against it. It returns the number of indexed files.
func (c *Config) IndexMeshes() (int, error) {
	if c.MeshDir == "" {
		return 0, nil
	}
	idx := mesh.BuildIndex(c.MeshDir)
	return idx.Len(), c.ResolveNames(idx)
}

// ResolveNames replaces bare mesh names with their path in idx.
func (c *Config) ResolveNames(idx *mesh.Index) error {
	for i := range c.Objects {
		m := c.Objects[i].Mesh
		if !isName(m) || isBuiltin(m) {
			continue
		}
		p, ok := idx.ResolvePath(m)
		if !ok {
			return fmt.Errorf("%w: object %d: no mesh named %q", ErrInvalid, i, m)
		}
		c.Objects[i].Mesh = p
	}
	return nil
}

// isName reports a mesh reference with no directory or extension.
func isName(m string) bool {
	return m != "" && filepath.Ext(m) == "" && !strings.ContainsAny(m, `/\`)
}

func isBuiltin(name string) bool {
	_, ok := mesh.Builtin(name)
	return ok
}
