package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"drake-renderer/internal/config"
	"drake-renderer/internal/host"
	"drake-renderer/internal/host/desktop"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/raster"
	"drake-renderer/internal/render"
	"drake-renderer/internal/viewmatrix"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config (.json, .toml, .yaml)")
	meshDir := flag.String("meshes", "", "Directory to look up bare mesh names in")
	width := flag.Int("width", 0, "Viewport width (default: 640)")
	height := flag.Int("height", 0, "Viewport height (default: 480)")
	fov := flag.Float64("fov", 0, "Camera field of view in degrees (default: 90)")
	hz := flag.Int("hz", 0, "Updates per second (default: 60)")
	scale := flag.Int("scale", 1, "Window pixels per viewport pixel")
	watch := flag.Bool("watch", false, "Reload mesh files when they change")
	showFPS := flag.Bool("fps", true, "Show the frame rate")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg.ResolvePaths(filepath.Dir(*configFile))
	}
	cfg.Resolve(config.Flags{MeshDir: *meshDir, Width: *width, Height: *height, FOV: *fov, Hz: *hz, Watch: *watch})
	if n, err := cfg.IndexMeshes(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	} else if n > 0 {
		fmt.Printf("Meshes: %d indexed in %s\n", n, cfg.MeshDir)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	bg, _ := raster.ParseColor(cfg.Background)

	s := cfg.BuildScene()
	// The window scales on the GPU; no supersampling.
	s.Viewport = viewmatrix.Viewport{Width: cfg.Width, Height: cfg.Height}

	cache := mesh.NewCache(cfg.Dedup)
	if err := s.LoadMeshes(context.Background(), cache, cfg.Workers); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading meshes: %v\n", err)
		os.Exit(1)
	}

	app := &host.App{
		Scene:    s,
		Pipeline: render.NewPipeline(nil),
		Cache:    cache,
		Controls: host.DefaultControls(),
		OnReload: func(path string, n int, err error) {
			if path == "" {
				fmt.Fprintf(os.Stderr, "Watcher: %v\n", err)
				return
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Reload %s: %v\n", path, err)
				return
			}
			fmt.Printf("Reloaded %s (%d objects)\n", path, n)
		},
	}

	if cfg.Watch {
		paths := s.MeshPaths()
		if len(paths) > 0 {
			w, err := host.NewWatcher(paths)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			} else {
				defer w.Close()
				app.Watcher = w
				fmt.Printf("Watching %d mesh files\n", len(paths))
			}
		}
	}

	fmt.Println("WASD move, Space/Shift up/down, arrows turn, Q/E roll, +/- zoom, R reset, Esc quit")
	err := desktop.RunWindow(app, desktop.WindowConfig{
		Title:      "Wireframe viewer",
		Scale:      *scale,
		TPS:        cfg.Hz,
		LineWidth:  cfg.LineWidth,
		Background: bg,
		ShowFPS:    *showFPS,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
