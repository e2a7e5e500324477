package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"drake-renderer/internal/batch"
	"drake-renderer/internal/config"
	"drake-renderer/internal/host"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/raster"
	"drake-renderer/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to scene config (.json, .toml, .yaml)")
	meshDir := flag.String("meshes", "", "Directory to look up bare mesh names in")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	width := flag.Int("width", 0, "Output width in pixels (default: 640)")
	height := flag.Int("height", 0, "Output height in pixels (default: 480)")
	supersample := flag.Int("supersample", 0, "Supersampling factor (default: 2)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	hz := flag.Int("hz", 0, "Simulation rate for recordings (default: 60)")
	frames := flag.Int("frames", 0, "Frames to simulate; more than 1 writes an animated WebP")
	fov := flag.Float64("fov", 0, "Camera field of view in degrees (default: 90)")
	orbit := flag.Int("orbit", 0, "Render N shots on a circle around the origin instead")
	radius := flag.Float64("radius", 0, "Orbit radius (default: camera distance from origin)")
	name := flag.String("name", "scene", "Output file name without extension")
	hud := flag.Bool("hud", false, "Print the frame counter on recordings")

	flag.Parse()

	// Load config
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

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:   *outputDir,
		MeshDir:     *meshDir,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Workers:     *workers,
		Hz:          *hz,
		Frames:      *frames,
		FOV:         *fov,
	})
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

	ctx := context.Background()

	// Load meshes before the first frame
	s := cfg.BuildScene()
	cache := mesh.NewCache(cfg.Dedup)
	start := time.Now()
	if err := s.LoadMeshes(ctx, cache, cfg.Workers); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading meshes: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Meshes: %d loaded in %s\n", cache.Len(), time.Since(start).Round(time.Millisecond))

	frame, err := outputFrame(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *orbit > 0 {
		os.Exit(runOrbit(cfg, s, frame, *orbit, *radius))
	}
	os.Exit(runRecord(ctx, cfg, s, cache, frame, filepath.Join(cfg.OutputDir, *name+".webp"), *hud))
}

func outputFrame(cfg config.Config) (batch.Frame, error) {
	bg, err := raster.ParseColor(cfg.Background)
	if err != nil {
		return batch.Frame{}, err
	}
	f := batch.Frame{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		LineWidth:   cfg.LineWidth,
		Background:  bg,
	}
	if cfg.Backdrop != "" {
		img, err := raster.LoadBackdrop(cfg.Backdrop)
		if err != nil {
			return batch.Frame{}, err
		}
		f.Backdrop = img
	}
	return f, nil
}

// runRecord simulates cfg.Frames ticks and writes a still or an animation.
func runRecord(ctx context.Context, cfg config.Config, s *scene.Scene, cache *mesh.Cache, frame batch.Frame, out string, hud bool) int {
	r := batch.NewRenderer(frame)
	rec := batch.NewRecording(cfg.Hz, frame.Background)
	app := &host.App{Scene: s, Pipeline: r.Pipeline(), Cache: cache}

	fmt.Printf("Wireframe renderer → WebP\n")
	fmt.Printf("Objects: %d, Frames: %d @ %d Hz, Size: %dx%d (x%d)\n",
		s.Len(), cfg.Frames, cfg.Hz, cfg.Width, cfg.Height, cfg.Supersample)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	var total int
	err := host.RunHeadless(ctx, app, host.HeadlessConfig{
		Hz:    cfg.Hz,
		Ticks: cfg.Frames,
		Clear: r.Canvas().Clear,
		OnFrame: func(i int) error {
			label := ""
			if hud {
				label = fmt.Sprintf("%d/%d", i+1, cfg.Frames)
			}
			rec.Add(r.Finish(label))
			total += app.Stats.Drawn
			return nil
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		return 1
	}

	st := app.Stats
	fmt.Printf("Last frame: %d submitted, %d drawn, %d culled, %d near-rejected, %d near-clipped, %d edge-clipped, %d dropped\n",
		st.Submitted, st.Drawn, st.Culled, st.NearRejected, st.NearClipped, st.EdgeClipped, st.Dropped)

	if err := rec.WriteWebP(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", out, err)
		return 1
	}
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs, %d segments drawn\n", time.Since(start).Seconds(), total)
	fmt.Printf("Output: %s\n", out)
	return 0
}

// runOrbit renders a turntable of the scene's first frame with the batch pool.
func runOrbit(cfg config.Config, s *scene.Scene, frame batch.Frame, n int, radius float64) int {
	cam := s.Camera
	if radius <= 0 {
		radius = mathutil.V3(cam.Position[0], 0, cam.Position[2]).Len()
	}
	if radius == 0 {
		radius = 10
	}
	shots := batch.OrbitShots(mathutil.Vec3{}, radius, cam.Position[1], n)

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Frame:     frame,
		Segments:  slices.Collect(s.Segments()),
		FOV:       cam.FOV,
		Near:      cam.Near,
		Far:       cam.Far,
		Workers:   cfg.Workers,
	}

	fmt.Printf("Wireframe renderer → WebP (orbit)\n")
	fmt.Printf("Shots: %d, Segments: %d, Workers: %d\n", len(shots), len(batchCfg.Segments), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, shots)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(shots))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, shots, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
