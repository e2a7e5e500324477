package batch

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/render"
)

// Config holds all shared resources for a batch run. Segments is read by
// every worker and must not change while Run is in progress.
type Config struct {
	OutputDir string
	Frame     Frame
	Segments  []mesh.Segment
	FOV       float64
	Near      float64
	Far       float64
	Workers   int
}

// Shot is one camera placement to render.
type Shot struct {
	Name     string
	Position mathutil.Vec3
	Target   mathutil.Vec3
}

// Result holds the outcome of rendering one shot.
type Result struct {
	Name    string
	Index   int
	Image   string
	Stats   render.FrameStats
	Success bool
	Error   string
}

// OrbitShots places count cameras evenly on a horizontal circle of the
// given radius around center, height above it, all looking at center.
func OrbitShots(center mathutil.Vec3, radius, height float64, count int) []Shot {
	shots := make([]Shot, count)
	for i := range shots {
		a := 2 * math.Pi * float64(i) / float64(count)
		shots[i] = Shot{
			Name:     fmt.Sprintf("orbit_%03d", i),
			Position: center.Add(mathutil.V3(radius*math.Sin(a), height, -radius*math.Cos(a))),
			Target:   center,
		}
	}
	return shots
}

// Camera builds the camera for a shot.
func (c Config) Camera(s Shot) *camera.Camera {
	return camera.New(c.FOV, c.Near, c.Far, s.Position, s.Target.Sub(s.Position).Normalize())
}

// Run renders all shots using a worker pool.
func Run(cfg Config, shots []Shot) []Result {
	total := len(shots)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f shots/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := max(cfg.Workers, 1)
	shotChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := NewRenderer(cfg.Frame)
			for idx := range shotChan {
				results[idx] = processShot(cfg, r, idx, shots[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range shots {
		shotChan <- i
	}
	close(shotChan)

	wg.Wait()
	close(done)

	return results
}

func processShot(cfg Config, r *Renderer, idx int, shot Shot) Result {
	res := Result{Name: shot.Name, Index: idx, Image: shot.Name + ".webp"}

	img, stats, err := r.Render(cfg.Camera(shot), slices.Values(cfg.Segments), "")
	res.Stats = stats
	if err != nil {
		res.Error = err.Error()
		return res
	}

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
