package viewmatrix

import (
	"sync"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
)

type cacheKey struct {
	pos, look      mathutil.Vec3
	fov, near, far float64
	width, height  int
}

// Cache keeps the last built Matrices and rebuilds only when the camera
// or viewport changed since the previous call.
type Cache struct {
	mu    sync.Mutex
	key   cacheKey
	valid bool
	m     Matrices
	built int
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns matrices for the current camera and viewport state.
func (c *Cache) Get(cam *camera.Camera, vp Viewport) Matrices {
	k := cacheKey{
		pos:    cam.Position,
		look:   cam.LookDir,
		fov:    cam.FOV,
		near:   cam.Near,
		far:    cam.Far,
		width:  vp.Width,
		height: vp.Height,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.key == k {
		return c.m
	}
	c.m = Build(cam, vp)
	c.key = k
	c.valid = true
	c.built++
	return c.m
}

// Invalidate forces the next Get to rebuild.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Builds reports how many times the matrices were recomputed.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.built
}
