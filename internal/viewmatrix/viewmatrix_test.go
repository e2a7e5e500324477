package viewmatrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
)

func TestLookAtAxes(t *testing.T) {
	m := LookAt(mathutil.V3(0, 0, -10), mathutil.V3(0, 0, 0), mathutil.WorldUp)

	// zAxis points from target back to the eye.
	assert.InDelta(t, 0, m.At(2, 0), 1e-12)
	assert.InDelta(t, 0, m.At(2, 1), 1e-12)
	assert.InDelta(t, -1, m.At(2, 2), 1e-12)
	// Position row.
	assert.Equal(t, -10.0, m.At(3, 2))
	assert.Equal(t, 1.0, m.At(3, 3))
}

func TestViewMatrixIsInverseOfLookAt(t *testing.T) {
	for _, tc := range []struct {
		pos, target mathutil.Vec3
	}{
		{mathutil.V3(0, 0, -10), mathutil.V3(0, 0, 0)},
		{mathutil.V3(3, 4, 5), mathutil.V3(-1, 0, 2)},
		{mathutil.V3(-20, 7, 0.5), mathutil.V3(0, 0, 30)},
	} {
		look := LookAt(tc.pos, tc.target, mathutil.WorldUp)
		assert.True(t, mathutil.Mat4Mul(look, look.QuickInverse()).IsIdentity(1e-9), "%v", tc)
	}
}

func TestViewMatrixMovesEyeToOrigin(t *testing.T) {
	cam := camera.Default()
	v := ViewMatrix(cam).MulPoint(cam.Position)
	assert.InDelta(t, 0, v[0], 1e-9)
	assert.InDelta(t, 0, v[1], 1e-9)
	assert.InDelta(t, 0, v[2], 1e-9)

	// A point ahead of the camera lands on view -Z.
	ahead := ViewMatrix(cam).MulPoint(mathutil.V3(0, 0, 10))
	assert.InDelta(t, -20, ahead[2], 1e-9)
}

func TestProjectionEntries(t *testing.T) {
	p := Projection(90, 0.75, 0.1, 1000)
	f := 1 / math.Tan(math.Pi/4)
	F := 1000 / (1000 - 0.1)

	assert.InDelta(t, 0.75*f, p.At(0, 0), 1e-12)
	assert.InDelta(t, f, p.At(1, 1), 1e-12)
	assert.InDelta(t, F, p.At(2, 2), 1e-12)
	assert.InDelta(t, -F*0.1, p.At(3, 2), 1e-12)
	assert.Equal(t, 1.0, p.At(2, 3))
	assert.Equal(t, 0.0, p.At(3, 3))

	// w of the projected point is the input z.
	out := p.MulPoint(mathutil.V3(1, 2, 7))
	assert.InDelta(t, 7, out[3], 1e-12)
}

func TestViewportAspect(t *testing.T) {
	assert.InDelta(t, 0.75, Viewport{Width: 640, Height: 480}.AspectRatio(), 1e-12)
	assert.True(t, Viewport{Width: 1, Height: 1}.Valid())
	assert.False(t, Viewport{Width: 0, Height: 480}.Valid())
	assert.Equal(t, 0.0, Viewport{}.AspectRatio())
}

func TestUnprojectRoundTrip(t *testing.T) {
	cam := camera.New(70, 0.1, 100, mathutil.V3(1, 2, -5), mathutil.V3(0, 0, 1))
	m := Build(cam, Viewport{Width: 800, Height: 600})

	world := mathutil.V3(0.5, -0.25, 3)
	clip := m.Projection.MulVec4(m.View.MulPoint(world))

	got, ok := Unproject(clip, m)
	require.True(t, ok)
	for i := range world {
		assert.InDelta(t, world[i], got[i], 1e-9)
	}
}

func TestCacheRebuildsOnChange(t *testing.T) {
	c := NewCache()
	cam := camera.Default()
	vp := Viewport{Width: 320, Height: 240}

	first := c.Get(cam, vp)
	assert.Equal(t, first, c.Get(cam, vp))
	assert.Equal(t, 1, c.Builds())

	cam.Move(1, 0, 0)
	moved := c.Get(cam, vp)
	assert.NotEqual(t, first.View, moved.View)
	assert.Equal(t, 2, c.Builds())

	c.Get(cam, Viewport{Width: 640, Height: 240})
	assert.Equal(t, 3, c.Builds())

	c.Invalidate()
	c.Get(cam, Viewport{Width: 640, Height: 240})
	assert.Equal(t, 4, c.Builds())
}
