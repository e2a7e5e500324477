package render

import (
	"fmt"
	"math"
	"time"
)

// fpsEvery is how many frames the FPS text is held before it is refreshed.
const fpsEvery = 10

// Clock tracks frame timing for a render loop.
type Clock struct {
	last    time.Time
	started bool
	frame   int
	delta   float64
	fps     string
}

// Tick records the start of a frame and returns the seconds elapsed since
// the previous Tick. The first Tick returns 0.
func (c *Clock) Tick(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		c.delta = 0
		return 0
	}

	c.delta = now.Sub(c.last).Seconds()
	c.last = now
	c.frame++

	if c.frame%fpsEvery == 0 && c.delta > 0 {
		c.fps = fmt.Sprintf("%d FPS", int(math.Floor(1/c.delta)))
	}
	return c.delta
}

// Delta is the seconds between the last two ticks.
func (c *Clock) Delta() float64 { return c.delta }

// Frame is the number of ticks after the first.
func (c *Clock) Frame() int { return c.frame }

// FPS is the last refreshed frame rate text, empty until the tenth frame.
func (c *Clock) FPS() string { return c.fps }
