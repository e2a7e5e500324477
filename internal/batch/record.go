package batch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Recording collects frames for an animated WebP.
type Recording struct {
	// FrameTime is how long each frame is shown.
	FrameTime  time.Duration
	Background color.NRGBA

	frames []image.Image
}

func NewRecording(hz int, bg color.NRGBA) *Recording {
	if hz <= 0 {
		hz = 60
	}
	return &Recording{FrameTime: time.Second / time.Duration(hz), Background: bg}
}

// Add appends a frame. The image is kept, not copied.
func (r *Recording) Add(img image.Image) {
	r.frames = append(r.frames, img)
}

func (r *Recording) Len() int { return len(r.frames) }

// WriteWebP encodes the frames as a looping animation. A single frame is
// written as a still image.
func (r *Recording) WriteWebP(path string) error {
	if len(r.frames) == 0 {
		return errors.New("batch: recording has no frames")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(r.frames) == 1 {
		if err := nativewebp.Encode(f, r.frames[0], nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return f.Close()
	}

	ms := uint(max(r.FrameTime.Milliseconds(), 1))
	ani := &nativewebp.Animation{
		Images:    r.frames,
		Durations: make([]uint, len(r.frames)),
		Disposals: make([]uint, len(r.frames)),
		LoopCount: 0,
		// BGRA
		BackgroundColor: uint32(r.Background.B)<<24 | uint32(r.Background.G)<<16 | uint32(r.Background.R)<<8 | uint32(r.Background.A),
	}
	for i := range ani.Durations {
		ani.Durations[i] = ms
	}
	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
