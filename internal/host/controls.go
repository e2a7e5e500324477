package host

import (
	"drake-renderer/internal/camera"
	"drake-renderer/internal/mathutil"
)

// Action is a camera command bound to a key.
type Action int

const (
	MoveForward Action = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	YawLeft
	YawRight
	PitchUp
	PitchDown
	RollLeft
	RollRight
	ResetView
	ZoomIn
	ZoomOut
)

// Zoom keeps the field of view within these bounds, in degrees.
const (
	MinFOV = 10.0
	MaxFOV = 170.0
)

// Input reports which actions are held this frame.
type Input interface {
	Active(a Action) bool
}

// Held is an Input backed by a set, used by scripted hosts and tests.
type Held map[Action]bool

func (h Held) Active(a Action) bool { return h[a] }

// Controls moves a camera from held actions. Speeds are per second.
type Controls struct {
	MoveSpeed float64 // world units
	TurnSpeed float64 // radians
	ZoomSpeed float64 // degrees of field of view
}

func DefaultControls() Controls {
	return Controls{MoveSpeed: 8, TurnSpeed: 1.5, ZoomSpeed: 30}
}

// Apply updates cam for a frame that lasted dt seconds. Movement follows
// the current orientation; rotations are composed onto it.
func (c Controls) Apply(cam *camera.Camera, in Input, dt float64) {
	if cam == nil || in == nil || dt <= 0 {
		return
	}
	if in.Active(ResetView) {
		cam.ResetOrientation()
	}

	var move mathutil.Vec3
	axis := func(pos, neg Action) float64 {
		v := 0.0
		if in.Active(pos) {
			v++
		}
		if in.Active(neg) {
			v--
		}
		return v
	}
	move[0] = axis(MoveRight, MoveLeft)
	move[1] = axis(MoveUp, MoveDown)
	move[2] = axis(MoveForward, MoveBack)
	if move != (mathutil.Vec3{}) {
		d := move.Normalize().Scale(c.MoveSpeed * dt)
		cam.MoveRelative(d[0], d[1], d[2])
	}

	turn := c.TurnSpeed * dt
	// Positive angles turn the view toward -X and +Y.
	if v := axis(YawLeft, YawRight); v != 0 {
		cam.Rotate(mathutil.WorldUp, v*turn)
	}
	if v := axis(PitchUp, PitchDown); v != 0 {
		cam.Rotate(mathutil.V3(1, 0, 0), v*turn)
	}
	if v := axis(RollRight, RollLeft); v != 0 {
		cam.Rotate(mathutil.Forward, v*turn)
	}

	if v := axis(ZoomOut, ZoomIn); v != 0 {
		cam.SetFOV(min(max(cam.FOV+v*c.ZoomSpeed*dt, MinFOV), MaxFOV))
	}
}
