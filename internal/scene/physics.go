package scene

import (
	"fmt"

	"drake-renderer/internal/mathutil"
)

// Physics is the optional motion state of an entity.
type Physics struct {
	Velocity     mathutil.Vec3
	Acceleration mathutil.Vec3
	Mass         float64
}

func NewPhysics(velocity, acceleration mathutil.Vec3, mass float64) *Physics {
	return &Physics{Velocity: velocity, Acceleration: acceleration, Mass: mass}
}

// ApplyForce adds F/m to the acceleration. Zero mass leaves the state
// unchanged and returns ErrDivideByZero.
func (p *Physics) ApplyForce(f mathutil.Vec3) error {
	da, err := f.Div(p.Mass)
	if err != nil {
		return fmt.Errorf("scene: apply force: %w", err)
	}
	p.Acceleration = p.Acceleration.Add(da)
	return nil
}

// Step advances one explicit Euler step and returns the displacement
// s = v·dt + ½·a·dt². Velocity is updated afterwards with v += a·dt.
func (p *Physics) Step(dt float64) mathutil.Vec3 {
	dv := p.Acceleration.Scale(dt)
	s := p.Velocity.Scale(dt).Add(dv.Scale(0.5 * dt))
	p.Velocity = p.Velocity.Add(dv)
	return s
}
