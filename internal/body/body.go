package body

import (
	"math"

	"github.com/san-kum/mechsim/internal/vec"
)

// Default collision tolerances applied to bodies created afterwards.
// Set these before constructing shapes: tiny or huge parts need envelopes
// matched to their scale or contact detection misses entirely.
var (
	defaultEnvelope = 0.001
	defaultMargin   = 0.001
)

func SetDefaultEnvelope(v float64) { defaultEnvelope = v }
func SetDefaultMargin(v float64)   { defaultMargin = v }

func DefaultEnvelope() float64 { return defaultEnvelope }
func DefaultMargin() float64   { return defaultMargin }

// Body is a rigid body: mass properties, a world-frame state, and the
// render shape the exporter emits for it.
type Body struct {
	Name    string
	Mass    float64
	Inertia vec.Vec3 // diagonal inertia tensor in the body frame

	Pos   vec.Vec3
	Rot   vec.Quat
	Vel   vec.Vec3
	Omega vec.Vec3 // angular velocity, world frame

	Fixed bool

	Envelope float64
	Margin   float64

	Shape Shape

	force  vec.Vec3
	torque vec.Vec3
}

func New(name string, mass float64) *Body {
	return &Body{
		Name:     name,
		Mass:     mass,
		Inertia:  vec.New(mass, mass, mass).Scale(0.4),
		Rot:      vec.Identity(),
		Envelope: defaultEnvelope,
		Margin:   defaultMargin,
	}
}

// NewFixed returns an immovable body (ground, frame parts).
func NewFixed(name string) *Body {
	b := New(name, 0)
	b.Fixed = true
	return b
}

func (b *Body) InvMass() float64 {
	if b.Fixed || b.Mass == 0 {
		return 0
	}
	return 1 / b.Mass
}

// InvInertiaWorld returns the inverse inertia about the given world axis,
// approximated with the diagonal body-frame tensor rotated into world space.
func (b *Body) InvInertiaWorld(axis vec.Vec3) float64 {
	if b.Fixed {
		return 0
	}
	local := b.Rot.Conj().Rotate(axis)
	i := b.Inertia.X*local.X*local.X + b.Inertia.Y*local.Y*local.Y + b.Inertia.Z*local.Z*local.Z
	if i <= 0 {
		return 0
	}
	return 1 / i
}

// ApplyForce accumulates a world-frame force at the center of mass.
func (b *Body) ApplyForce(f vec.Vec3) {
	b.force = b.force.Add(f)
}

// ApplyTorque accumulates a world-frame torque.
func (b *Body) ApplyTorque(tau vec.Vec3) {
	b.torque = b.torque.Add(tau)
}

// IntegrateVelocity advances velocities under gravity and accumulated
// forces, then clears the accumulators. Fixed bodies never move.
func (b *Body) IntegrateVelocity(gravity vec.Vec3, dt float64) {
	if b.Fixed {
		b.force = vec.Zero
		b.torque = vec.Zero
		return
	}
	acc := gravity.Add(b.force.Scale(b.InvMass()))
	b.Vel = b.Vel.Add(acc.Scale(dt))

	if t := b.torque.Norm(); t > 0 {
		axis := b.torque.Scale(1 / t)
		b.Omega = b.Omega.Add(axis.Scale(t * b.InvInertiaWorld(axis) * dt))
	}

	b.force = vec.Zero
	b.torque = vec.Zero
}

// IntegratePosition advances pose from current velocities (semi-implicit).
func (b *Body) IntegratePosition(dt float64) {
	if b.Fixed {
		return
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Rot = b.Rot.Integrate(b.Omega, dt)
}

// PointVelocity returns the world velocity of a world-space point rigidly
// attached to the body.
func (b *Body) PointVelocity(p vec.Vec3) vec.Vec3 {
	return b.Vel.Add(b.Omega.Cross(p.Sub(b.Pos)))
}

// WorldPoint maps a body-frame point into world coordinates.
func (b *Body) WorldPoint(local vec.Vec3) vec.Vec3 {
	return b.Pos.Add(b.Rot.Rotate(local))
}

// KineticEnergy uses the diagonal inertia in the body frame.
func (b *Body) KineticEnergy() float64 {
	if b.Fixed {
		return 0
	}
	lin := 0.5 * b.Mass * b.Vel.NormSq()
	w := b.Rot.Conj().Rotate(b.Omega)
	rot := 0.5 * (b.Inertia.X*w.X*w.X + b.Inertia.Y*w.Y*w.Y + b.Inertia.Z*w.Z*w.Z)
	return lin + rot
}

// PotentialEnergy is measured against the world origin plane normal to g.
func (b *Body) PotentialEnergy(gravity vec.Vec3) float64 {
	if b.Fixed {
		return 0
	}
	return -b.Mass * gravity.Dot(b.Pos)
}

// StateValid reports whether the body state is free of NaN/Inf.
func (b *Body) StateValid() bool {
	return b.Pos.IsValid() && b.Vel.IsValid() && b.Omega.IsValid() &&
		!math.IsNaN(b.Rot.Norm())
}
