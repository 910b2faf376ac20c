package joint

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/vec"
)

// Joint couples two bodies. SolveVelocity applies one sequential-impulse
// pass; the system iterates the full joint set per step. Position error is
// fed back as a velocity bias clamped to maxRecovery, so stabilization can
// never inject more speed than the configured recovery limit.
type Joint interface {
	Bodies() (*body.Body, *body.Body)
	SolveVelocity(dt, maxRecovery float64)
	Violation() float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// angularTerm is the rotational contribution of anchor arm r to the
// effective mass along constraint direction n.
func angularTerm(b *body.Body, r, n vec.Vec3) float64 {
	c := r.Cross(n)
	sq := c.NormSq()
	if sq < 1e-18 {
		return 0
	}
	return sq * b.InvInertiaWorld(c.Normalize())
}

// applyImpulse applies world impulse p to b at world point at.
func applyImpulse(b *body.Body, p, at vec.Vec3) {
	if b.Fixed {
		return
	}
	b.Vel = b.Vel.Add(p.Scale(b.InvMass()))
	l := at.Sub(b.Pos).Cross(p)
	if mag := l.Norm(); mag > 0 {
		axis := l.Scale(1 / mag)
		b.Omega = b.Omega.Add(axis.Scale(mag * b.InvInertiaWorld(axis)))
	}
}

// Spherical pins a body-frame anchor on A to one on B (ball joint).
type Spherical struct {
	A, B             *body.Body
	AnchorA, AnchorB vec.Vec3 // body-frame anchor points
}

func NewSpherical(a, b *body.Body, worldAnchor vec.Vec3) *Spherical {
	return &Spherical{
		A:       a,
		B:       b,
		AnchorA: a.Rot.Conj().Rotate(worldAnchor.Sub(a.Pos)),
		AnchorB: b.Rot.Conj().Rotate(worldAnchor.Sub(b.Pos)),
	}
}

func (j *Spherical) Bodies() (*body.Body, *body.Body) { return j.A, j.B }

func (j *Spherical) SolveVelocity(dt, maxRecovery float64) {
	pa := j.A.WorldPoint(j.AnchorA)
	pb := j.B.WorldPoint(j.AnchorB)
	err := pa.Sub(pb)

	// one scalar row per world axis
	for _, n := range []vec.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		k := j.A.InvMass() + j.B.InvMass() +
			angularTerm(j.A, pa.Sub(j.A.Pos), n) +
			angularTerm(j.B, pb.Sub(j.B.Pos), n)
		if k == 0 {
			continue
		}

		vrel := j.A.PointVelocity(pa).Sub(j.B.PointVelocity(pb)).Dot(n)
		bias := clamp(err.Dot(n)/dt, -maxRecovery, maxRecovery)

		lambda := -(vrel + bias) / k
		applyImpulse(j.A, n.Scale(lambda), pa)
		applyImpulse(j.B, n.Scale(-lambda), pb)
	}
}

func (j *Spherical) Violation() float64 {
	return j.A.WorldPoint(j.AnchorA).Distance(j.B.WorldPoint(j.AnchorB))
}

// Distance keeps two body-frame anchors a fixed length apart (rigid rod).
type Distance struct {
	A, B             *body.Body
	AnchorA, AnchorB vec.Vec3
	Length           float64
}

func NewDistance(a, b *body.Body, worldA, worldB vec.Vec3) *Distance {
	return &Distance{
		A:       a,
		B:       b,
		AnchorA: a.Rot.Conj().Rotate(worldA.Sub(a.Pos)),
		AnchorB: b.Rot.Conj().Rotate(worldB.Sub(b.Pos)),
		Length:  worldA.Distance(worldB),
	}
}

func (j *Distance) Bodies() (*body.Body, *body.Body) { return j.A, j.B }

func (j *Distance) SolveVelocity(dt, maxRecovery float64) {
	pa := j.A.WorldPoint(j.AnchorA)
	pb := j.B.WorldPoint(j.AnchorB)

	d := pa.Sub(pb)
	dist := d.Norm()
	if dist < 1e-12 {
		return
	}
	n := d.Scale(1 / dist)

	k := j.A.InvMass() + j.B.InvMass() +
		angularTerm(j.A, pa.Sub(j.A.Pos), n) +
		angularTerm(j.B, pb.Sub(j.B.Pos), n)
	if k == 0 {
		return
	}

	vrel := j.A.PointVelocity(pa).Sub(j.B.PointVelocity(pb)).Dot(n)
	bias := clamp((dist-j.Length)/dt, -maxRecovery, maxRecovery)

	lambda := -(vrel + bias) / k
	applyImpulse(j.A, n.Scale(lambda), pa)
	applyImpulse(j.B, n.Scale(-lambda), pb)
}

func (j *Distance) Violation() float64 {
	pa := j.A.WorldPoint(j.AnchorA)
	pb := j.B.WorldPoint(j.AnchorB)
	v := pa.Distance(pb) - j.Length
	if v < 0 {
		return -v
	}
	return v
}

// Revolute is a hinge: a spherical pin plus an angular constraint removing
// relative rotation off the hinge axis.
type Revolute struct {
	pin  *Spherical
	A, B *body.Body
	Axis vec.Vec3 // hinge axis in A's body frame
}

func NewRevolute(a, b *body.Body, worldAnchor, worldAxis vec.Vec3) (*Revolute, error) {
	axis := worldAxis.Normalize()
	if axis == vec.Zero {
		return nil, fmt.Errorf("revolute joint %s-%s: zero hinge axis", a.Name, b.Name)
	}
	return &Revolute{
		pin:  NewSpherical(a, b, worldAnchor),
		A:    a,
		B:    b,
		Axis: a.Rot.Conj().Rotate(axis),
	}, nil
}

func (j *Revolute) Bodies() (*body.Body, *body.Body) { return j.A, j.B }

func (j *Revolute) SolveVelocity(dt, maxRecovery float64) {
	j.pin.SolveVelocity(dt, maxRecovery)

	axis := j.A.Rot.Rotate(j.Axis)
	wrel := j.A.Omega.Sub(j.B.Omega)

	// kill the off-axis relative spin
	perp := wrel.Sub(axis.Scale(wrel.Dot(axis)))
	mag := perp.Norm()
	if mag < 1e-12 {
		return
	}
	n := perp.Scale(1 / mag)

	k := j.A.InvInertiaWorld(n) + j.B.InvInertiaWorld(n)
	if k == 0 {
		return
	}
	lambda := -mag / k

	if !j.A.Fixed {
		j.A.Omega = j.A.Omega.Add(n.Scale(lambda * j.A.InvInertiaWorld(n)))
	}
	if !j.B.Fixed {
		j.B.Omega = j.B.Omega.Sub(n.Scale(lambda * j.B.InvInertiaWorld(n)))
	}
}

func (j *Revolute) Violation() float64 {
	return j.pin.Violation()
}
