package system

import (
	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/vec"
)

// contact is a single sphere-sphere touching pair. Narrowphase here covers
// sphere shapes only; envelopes widen the detection distance and margins
// shrink the effective surfaces, the same roles the tolerances play in a
// full collision pipeline.
type contact struct {
	a, b        *body.Body
	normal      vec.Vec3 // from b towards a
	penetration float64
	point       vec.Vec3
}

const restitution = 0.1

func (s *System) findContacts() []contact {
	var out []contact
	for i := 0; i < len(s.bodies); i++ {
		for k := i + 1; k < len(s.bodies); k++ {
			a, b := s.bodies[i], s.bodies[k]
			if a.Fixed && b.Fixed {
				continue
			}
			if a.Shape.Kind != body.ShapeSphere || b.Shape.Kind != body.ShapeSphere {
				continue
			}
			if a.Shape.Radius <= 0 || b.Shape.Radius <= 0 {
				continue
			}

			d := a.Pos.Sub(b.Pos)
			dist := d.Norm()
			reach := a.Shape.Radius + b.Shape.Radius + a.Envelope + b.Envelope
			if dist >= reach || dist == 0 {
				continue
			}

			surface := a.Shape.Radius + b.Shape.Radius - a.Margin - b.Margin
			n := d.Scale(1 / dist)
			out = append(out, contact{
				a:           a,
				b:           b,
				normal:      n,
				penetration: surface - dist,
				point:       b.Pos.Add(n.Scale(b.Shape.Radius)),
			})
		}
	}
	return out
}

func (c *contact) solve(dt, maxRecovery float64) {
	va := c.a.PointVelocity(c.point)
	vb := c.b.PointVelocity(c.point)
	vn := va.Sub(vb).Dot(c.normal)

	bias := 0.0
	if c.penetration > 0 {
		bias = c.penetration / dt
		if bias > maxRecovery {
			bias = maxRecovery
		}
	}

	// approaching, or needing push-out
	if vn > 0 && bias == 0 {
		return
	}

	k := c.a.InvMass() + c.b.InvMass()
	if k == 0 {
		return
	}

	lambda := -((1+restitution)*vn - bias) / k
	if lambda < 0 {
		return
	}

	p := c.normal.Scale(lambda)
	if !c.a.Fixed {
		c.a.Vel = c.a.Vel.Add(p.Scale(c.a.InvMass()))
	}
	if !c.b.Fixed {
		c.b.Vel = c.b.Vel.Sub(p.Scale(c.b.InvMass()))
	}
}
