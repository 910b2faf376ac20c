package vec

import "math"

// Quat is a unit quaternion representing a rigid-body orientation.
type Quat struct {
	W, X, Y, Z float64
}

func Identity() Quat {
	return Quat{W: 1}
}

// FromAxisAngle builds a rotation of angle radians about axis.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{
		W: math.Cos(angle / 2),
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
	}
}

func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

func (q Quat) Conj() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return Identity()
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{X: v.X, Y: v.Y, Z: v.Z}
	r := q.Mul(p).Mul(q.Conj())
	return Vec3{r.X, r.Y, r.Z}
}

// Integrate advances the orientation by angular velocity omega over dt and
// renormalizes. Standard first-order quaternion kinematics.
func (q Quat) Integrate(omega Vec3, dt float64) Quat {
	w := Quat{X: omega.X, Y: omega.Y, Z: omega.Z}
	dq := w.Mul(q)
	return Quat{
		W: q.W + 0.5*dt*dq.W,
		X: q.X + 0.5*dt*dq.X,
		Y: q.Y + 0.5*dt*dq.Y,
		Z: q.Z + 0.5*dt*dq.Z,
	}.Normalize()
}

// AxisAngle returns the rotation axis and angle. The axis is arbitrary for
// the identity rotation.
func (q Quat) AxisAngle() (Vec3, float64) {
	n := q.Normalize()
	if n.W < 0 {
		n = Quat{-n.W, -n.X, -n.Y, -n.Z}
	}
	s := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if s < 1e-12 {
		return Vec3{X: 1}, 0
	}
	angle := 2 * math.Atan2(s, n.W)
	return Vec3{n.X / s, n.Y / s, n.Z / s}, angle
}
