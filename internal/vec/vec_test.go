package vec

import (
	"math"
	"testing"
)

func TestCrossOrthogonal(t *testing.T) {
	a := New(1, 0, 0)
	b := New(0, 1, 0)

	c := a.Cross(b)

	if c != (Vec3{0, 0, 1}) {
		t.Errorf("expected (0,0,1), got %v", c)
	}

	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Error("cross product not orthogonal to inputs")
	}
}

func TestNormalize(t *testing.T) {
	v := New(3, 4, 0)
	n := v.Normalize()

	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("expected unit norm, got %f", n.Norm())
	}

	if Zero.Normalize() != (Vec3{}) {
		t.Error("normalizing zero vector should return zero")
	}
}

func TestIsValid(t *testing.T) {
	if !New(1, 2, 3).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vec3{X: math.NaN()}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if (Vec3{Z: math.Inf(1)}).IsValid() {
		t.Error("Inf vector reported valid")
	}
}

func TestQuatRotate(t *testing.T) {
	// 90 degrees about z maps x onto y.
	q := FromAxisAngle(New(0, 0, 1), math.Pi/2)
	r := q.Rotate(New(1, 0, 0))

	if math.Abs(r.X) > 1e-12 || math.Abs(r.Y-1) > 1e-12 || math.Abs(r.Z) > 1e-12 {
		t.Errorf("expected (0,1,0), got %v", r)
	}
}

func TestQuatIntegrate(t *testing.T) {
	q := Identity()
	omega := New(0, 0, math.Pi/2)

	dt := 0.0001
	for i := 0; i < 10000; i++ {
		q = q.Integrate(omega, dt)
	}

	_, angle := q.AxisAngle()
	if math.Abs(angle-math.Pi/2) > 1e-3 {
		t.Errorf("expected angle pi/2 after 1s at pi/2 rad/s, got %f", angle)
	}

	if math.Abs(q.Norm()-1) > 1e-9 {
		t.Errorf("quaternion drifted from unit norm: %f", q.Norm())
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := FromAxisAngle(New(1, 2, 3), 0.7)
	r := q.Mul(Identity())

	if math.Abs(r.W-q.W) > 1e-12 || math.Abs(r.X-q.X) > 1e-12 {
		t.Error("multiplying by identity changed quaternion")
	}
}
