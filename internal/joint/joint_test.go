package joint

import (
	"testing"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/vec"
)

func TestSphericalHoldsAnchor(t *testing.T) {
	ground := body.NewFixed("ground")
	bob := body.New("bob", 1.0)
	bob.Pos = vec.New(1, 0, 0)

	j := NewSpherical(ground, bob, vec.Zero)

	g := vec.New(0, -9.81, 0)
	dt := 0.001
	for i := 0; i < 2000; i++ {
		bob.IntegrateVelocity(g, dt)
		for k := 0; k < 20; k++ {
			j.SolveVelocity(dt, 0.1)
		}
		bob.IntegratePosition(dt)
	}

	if j.Violation() > 0.02 {
		t.Errorf("pendulum anchor drifted: violation %f", j.Violation())
	}

	// the bob should swing below its start, not fly off
	if bob.Pos.Norm() > 1.1 {
		t.Errorf("bob left the constraint radius: %v", bob.Pos)
	}
}

func TestDistanceKeepsLength(t *testing.T) {
	a := body.New("a", 1.0)
	b := body.New("b", 1.0)
	b.Pos = vec.New(2, 0, 0)

	j := NewDistance(a, b, a.Pos, b.Pos)
	if j.Length != 2 {
		t.Fatalf("expected rest length 2, got %f", j.Length)
	}

	// pull them apart and let the solver resist
	a.Vel = vec.New(-1, 0, 0)
	b.Vel = vec.New(1, 0, 0)

	dt := 0.001
	for i := 0; i < 1000; i++ {
		for k := 0; k < 20; k++ {
			j.SolveVelocity(dt, 0.1)
		}
		a.IntegratePosition(dt)
		b.IntegratePosition(dt)
	}

	if j.Violation() > 0.01 {
		t.Errorf("rod stretched: violation %f", j.Violation())
	}
}

func TestRevoluteRejectsZeroAxis(t *testing.T) {
	a := body.New("a", 1.0)
	b := body.New("b", 1.0)

	if _, err := NewRevolute(a, b, vec.Zero, vec.Zero); err == nil {
		t.Error("expected error for zero hinge axis")
	}
}

func TestRevoluteKillsOffAxisSpin(t *testing.T) {
	ground := body.NewFixed("ground")
	wheel := body.New("wheel", 1.0)

	j, err := NewRevolute(ground, wheel, vec.Zero, vec.New(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}

	wheel.Omega = vec.New(1, 1, 5) // x,y components violate the hinge

	dt := 0.001
	for i := 0; i < 200; i++ {
		for k := 0; k < 20; k++ {
			j.SolveVelocity(dt, 0.1)
		}
		wheel.IntegratePosition(dt)
	}

	if v := vec.New(wheel.Omega.X, wheel.Omega.Y, 0).Norm(); v > 1e-6 {
		t.Errorf("off-axis spin survived: %f", v)
	}
	if wheel.Omega.Z < 4.9 {
		t.Errorf("on-axis spin was damped: %f", wheel.Omega.Z)
	}
}

func TestFixedPairIsInert(t *testing.T) {
	a := body.NewFixed("a")
	b := body.NewFixed("b")
	b.Pos = vec.New(1, 0, 0)

	j := NewDistance(a, b, a.Pos, b.Pos)
	j.SolveVelocity(0.01, 0.1)

	if a.Vel != vec.Zero || b.Vel != vec.Zero {
		t.Error("solver moved fixed bodies")
	}
}
