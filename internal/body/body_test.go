package body

import (
	"math"
	"testing"

	"github.com/san-kum/mechsim/internal/vec"
)

func TestFreeFall(t *testing.T) {
	b := New("ball", 2.0)
	g := vec.New(0, -9.81, 0)

	dt := 0.001
	for i := 0; i < 1000; i++ {
		b.IntegrateVelocity(g, dt)
		b.IntegratePosition(dt)
	}

	// v = g*t after 1s
	if math.Abs(b.Vel.Y+9.81) > 1e-9 {
		t.Errorf("expected vy=-9.81 after 1s, got %f", b.Vel.Y)
	}

	// semi-implicit Euler lands slightly below -g t^2 / 2
	if b.Pos.Y > -4.9 || b.Pos.Y < -4.92 {
		t.Errorf("unexpected fall distance: %f", b.Pos.Y)
	}
}

func TestFixedBodyNeverMoves(t *testing.T) {
	b := NewFixed("ground")
	b.ApplyForce(vec.New(100, 100, 100))
	b.IntegrateVelocity(vec.New(0, -9.81, 0), 0.01)
	b.IntegratePosition(0.01)

	if b.Pos != vec.Zero || b.Vel != vec.Zero {
		t.Error("fixed body moved")
	}
	if b.InvMass() != 0 {
		t.Error("fixed body should have zero inverse mass")
	}
}

func TestDefaultTolerances(t *testing.T) {
	oldEnv, oldMargin := DefaultEnvelope(), DefaultMargin()
	defer func() {
		SetDefaultEnvelope(oldEnv)
		SetDefaultMargin(oldMargin)
	}()

	SetDefaultEnvelope(0.005)
	SetDefaultMargin(0.002)

	b := New("small_part", 0.01)
	if b.Envelope != 0.005 || b.Margin != 0.002 {
		t.Errorf("expected tolerances 0.005 / 0.002, got %f / %f", b.Envelope, b.Margin)
	}
}

func TestApplyTorqueSpinsBody(t *testing.T) {
	b := New("rotor", 1.0) // diagonal inertia 0.4 about each axis

	b.ApplyTorque(vec.New(0, 0, 0.4))
	b.IntegrateVelocity(vec.Zero, 1.0)

	if math.Abs(b.Omega.Z-1.0) > 1e-12 {
		t.Errorf("expected omega z 1.0 after torque, got %f", b.Omega.Z)
	}
	if b.Vel != vec.Zero {
		t.Errorf("torque changed linear velocity: %v", b.Vel)
	}

	// accumulator cleared after integration
	b.IntegrateVelocity(vec.Zero, 1.0)
	if math.Abs(b.Omega.Z-1.0) > 1e-12 {
		t.Errorf("torque accumulator not cleared: omega z %f", b.Omega.Z)
	}
}

func TestPointVelocity(t *testing.T) {
	b := New("spinner", 1.0)
	b.Omega = vec.New(0, 0, 1)

	// point 1m along +x of a body spinning about z moves in +y
	v := b.PointVelocity(vec.New(1, 0, 0))
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 {
		t.Errorf("expected (0,1,0), got %v", v)
	}
}

func TestEnergyAccounting(t *testing.T) {
	b := New("ball", 2.0)
	b.Vel = vec.New(3, 0, 0)
	b.Pos = vec.New(0, 1, 0)
	g := vec.New(0, -9.81, 0)

	ke := b.KineticEnergy()
	pe := b.PotentialEnergy(g)

	if math.Abs(ke-9.0) > 1e-12 {
		t.Errorf("expected KE 9, got %f", ke)
	}
	if math.Abs(pe-2*9.81) > 1e-12 {
		t.Errorf("expected PE %f, got %f", 2*9.81, pe)
	}
}

func TestParseShapeKind(t *testing.T) {
	for _, name := range []string{"sphere", "box", "cylinder"} {
		k, err := ParseShapeKind(name)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		if k.String() != name {
			t.Errorf("round trip failed for %s: got %s", name, k)
		}
	}

	if _, err := ParseShapeKind("torus"); err == nil {
		t.Error("expected error for unknown shape")
	}
}
