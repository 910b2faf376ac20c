package system

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/joint"
	"github.com/san-kum/mechsim/internal/vec"
)

func TestClockIsStepCountTimesDt(t *testing.T) {
	s := New()

	dt := 0.002
	for s.Time() < 1.2 {
		if err := s.DoStep(dt); err != nil {
			t.Fatal(err)
		}
	}

	if s.StepCount() != 600 {
		t.Errorf("expected exactly 600 steps for 1.2s at dt=0.002, got %d", s.StepCount())
	}
	if s.Time() < 1.2 {
		t.Errorf("clock stopped short: %f", s.Time())
	}
	if s.Time() != float64(s.StepCount())*dt {
		t.Errorf("clock drifted from step count: %f vs %f", s.Time(), float64(s.StepCount())*dt)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Iterations != 40 {
		t.Errorf("iterations: got %d, want 40", s.Iterations)
	}
	if s.MaxRecoverySpeed != 0.002 {
		t.Errorf("recovery speed: got %f, want 0.002", s.MaxRecoverySpeed)
	}
}

func TestRejectsBadTimestep(t *testing.T) {
	s := New()
	if err := s.DoStep(0); !errors.Is(err, ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
	if err := s.DoStep(-0.01); !errors.Is(err, ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
}

func TestAddRejectsUnknownAndDuplicate(t *testing.T) {
	s := New()

	if err := s.Add(42); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}

	if err := s.Add(body.New("wheel", 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(body.New("wheel", 2)); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("expected ErrDuplicateBody, got %v", err)
	}

	if _, ok := s.Body("wheel"); !ok {
		t.Error("added body not found by name")
	}
}

func TestPendulumUnderGravity(t *testing.T) {
	s := New()
	s.Gravity = vec.New(0, -9.81, 0)
	s.Settings = Settings{Iterations: 50, MaxRecoverySpeed: 0.1}

	ground := body.NewFixed("ground")
	bob := body.New("bob", 1.0)
	bob.Pos = vec.New(1, 0, 0)

	for _, item := range []any{ground, bob, joint.NewSpherical(ground, bob, vec.Zero)} {
		if err := s.Add(item); err != nil {
			t.Fatal(err)
		}
	}

	minY := 0.0
	for i := 0; i < 1000; i++ {
		if err := s.DoStep(0.001); err != nil {
			t.Fatal(err)
		}
		if bob.Pos.Y < minY {
			minY = bob.Pos.Y
		}
	}

	if s.MaxViolation() > 0.02 {
		t.Errorf("joint violation too large: %f", s.MaxViolation())
	}
	if minY > -0.5 {
		t.Errorf("pendulum bob did not swing down: min y %f", minY)
	}
}

func TestSphereContactSeparates(t *testing.T) {
	s := New()
	s.Gravity = vec.Zero

	a := body.New("a", 1.0)
	a.Shape = body.Shape{Kind: body.ShapeSphere, Radius: 0.5}
	a.Vel = vec.New(1, 0, 0)

	b := body.New("b", 1.0)
	b.Shape = body.Shape{Kind: body.ShapeSphere, Radius: 0.5}
	b.Pos = vec.New(1.05, 0, 0)

	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500; i++ {
		if err := s.DoStep(0.001); err != nil {
			t.Fatal(err)
		}
	}

	// momentum transferred, bodies no longer overlapping
	if b.Vel.X <= 0 {
		t.Errorf("no impulse transferred: %v", b.Vel)
	}
	if a.Pos.Distance(b.Pos) < 0.99 {
		t.Errorf("spheres still overlapping: %f", a.Pos.Distance(b.Pos))
	}
}

func TestEnergyBoundedForFreePendulum(t *testing.T) {
	s := New()
	s.Settings.Iterations = 40

	ground := body.NewFixed("ground")
	bob := body.New("bob", 1.0)
	bob.Pos = vec.New(1, 0, 0)

	_ = s.Add(ground)
	_ = s.Add(bob)
	_ = s.Add(joint.NewSpherical(ground, bob, vec.Zero))

	e0 := s.Energy()
	for i := 0; i < 2000; i++ {
		if err := s.DoStep(0.001); err != nil {
			t.Fatal(err)
		}
	}

	// impulse solvers dissipate; energy must not grow
	if s.Energy() > e0+0.5 {
		t.Errorf("energy grew from %f to %f", e0, s.Energy())
	}
	if math.IsNaN(s.Energy()) {
		t.Error("energy is NaN")
	}
}

func TestStepErrorCarriesContext(t *testing.T) {
	s := New()
	b := body.New("runaway", 1.0)
	b.Vel = vec.New(math.Inf(1), 0, 0)
	_ = s.Add(b)

	err := s.DoStep(0.01)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var se *StepError
	if !errors.As(err, &se) {
		t.Fatal("expected *StepError")
	}
	if se.Body != "runaway" || se.Step != 1 {
		t.Errorf("wrong context: %+v", se)
	}
}
