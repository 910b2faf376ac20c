package metrics

import (
	"testing"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/system"
	"github.com/san-kum/mechsim/internal/vec"
)

func fallingBallSystem(t *testing.T) *system.System {
	t.Helper()
	sys := system.New()
	b := body.New("ball", 1.0)
	b.Pos = vec.New(0, 1, 0)
	if err := sys.Add(b); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestEnergyDriftOnFreeFall(t *testing.T) {
	sys := fallingBallSystem(t)
	m := NewEnergyDrift()

	m.Observe(sys)
	for i := 0; i < 100; i++ {
		if err := sys.DoStep(0.001); err != nil {
			t.Fatal(err)
		}
		m.Observe(sys)
	}

	// semi-implicit Euler on free fall keeps energy nearly constant
	if m.Value() > 0.01 {
		t.Errorf("free-fall drift too large: %f", m.Value())
	}
}

func TestEnergyDriftReset(t *testing.T) {
	sys := fallingBallSystem(t)
	m := NewEnergyDrift()

	m.Observe(sys)
	_ = sys.DoStep(0.01)
	m.Observe(sys)

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestViolationTracksWorstError(t *testing.T) {
	sys := system.New()
	m := NewViolation()

	m.Observe(sys)
	if m.Value() != 0 {
		t.Errorf("expected zero violation without joints, got %f", m.Value())
	}
}

func TestContactsAverages(t *testing.T) {
	sys := system.New()
	for i, pos := range []vec.Vec3{{}, {X: 0.05}} {
		b := body.New(string(rune('a'+i)), 1.0)
		b.Pos = pos
		b.Shape = body.Shape{Kind: body.ShapeSphere, Radius: 0.05}
		if err := sys.Add(b); err != nil {
			t.Fatal(err)
		}
	}

	m := NewContacts()
	if err := sys.DoStep(0.001); err != nil {
		t.Fatal(err)
	}
	m.Observe(sys)

	if m.Value() < 1 {
		t.Errorf("expected at least one contact on average, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
