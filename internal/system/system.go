package system

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/joint"
	"github.com/san-kum/mechsim/internal/vec"
)

// Settings are the constraint solver knobs. MaxRecoverySpeed bounds the
// velocity injected to correct joint drift and contact penetration; deep
// interpenetrations are then resolved over several steps instead of with
// one explosive impulse.
type Settings struct {
	Iterations       int
	MaxRecoverySpeed float64
}

func DefaultSettings() Settings {
	return Settings{
		Iterations:       40,
		MaxRecoverySpeed: 0.002,
	}
}

// System is the simulation context: the loaded bodies and joints, the
// solver settings and the global clock.
type System struct {
	Gravity  vec.Vec3
	Settings Settings

	bodies []*body.Body
	byName map[string]*body.Body
	joints []joint.Joint

	steps    int
	stepDt   float64
	time     float64
	uniform  bool
	contacts int
}

func New() *System {
	return &System{
		Gravity:  vec.New(0, -9.81, 0),
		Settings: DefaultSettings(),
		byName:   make(map[string]*body.Body),
		uniform:  true,
	}
}

// Add registers a body or joint with the context. Items must be added
// before stepping begins.
func (s *System) Add(item any) error {
	switch it := item.(type) {
	case *body.Body:
		if _, dup := s.byName[it.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateBody, it.Name)
		}
		s.bodies = append(s.bodies, it)
		s.byName[it.Name] = it
		return nil
	case joint.Joint:
		s.joints = append(s.joints, it)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownItem, item)
}

func (s *System) Bodies() []*body.Body { return s.bodies }
func (s *System) Joints() []joint.Joint { return s.joints }

// Body looks up a body by its mechanism-file name.
func (s *System) Body(name string) (*body.Body, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Time is the simulated clock. While the step size stays uniform it is
// recomputed from the step count, so a 1.2s run at dt=0.002 takes exactly
// 600 steps with no accumulation drift.
func (s *System) Time() float64 { return s.time }

func (s *System) StepCount() int { return s.steps }

// ContactCount reports the contacts resolved during the last step.
func (s *System) ContactCount() int { return s.contacts }

// DoStep advances the simulation by dt: integrate velocities under gravity
// and applied forces, resolve contacts and joints by iterated sequential
// impulses, then integrate positions and advance the clock.
func (s *System) DoStep(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidTimestep, dt)
	}

	for _, b := range s.bodies {
		b.IntegrateVelocity(s.Gravity, dt)
	}

	contacts := s.findContacts()
	s.contacts = len(contacts)

	iters := s.Settings.Iterations
	if iters < 1 {
		iters = 1
	}
	for i := 0; i < iters; i++ {
		for _, c := range contacts {
			c.solve(dt, s.Settings.MaxRecoverySpeed)
		}
		for _, j := range s.joints {
			j.SolveVelocity(dt, s.Settings.MaxRecoverySpeed)
		}
	}

	for _, b := range s.bodies {
		b.IntegratePosition(dt)
	}

	s.advanceClock(dt)

	for _, b := range s.bodies {
		if !b.StateValid() {
			return &StepError{Step: s.steps, Time: s.time, Body: b.Name, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

func (s *System) advanceClock(dt float64) {
	s.steps++
	if s.stepDt == 0 {
		s.stepDt = dt
	}
	if s.uniform && dt == s.stepDt {
		s.time = float64(s.steps) * s.stepDt
	} else {
		s.uniform = false
		s.time += dt
	}
}

// Energy is the total mechanical energy of all bodies.
func (s *System) Energy() float64 {
	total := 0.0
	for _, b := range s.bodies {
		total += b.KineticEnergy() + b.PotentialEnergy(s.Gravity)
	}
	return total
}

// MaxViolation is the worst joint constraint error, for diagnostics.
func (s *System) MaxViolation() float64 {
	worst := 0.0
	for _, j := range s.joints {
		if v := j.Violation(); v > worst {
			worst = v
		}
	}
	return worst
}
