package metrics

import "github.com/san-kum/mechsim/internal/system"

// Violation records the worst joint constraint error seen during a run.
type Violation struct {
	name string
	max  float64
}

func NewViolation() *Violation {
	return &Violation{name: "max_violation"}
}

func (v *Violation) Name() string { return v.name }

func (v *Violation) Observe(sys *system.System) {
	if e := sys.MaxViolation(); e > v.max {
		v.max = e
	}
}

func (v *Violation) Value() float64 { return v.max }

func (v *Violation) Reset() { v.max = 0 }

// Contacts averages the resolved contact count per step.
type Contacts struct {
	name    string
	total   int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "avg_contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(sys *system.System) {
	c.total += sys.ContactCount()
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.total = 0
	c.samples = 0
}
