// Package assembly loads mechanism descriptions exported by CAD tooling
// and turns them into simulation items.
package assembly

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/joint"
	"github.com/san-kum/mechsim/internal/vec"
)

type mechanismFile struct {
	Name   string      `yaml:"name"`
	Parts  []partSpec  `yaml:"parts"`
	Joints []jointSpec `yaml:"joints"`
}

type partSpec struct {
	Name        string     `yaml:"name"`
	Mass        float64    `yaml:"mass"`
	Fixed       bool       `yaml:"fixed"`
	Inertia     []float64  `yaml:"inertia"`
	Position    []float64  `yaml:"position"`
	Orientation *axisAngle `yaml:"orientation"`
	Velocity    []float64  `yaml:"velocity"`
	Envelope    *float64   `yaml:"envelope"`
	Margin      *float64   `yaml:"margin"`
	Shape       *shapeSpec `yaml:"shape"`
}

type axisAngle struct {
	Axis  []float64 `yaml:"axis"`
	Angle float64   `yaml:"angle"`
}

type shapeSpec struct {
	Kind   string    `yaml:"kind"`
	Radius float64   `yaml:"radius"`
	Size   []float64 `yaml:"size"`
	Length float64   `yaml:"length"`
	Color  []float64 `yaml:"color"`
}

type jointSpec struct {
	Kind    string    `yaml:"kind"`
	A       string    `yaml:"a"`
	B       string    `yaml:"b"`
	Anchor  []float64 `yaml:"anchor"`
	AnchorB []float64 `yaml:"anchor_b"`
	Axis    []float64 `yaml:"axis"`
}

func toVec(v []float64, name string) (vec.Vec3, error) {
	switch len(v) {
	case 0:
		return vec.Zero, nil
	case 3:
		return vec.New(v[0], v[1], v[2]), nil
	}
	return vec.Zero, fmt.Errorf("%s: expected 3 components, got %d", name, len(v))
}

// Load parses a mechanism file and returns the physical items, in file
// order, ready to be added to a simulation context.
func Load(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load mechanism: %w", err)
	}

	var mf mechanismFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("load mechanism %s: %w", path, err)
	}
	if len(mf.Parts) == 0 {
		return nil, fmt.Errorf("load mechanism %s: no parts", path)
	}

	items := make([]any, 0, len(mf.Parts)+len(mf.Joints))
	byName := make(map[string]*body.Body, len(mf.Parts))

	for _, p := range mf.Parts {
		b, err := buildPart(p)
		if err != nil {
			return nil, fmt.Errorf("load mechanism %s: %w", path, err)
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("load mechanism %s: duplicate part %q", path, b.Name)
		}
		byName[b.Name] = b
		items = append(items, b)
	}

	for i, j := range mf.Joints {
		jt, err := buildJoint(j, byName)
		if err != nil {
			return nil, fmt.Errorf("load mechanism %s: joint %d: %w", path, i, err)
		}
		items = append(items, jt)
	}

	return items, nil
}

func buildPart(p partSpec) (*body.Body, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("part with empty name")
	}
	if !p.Fixed && p.Mass <= 0 {
		return nil, fmt.Errorf("part %q: mass must be positive", p.Name)
	}

	var b *body.Body
	if p.Fixed {
		b = body.NewFixed(p.Name)
	} else {
		b = body.New(p.Name, p.Mass)
	}

	pos, err := toVec(p.Position, "position")
	if err != nil {
		return nil, fmt.Errorf("part %q: %w", p.Name, err)
	}
	b.Pos = pos

	vel, err := toVec(p.Velocity, "velocity")
	if err != nil {
		return nil, fmt.Errorf("part %q: %w", p.Name, err)
	}
	b.Vel = vel

	if len(p.Inertia) > 0 {
		in, err := toVec(p.Inertia, "inertia")
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}
		b.Inertia = in
	}

	if p.Orientation != nil {
		axis, err := toVec(p.Orientation.Axis, "orientation axis")
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}
		b.Rot = vec.FromAxisAngle(axis, p.Orientation.Angle)
	}

	if p.Envelope != nil {
		b.Envelope = *p.Envelope
	}
	if p.Margin != nil {
		b.Margin = *p.Margin
	}

	if p.Shape != nil {
		kind, err := body.ParseShapeKind(p.Shape.Kind)
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}
		sh := body.Shape{
			Kind:   kind,
			Radius: p.Shape.Radius,
			Length: p.Shape.Length,
			Color:  body.Color{R: 0.8, G: 0.8, B: 0.8},
		}
		if len(p.Shape.Size) == 3 {
			sh.Size = [3]float64{p.Shape.Size[0], p.Shape.Size[1], p.Shape.Size[2]}
		}
		if len(p.Shape.Color) == 3 {
			sh.Color = body.Color{R: p.Shape.Color[0], G: p.Shape.Color[1], B: p.Shape.Color[2]}
		}
		b.Shape = sh
	}

	return b, nil
}

func buildJoint(j jointSpec, parts map[string]*body.Body) (joint.Joint, error) {
	a, ok := parts[j.A]
	if !ok {
		return nil, fmt.Errorf("unknown part %q", j.A)
	}
	b, ok := parts[j.B]
	if !ok {
		return nil, fmt.Errorf("unknown part %q", j.B)
	}

	anchor, err := toVec(j.Anchor, "anchor")
	if err != nil {
		return nil, err
	}

	switch j.Kind {
	case "spherical":
		return joint.NewSpherical(a, b, anchor), nil
	case "distance":
		anchorB, err := toVec(j.AnchorB, "anchor_b")
		if err != nil {
			return nil, err
		}
		return joint.NewDistance(a, b, anchor, anchorB), nil
	case "revolute":
		axis, err := toVec(j.Axis, "axis")
		if err != nil {
			return nil, err
		}
		return joint.NewRevolute(a, b, anchor, axis)
	}
	return nil, fmt.Errorf("unknown joint kind %q", j.Kind)
}
