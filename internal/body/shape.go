package body

import "fmt"

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	}
	return fmt.Sprintf("shape(%d)", int(k))
}

// ParseShapeKind maps the mechanism-file shape names onto kinds.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "sphere":
		return ShapeSphere, nil
	case "box":
		return ShapeBox, nil
	case "cylinder":
		return ShapeCylinder, nil
	}
	return 0, fmt.Errorf("unknown shape kind: %q", s)
}

// Color is an RGB triple in [0,1] per channel, as used by the renderer.
type Color struct {
	R, G, B float64
}

// Shape is the render geometry attached to a body. Dimensions are
// interpreted per kind: Radius for spheres and cylinders, Size for boxes,
// Length for cylinders (along the body y axis).
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Size   [3]float64
	Length float64
	Color  Color
}
