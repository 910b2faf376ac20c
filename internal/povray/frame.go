package povray

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/vec"
)

// ExportData writes the data/include pair for the current simulation state
// and advances the frame counter. ExportScript must have run first.
func (e *Exporter) ExportData() error {
	if !e.scriptDone {
		return ErrScriptNotExported
	}

	n := e.frames
	datPath := fmt.Sprintf("%s%04d.dat", e.dataFilebase, n)
	povPath := fmt.Sprintf("%s%04d.pov", e.dataFilebase, n)

	if err := os.WriteFile(datPath, []byte(e.frameData()), 0644); err != nil {
		return fmt.Errorf("povray: write frame %d: %w", n, err)
	}
	if err := os.WriteFile(povPath, []byte(e.frameScene(n)), 0644); err != nil {
		return fmt.Errorf("povray: write frame %d: %w", n, err)
	}

	e.frames++
	return e.writeINI()
}

// frameData is the raw state record: one line per body with pose and
// orientation, for tooling that post-processes the run.
func (e *Exporter) frameData() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# t=%.6f step=%d\n", e.sys.Time(), e.sys.StepCount())
	for _, b := range e.items {
		fmt.Fprintf(&sb, "%s %.9g %.9g %.9g %.9g %.9g %.9g %.9g\n",
			b.Name,
			b.Pos.X, b.Pos.Y, b.Pos.Z,
			b.Rot.W, b.Rot.X, b.Rot.Y, b.Rot.Z)
	}
	return sb.String()
}

// frameScene is the POV include placing every selected body at its pose.
func (e *Exporter) frameScene(n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// frame %d, t=%.6f\n", n, e.sys.Time())
	for _, b := range e.items {
		writeShape(&sb, b)
	}
	return sb.String()
}

func writeShape(sb *strings.Builder, b *body.Body) {
	sh := b.Shape

	var geom string
	switch sh.Kind {
	case body.ShapeSphere:
		if sh.Radius <= 0 {
			return
		}
		geom = fmt.Sprintf("sphere { <0,0,0>, %g }", sh.Radius)
	case body.ShapeBox:
		sx, sy, sz := sh.Size[0]/2, sh.Size[1]/2, sh.Size[2]/2
		if sx <= 0 || sy <= 0 || sz <= 0 {
			return
		}
		geom = fmt.Sprintf("box { <%g,%g,%g>, <%g,%g,%g> }", -sx, -sy, -sz, sx, sy, sz)
	case body.ShapeCylinder:
		if sh.Radius <= 0 || sh.Length <= 0 {
			return
		}
		geom = fmt.Sprintf("cylinder { <0,%g,0>, <0,%g,0>, %g }", -sh.Length/2, sh.Length/2, sh.Radius)
	default:
		return
	}

	fmt.Fprintf(sb, "object { // %s\n  %s\n  pigment { color rgb<%g,%g,%g> }\n  matrix <%s>\n}\n",
		b.Name, geom, sh.Color.R, sh.Color.G, sh.Color.B, povMatrix(b))
}

// povMatrix emits the 12-value POV transform: the rotated basis vectors
// followed by the translation.
func povMatrix(b *body.Body) string {
	ex := b.Rot.Rotate(vec.New(1, 0, 0))
	ey := b.Rot.Rotate(vec.New(0, 1, 0))
	ez := b.Rot.Rotate(vec.New(0, 0, 1))
	return fmt.Sprintf("%s, %s, %s, %s",
		povVec(ex), povVec(ey), povVec(ez), povVec(b.Pos))
}
