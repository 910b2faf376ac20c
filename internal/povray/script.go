package povray

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/mechsim/internal/vec"
)

// ExportScript writes the master scene script and the animation INI. Call
// it once before stepping; per-frame includes reference it by frame number.
func (e *Exporter) ExportScript() error {
	if len(e.items) == 0 {
		return ErrNoItems
	}
	if err := e.ensureDirs(); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("// generated by mechsim - master animation script\n\n")

	if e.templateFile != "" {
		tpl, err := os.ReadFile(e.templateFile)
		if err != nil {
			return fmt.Errorf("povray: read template: %w", err)
		}
		sb.Write(tpl)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "camera {\n  location <%s>\n  look_at <%s>\n  angle %g\n  right x*image_width/image_height\n}\n\n",
		povVec(e.camera.Location), povVec(e.camera.LookAt), e.camera.Angle)

	fmt.Fprintf(&sb, "global_settings { ambient_light rgb<%g,%g,%g> }\n\n",
		e.ambient.R, e.ambient.G, e.ambient.B)

	for _, l := range e.lights {
		intensity := l.Intensity
		if intensity == 0 {
			intensity = 1
		}
		fmt.Fprintf(&sb, "light_source { <%s> color rgb<%g,%g,%g>*%g }\n",
			povVec(l.Position), l.Color.R, l.Color.G, l.Color.B, intensity)
	}
	if len(e.lights) > 0 {
		sb.WriteString("\n")
	}

	if e.custom != "" {
		sb.WriteString(e.custom)
		if !strings.HasSuffix(e.custom, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	// pull in the include written for the current frame
	fmt.Fprintf(&sb, "#declare frame_file = concat(\"%s\", str(frame_number, -4, 0), \".pov\")\n", e.dataFilebase)
	sb.WriteString("#include frame_file\n")

	if err := os.WriteFile(e.outputScript, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("povray: write script: %w", err)
	}

	e.scriptDone = true
	return e.writeINI()
}

// writeINI emits the POV-Ray animation driver. It is rewritten after every
// exported frame so Final_Frame always matches the data on disk.
func (e *Exporter) writeINI() error {
	final := e.frames - 1
	if final < 0 {
		final = 0
	}

	var sb strings.Builder
	sb.WriteString("; generated by mechsim - animation driver\n")
	fmt.Fprintf(&sb, "Input_File_Name=%s\n", e.outputScript)
	fmt.Fprintf(&sb, "Output_File_Name=%s\n", e.pictureFilebase)
	fmt.Fprintf(&sb, "Width=%d\n", e.width)
	fmt.Fprintf(&sb, "Height=%d\n", e.height)
	sb.WriteString("Antialias=On\n")
	sb.WriteString("Initial_Frame=0\n")
	fmt.Fprintf(&sb, "Final_Frame=%d\n", final)
	sb.WriteString("Initial_Clock=0\nFinal_Clock=1\n")

	if err := os.WriteFile(e.INIPath(), []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("povray: write ini: %w", err)
	}
	return nil
}

// INIPath is where the animation driver lands, next to the master script.
func (e *Exporter) INIPath() string {
	return strings.TrimSuffix(e.outputScript, ".pov") + ".ini"
}

func povVec(v vec.Vec3) string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}
