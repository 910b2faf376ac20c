// Package povray exports simulation frames as POV-Ray scripts.
//
// The exporter mirrors the renderer-side workflow: ExportScript writes the
// master scene script and the animation INI once at the start of a run, and
// ExportData appends one numbered data/include pair per simulation step.
// POV-Ray then renders the animation by replaying the INI.
package povray

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/system"
	"github.com/san-kum/mechsim/internal/vec"
)

var (
	// ErrScriptNotExported indicates ExportData was called before ExportScript.
	ErrScriptNotExported = errors.New("povray: export script before exporting frame data")

	// ErrNoItems indicates no bodies were selected for rendering.
	ErrNoItems = errors.New("povray: no items selected (call Add or AddAll)")
)

// Camera places the viewpoint, the aimed point and the lens angle in degrees.
type Camera struct {
	Location vec.Vec3
	LookAt   vec.Vec3
	Angle    float64
}

// Light is a point light source.
type Light struct {
	Position  vec.Vec3
	Color     body.Color
	Intensity float64
}

// Exporter accumulates per-frame state from a simulation context and writes
// the POV-Ray file set. Configure it fully before the first export call.
type Exporter struct {
	sys *system.System

	templateFile    string
	outputScript    string
	dataFilebase    string
	pictureFilebase string

	camera  Camera
	ambient body.Color
	lights  []Light
	width   int
	height  int
	custom  string

	items      []*body.Body
	frames     int
	scriptDone bool
}

func New(sys *system.System) *Exporter {
	return &Exporter{
		sys:             sys,
		outputScript:    "rendering_frames.pov",
		dataFilebase:    "output/state",
		pictureFilebase: "anim/picture",
		camera: Camera{
			Location: vec.New(0, 1, 2),
			Angle:    50,
		},
		ambient: body.Color{R: 1, G: 1, B: 1},
		width:   640,
		height:  480,
	}
}

// SetTemplateFile points at a scene template whose content is prepended to
// the generated master script (global settings, materials, sky).
func (e *Exporter) SetTemplateFile(path string) { e.templateFile = path }

// SetOutputScriptFile names the generated master .pov script. The animation
// INI is written next to it with the same base name.
func (e *Exporter) SetOutputScriptFile(path string) { e.outputScript = path }

// SetOutputDataFilebase sets the prefix for per-frame data files, e.g.
// "output/state" produces output/state0000.dat and output/state0000.pov.
func (e *Exporter) SetOutputDataFilebase(prefix string) { e.dataFilebase = prefix }

// SetPictureFilebase sets the prefix POV-Ray uses for rendered pictures.
func (e *Exporter) SetPictureFilebase(prefix string) { e.pictureFilebase = prefix }

func (e *Exporter) SetCamera(location, lookAt vec.Vec3, angle float64) {
	e.camera = Camera{Location: location, LookAt: lookAt, Angle: angle}
}

func (e *Exporter) SetAmbientLight(c body.Color) { e.ambient = c }

func (e *Exporter) AddLight(pos vec.Vec3, c body.Color, intensity float64) {
	e.lights = append(e.lights, Light{Position: pos, Color: c, Intensity: intensity})
}

func (e *Exporter) SetPictureSize(width, height int) {
	e.width = width
	e.height = height
}

// SetCustomCommands appends raw POV scene-description text to the master
// script, after the generated camera and lights.
func (e *Exporter) SetCustomCommands(povText string) { e.custom = povText }

// Add selects a single body for rendering.
func (e *Exporter) Add(b *body.Body) { e.items = append(e.items, b) }

// AddAll selects every body currently in the system.
func (e *Exporter) AddAll() {
	e.items = append(e.items[:0], e.sys.Bodies()...)
}

// FrameCount reports how many frames have been exported.
func (e *Exporter) FrameCount() int { return e.frames }

// ensureDirs creates the output and picture directories. MkdirAll is
// idempotent, so repeated calls are safe.
func (e *Exporter) ensureDirs() error {
	for _, prefix := range []string{e.dataFilebase, e.pictureFilebase, e.outputScript} {
		dir := filepath.Dir(prefix)
		if dir == "." || dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("povray: create %s: %w", dir, err)
		}
	}
	return nil
}
