package config

// Presets are ready-made run setups. "escapement" reproduces the reference
// clockwork rendering: tight collision tolerances for very small parts, a
// short high-rate run and the classic close-up camera.
var Presets = map[string]*Config{
	"escapement": {
		Mechanism: "mechanisms/escapement.yaml",
		Dt:        0.002,
		Duration:  1.2,
		Gravity:   []float64{0, -9.8, -9.8},
		Solver: SolverConfig{
			Iterations:       40,
			MaxRecoverySpeed: 0.002,
		},
		Collision: CollisionConfig{
			Envelope: 0.001,
			Margin:   0.001,
		},
		Render: RenderConfig{
			OutputScript:    "rendering_frames.pov",
			DataFilebase:    "output/state",
			PictureFilebase: "anim/picture",
			Camera: CameraConfig{
				Location: []float64{0.2, 0.3, 0.5},
				LookAt:   []float64{0, 0, 0},
				Angle:    35,
			},
			AmbientLight: []float64{2, 2, 2},
			Lights: []LightConfig{
				{Position: []float64{-2, 2, -1}, Color: []float64{0.9, 0.9, 1.1}, Intensity: 1},
			},
			Width:          640,
			Height:         480,
			CustomCommands: "light_source{ <1,3,1.5> color rgb<0.9,0.9,0.8> }\n",
		},
	},
	"pendulum": {
		Mechanism: "mechanisms/pendulum.yaml",
		Dt:        0.01,
		Duration:  10.0,
		Gravity:   []float64{0, -9.81, 0},
		Solver: SolverConfig{
			Iterations:       50,
			MaxRecoverySpeed: 0.1,
		},
		Collision: CollisionConfig{
			Envelope: DefaultEnvelope,
			Margin:   DefaultMargin,
		},
		Render: RenderConfig{
			OutputScript:    "rendering_frames.pov",
			DataFilebase:    "output/state",
			PictureFilebase: "anim/picture",
			Camera: CameraConfig{
				Location: []float64{0, 0.5, 3},
				LookAt:   []float64{0, 0, 0},
				Angle:    45,
			},
			AmbientLight: []float64{1, 1, 0.9},
			Lights: []LightConfig{
				{Position: []float64{2, 4, 2}, Color: []float64{1, 1, 1}, Intensity: 1},
			},
			Width:  640,
			Height: 480,
		},
	},
	"drop": {
		Mechanism: "mechanisms/drop.yaml",
		Dt:        0.005,
		Duration:  3.0,
		Gravity:   []float64{0, -9.81, 0},
		Solver: SolverConfig{
			Iterations:       30,
			MaxRecoverySpeed: 0.05,
		},
		Collision: CollisionConfig{
			Envelope: 0.01,
			Margin:   0.005,
		},
		Render: RenderConfig{
			OutputScript:    "rendering_frames.pov",
			DataFilebase:    "output/state",
			PictureFilebase: "anim/picture",
			Camera: CameraConfig{
				Location: []float64{1, 1, 4},
				LookAt:   []float64{0, 0.5, 0},
				Angle:    40,
			},
			AmbientLight: []float64{1, 1, 1},
			Lights: []LightConfig{
				{Position: []float64{-3, 5, 2}, Color: []float64{1, 1, 1}, Intensity: 1.2},
			},
			Width:  800,
			Height: 600,
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
