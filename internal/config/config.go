package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/system"
	"github.com/san-kum/mechsim/internal/vec"
)

// Defaults reproduce the reference escapement rendering: a short
// high-rate run with tolerances sized for very small parts.
const (
	DefaultDt         = 0.002
	DefaultDuration   = 1.2
	DefaultIterations = 40
	DefaultRecovery   = 0.002
	DefaultEnvelope   = 0.001
	DefaultMargin     = 0.001
)

const DefaultMechanism = "mechanisms/escapement.yaml"

type Config struct {
	Mechanism string          `yaml:"mechanism"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	Gravity   []float64       `yaml:"gravity"`
	Solver    SolverConfig    `yaml:"solver"`
	Collision CollisionConfig `yaml:"collision"`
	Render    RenderConfig    `yaml:"render"`
}

type SolverConfig struct {
	Iterations       int     `yaml:"iterations"`
	MaxRecoverySpeed float64 `yaml:"max_recovery_speed"`
}

type CollisionConfig struct {
	Envelope float64 `yaml:"envelope"`
	Margin   float64 `yaml:"margin"`
}

type RenderConfig struct {
	Template        string        `yaml:"template"`
	OutputScript    string        `yaml:"output_script"`
	DataFilebase    string        `yaml:"data_filebase"`
	PictureFilebase string        `yaml:"picture_filebase"`
	Camera          CameraConfig  `yaml:"camera"`
	AmbientLight    []float64     `yaml:"ambient_light"`
	Lights          []LightConfig `yaml:"lights"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	CustomCommands  string        `yaml:"custom_commands"`
}

type CameraConfig struct {
	Location []float64 `yaml:"location"`
	LookAt   []float64 `yaml:"look_at"`
	Angle    float64   `yaml:"angle"`
}

type LightConfig struct {
	Position  []float64 `yaml:"position"`
	Color     []float64 `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
}

func DefaultConfig() *Config {
	return &Config{
		Mechanism: DefaultMechanism,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Gravity:   []float64{0, -9.8, -9.8},
		Solver: SolverConfig{
			Iterations:       DefaultIterations,
			MaxRecoverySpeed: DefaultRecovery,
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
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) GravityVec() vec.Vec3 {
	if len(c.Gravity) != 3 {
		return vec.New(0, -9.8, -9.8)
	}
	return vec.New(c.Gravity[0], c.Gravity[1], c.Gravity[2])
}

func (c *Config) SolverSettings() system.Settings {
	s := system.DefaultSettings()
	if c.Solver.Iterations > 0 {
		s.Iterations = c.Solver.Iterations
	}
	if c.Solver.MaxRecoverySpeed > 0 {
		s.MaxRecoverySpeed = c.Solver.MaxRecoverySpeed
	}
	return s
}

func toVec(v []float64, fallback vec.Vec3) vec.Vec3 {
	if len(v) != 3 {
		return fallback
	}
	return vec.New(v[0], v[1], v[2])
}

func (c *CameraConfig) LocationVec() vec.Vec3 {
	return toVec(c.Location, vec.New(0, 1, 2))
}

func (c *CameraConfig) LookAtVec() vec.Vec3 {
	return toVec(c.LookAt, vec.Zero)
}

func (l *LightConfig) PositionVec() vec.Vec3 {
	return toVec(l.Position, vec.New(0, 5, 0))
}
