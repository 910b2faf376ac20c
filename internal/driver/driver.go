// Package driver runs the fixed-step simulation loop: advance the context,
// export the frame, repeat until the clock reaches the configured duration.
package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/mechsim/internal/system"
)

// Exporter receives one callback per completed step. The POV-Ray exporter
// satisfies this; tests use lighter fakes.
type Exporter interface {
	ExportData() error
}

// Observer watches each completed step.
type Observer interface {
	OnStep(sys *system.System)
}

// Metric accumulates a scalar over the run.
type Metric interface {
	Name() string
	Observe(sys *system.System)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64
}

// Result collects the trajectory of every body plus run metrics. States
// rows hold x,y,z per body in BodyNames order.
type Result struct {
	BodyNames []string
	Times     []float64
	States    [][]float64
	Metrics   map[string]float64
	Steps     int
	Frames    int
}

// Driver owns one simulation run over a prepared system.
type Driver struct {
	sys       *system.System
	exporter  Exporter
	observers []Observer
	metrics   []Metric
}

func New(sys *system.System) *Driver {
	return &Driver{sys: sys}
}

// SetExporter attaches a per-step exporter. A nil exporter disables export.
func (d *Driver) SetExporter(e Exporter) { d.exporter = e }

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }
func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }

func (d *Driver) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("driver: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("driver: duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run steps the system until its clock reaches cfg.Duration, exporting
// after every step. The first step or export error aborts the run; the
// partial result is returned alongside it.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	expected := int(cfg.Duration/cfg.Dt) + 1
	result := &Result{
		Times:   make([]float64, 0, expected),
		States:  make([][]float64, 0, expected),
		Metrics: make(map[string]float64),
	}
	for _, b := range d.sys.Bodies() {
		result.BodyNames = append(result.BodyNames, b.Name)
	}

	log := Logger()
	log.Info("run started",
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Int("bodies", len(result.BodyNames)))

	for d.sys.Time() < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := d.sys.DoStep(cfg.Dt); err != nil {
			return result, err
		}

		if d.exporter != nil {
			if err := d.exporter.ExportData(); err != nil {
				return result, fmt.Errorf("export step %d (t=%.4f): %w",
					d.sys.StepCount(), d.sys.Time(), err)
			}
			result.Frames++
		}

		for _, m := range d.metrics {
			m.Observe(d.sys)
		}
		for _, o := range d.observers {
			o.OnStep(d.sys)
		}

		d.record(result)
		result.Steps++
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Info("run finished",
		zap.Int("steps", result.Steps),
		zap.Int("frames", result.Frames),
		zap.Float64("time", d.sys.Time()))

	return result, nil
}

func (d *Driver) record(result *Result) {
	row := make([]float64, 0, 3*len(d.sys.Bodies()))
	for _, b := range d.sys.Bodies() {
		row = append(row, b.Pos.X, b.Pos.Y, b.Pos.Z)
	}
	result.States = append(result.States, row)
	result.Times = append(result.Times, d.sys.Time())
}
