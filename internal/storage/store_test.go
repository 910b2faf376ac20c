package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mechsim/internal/driver"
)

func sampleResult() *driver.Result {
	return &driver.Result{
		BodyNames: []string{"anchor", "wheel"},
		Times:     []float64{0.002, 0.004},
		States: [][]float64{
			{0, 0.1, 0, 1, 0, 0},
			{0, 0.099, 0, 1, -0.001, 0},
		},
		Metrics: map[string]float64{"energy_drift": 0.001},
		Steps:   2,
		Frames:  2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := driver.Config{Dt: 0.002, Duration: 1.2}
	runID, err := st.Save("escapement", cfg, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mechanism != "escapement" {
		t.Errorf("expected mechanism 'escapement', got %q", meta.Mechanism)
	}
	if meta.Dt != 0.002 || meta.Duration != 1.2 {
		t.Errorf("run parameters not preserved: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 0.001 {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}
	if len(meta.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %v", meta.Bodies)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Errorf("expected 2 rows, got %d states / %d times", len(states), len(times))
	}
	if len(states[0]) != 6 {
		t.Errorf("expected 6 coordinates per row, got %d", len(states[0]))
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("escapement", driver.Config{Dt: 0.002, Duration: 1.2}, sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save("escapement", driver.Config{Dt: 0.002, Duration: 1.2}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save("escapement", driver.Config{Dt: 0.002, Duration: 1.2}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if doc["mechanism"] != "escapement" {
		t.Errorf("unexpected mechanism: %v", doc["mechanism"])
	}
	if _, ok := doc["states"]; !ok {
		t.Error("export missing states")
	}
}
