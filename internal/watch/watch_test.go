package watch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/telemetry"
)

func fakeAPI(t *testing.T, status Status, robot engine.RobotStatus) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path string, v any) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		})
	}
	serve("/api/v1/status", status)
	serve("/api/v1/robot", robot)
	serve("/api/v1/events", []engine.Event{{Step: 3, Category: "removal"}})
	serve("/api/v1/results", []engine.Result{
		{Command: "scan", Message: "ERROR: Object not found. Cannot perform action", Timestamp: 2},
		{Command: "getEnergyStatus", Message: "TerraBot has 40 energy points left.", Timestamp: 3},
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestObserve(t *testing.T) {
	ts := fakeAPI(t,
		Status{Run: 2, Running: true, Step: 3, Territory: "2x3", Energy: 40},
		engine.RobotStatus{Energy: 40})

	o := NewObserver(ts.URL)
	if !o.Ready() {
		t.Fatal("observer not ready")
	}
	obs, err := o.Observe()
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if obs.Status.Run != 2 || obs.Robot.Energy != 40 || len(obs.Events) != 1 || len(obs.Results) != 2 {
		t.Errorf("observation = %+v", obs)
	}
}

func TestObserveErrors(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	o := NewObserver(ts.URL)
	if o.Ready() {
		t.Error("Ready on a 404 server")
	}
	if _, err := o.Observe(); err == nil {
		t.Error("expected error from 404 server")
	}
}

func TestTriage(t *testing.T) {
	running := func(energy int, stats telemetry.StepStats) *Observation {
		return &Observation{
			Status: Status{Run: 1, Running: true, Stats: stats},
			Robot:  engine.RobotStatus{Energy: energy},
		}
	}

	tests := []struct {
		name  string
		obs   *Observation
		level string
	}{
		{"idle", &Observation{}, LevelIdle},
		{"healthy", running(50, telemetry.StepStats{Animals: 4}), LevelHealthy},
		{"cannot scan", running(5, telemetry.StepStats{}), LevelCritical},
		{"cannot improve", running(8, telemetry.StepStats{}), LevelWarning},
		{"some sick", running(50, telemetry.StepStats{Animals: 4, SickAnimals: 1}), LevelWatch},
		{"most sick", running(50, telemetry.StepStats{Animals: 4, SickAnimals: 3}), LevelCritical},
		{"toxic air", running(50, telemetry.StepStats{ToxicCells: 2}), LevelWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Triage(tt.obs, nil).Level; got != tt.level {
				t.Errorf("level = %s, want %s", got, tt.level)
			}
		})
	}
}

func TestTriageRejectionsAndTrend(t *testing.T) {
	mem := &Memory{}
	mem.Record(Record{Run: 1, Step: 1, Energy: 30})
	mem.Record(Record{Run: 1, Step: 2, Energy: 25})

	obs := &Observation{
		Status: Status{Run: 1, Running: true},
		Robot:  engine.RobotStatus{Energy: 15},
		Results: []engine.Result{
			{Message: "ERROR: Not enough energy to perform action"},
			{Message: "ERROR: Object not found. Cannot perform action"},
			{Message: "TerraBot has 15 energy points left."},
		},
		Events: []engine.Event{{Category: "removal"}, {Category: "movement"}},
	}
	h := Triage(obs, mem)
	if h.Level != LevelWarning {
		t.Errorf("level = %s, want %s", h.Level, LevelWarning)
	}
	if h.Rejections != 2 || h.Removals != 1 {
		t.Errorf("rejections = %d, removals = %d", h.Rejections, h.Removals)
	}
	if h.EnergyDelta != -15 {
		t.Errorf("energy delta = %d, want -15", h.EnergyDelta)
	}
	if len(h.Reasons) != 2 {
		t.Errorf("reasons = %v", h.Reasons)
	}
}

func TestMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.json")
	mem := LoadMemory(path)
	if mem.Summary() != "no observations" {
		t.Errorf("empty summary = %q", mem.Summary())
	}
	for i := 0; i < maxRecords+3; i++ {
		mem.Record(Record{Run: 1, Step: i, Energy: 100 - i, Level: LevelHealthy})
	}
	if len(mem.Records) != maxRecords || mem.Records[0].Step != 3 {
		t.Fatalf("records = %+v", mem.Records)
	}
	if err := mem.Save(); err != nil {
		t.Fatal(err)
	}

	loaded := LoadMemory(path)
	if len(loaded.Records) != maxRecords {
		t.Fatalf("loaded %d records", len(loaded.Records))
	}
	if r, ok := loaded.OldestOfRun(1); !ok || r.Step != 3 {
		t.Errorf("oldest = %+v, %v", r, ok)
	}
	if _, ok := loaded.OldestOfRun(2); ok {
		t.Error("run 2 has no records")
	}
	if err := (&Memory{}).Save(); err != nil {
		t.Errorf("pathless save: %v", err)
	}
}
