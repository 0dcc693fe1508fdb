package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/telemetry"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "terra.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecorderArchivesRun(t *testing.T) {
	db := openTestDB(t)
	rec, err := NewRecorder(db, "input.json")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	results := []engine.Result{
		{Command: "startSimulation", Message: engine.MsgStarted, Timestamp: 1},
		{Command: "printMap", Output: []engine.CellSummary{{Section: [2]int{0, 0}, TotalNrOfObjects: 2}}, Timestamp: 2},
		{Command: "getEnergyStatus", Message: "TerraBot has 10 energy points left."},
	}
	for _, r := range results {
		if err := rec.AddResult(1, r); err != nil {
			t.Fatal(err)
		}
	}
	for step := 1; step <= 3; step++ {
		if err := rec.AddStep(telemetry.StepStats{Run: 1, Step: step, Animals: step, AirQualityMean: 41.5}); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	rows, err := db.LoadResults(rec.RunID())
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d results, want 3", len(rows))
	}
	if rows[1].Command != "printMap" || rows[1].Output != `[{"section":[0,0],"totalNrOfObjects":2}]` {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].Seq != 2 || rows[2].Message == "" || rows[2].Output != "" {
		t.Errorf("row 2 = %+v", rows[2])
	}

	stats, err := db.LoadStepStats(rec.RunID(), 1, 10)
	if err != nil {
		t.Fatalf("LoadStepStats: %v", err)
	}
	if len(stats) != 3 || stats[2].Animals != 3 || stats[0].AirQualityMean != 41.5 {
		t.Errorf("stats = %+v", stats)
	}

	runs, err := db.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Commands != 3 || runs[0].Steps != 3 || runs[0].FinishedAt == nil {
		t.Errorf("runs = %+v", runs)
	}

	last, err := db.GetMeta("last_run")
	if err != nil || last != rec.RunID() {
		t.Errorf("last_run = %q, %v", last, err)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	db := openTestDB(t)
	if err := db.FinishRun("missing", 0, 0); err == nil {
		t.Error("finishing an unknown run should fail")
	}
}

func TestGetMetaMissing(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetMeta("nothing"); err == nil {
		t.Error("missing key should return an error")
	}
}

func TestTickLogRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ticks")
	log, err := NewTickLog(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTickLog: %v", err)
	}
	entries := []TickEntry{
		{Run: 1, Step: 1, Stats: telemetry.StepStats{Run: 1, Step: 1, Plants: 4}},
		{Run: 1, Step: 2, Events: []engine.Event{{Step: 2, Description: "Wolf ate Hare at (0, 0)", Category: "predation"}}},
	}
	for _, e := range entries {
		if err := log.Write(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := log.Write(entries[0]); err == nil {
		t.Error("write after close should fail")
	}

	got, err := ReadTickLog(log.Path())
	if err != nil {
		t.Fatalf("ReadTickLog: %v", err)
	}
	if len(got) != 2 || got[0].Stats.Plants != 4 || len(got[1].Events) != 1 || got[1].Events[0].Category != "predation" {
		t.Errorf("entries = %+v", got)
	}
}
