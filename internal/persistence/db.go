// Package persistence provides the SQLite run archive and the compressed
// per-step tick log.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/telemetry"
)

// DB wraps a SQLite connection holding archived runs.
type DB struct {
	conn *sqlx.DB
}

// Run is one archived execution of an input file.
type Run struct {
	ID         string  `db:"id" json:"id"`
	Input      string  `db:"input" json:"input"`
	StartedAt  string  `db:"started_at" json:"started_at"`
	FinishedAt *string `db:"finished_at" json:"finished_at,omitempty"`
	Commands   int     `db:"commands" json:"commands"`
	Steps      int     `db:"steps" json:"steps"`
}

// ResultRow is an archived command result. Output holds the JSON encoding
// of structured outputs and is empty for message results.
type ResultRow struct {
	RunID      string `db:"run_id" json:"run_id"`
	Simulation int    `db:"simulation" json:"simulation"`
	Seq        int    `db:"seq" json:"seq"`
	Command    string `db:"command" json:"command"`
	Timestamp  int    `db:"timestamp" json:"timestamp"`
	Message    string `db:"message" json:"message,omitempty"`
	Output     string `db:"output_json" json:"output,omitempty"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		commands INTEGER NOT NULL DEFAULT 0,
		steps INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		simulation INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		command TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		message TEXT NOT NULL,
		output_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS step_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		run INTEGER NOT NULL,
		step INTEGER NOT NULL,
		animals INTEGER NOT NULL,
		sick_animals INTEGER NOT NULL,
		plants INTEGER NOT NULL,
		water_bodies INTEGER NOT NULL,
		scanned INTEGER NOT NULL,
		air_quality_mean REAL NOT NULL,
		air_quality_std REAL NOT NULL,
		soil_quality_mean REAL NOT NULL,
		soil_quality_std REAL NOT NULL,
		toxic_cells INTEGER NOT NULL,
		robot_energy INTEGER NOT NULL,
		inventory INTEGER NOT NULL,
		topics INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, seq);
	CREATE INDEX IF NOT EXISTS idx_step_stats_run ON step_stats(run_id, run, step);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers a new run for the named input and returns its ID.
func (db *DB) StartRun(input string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, input, started_at) VALUES (?, ?, ?)",
		id, input, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	if err := db.SaveMeta("last_run", id); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	return id, nil
}

// FinishRun records the totals of a completed run.
func (db *DB) FinishRun(id string, commands, steps int) error {
	res, err := db.conn.Exec(
		"UPDATE runs SET finished_at = ?, commands = ?, steps = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), commands, steps, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// SaveResults appends command results.
func (db *DB) SaveResults(runID string, rows []ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO results
		(run_id, simulation, seq, command, timestamp, message, output_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(runID, r.Simulation, r.Seq, r.Command, r.Timestamp, r.Message, r.Output); err != nil {
			return fmt.Errorf("insert result %d: %w", r.Seq, err)
		}
	}

	return tx.Commit()
}

// SaveStepStats appends step statistics.
func (db *DB) SaveStepStats(runID string, stats []telemetry.StepStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO step_stats
		(run_id, run, step, animals, sick_animals, plants, water_bodies, scanned,
		 air_quality_mean, air_quality_std, soil_quality_mean, soil_quality_std,
		 toxic_cells, robot_energy, inventory, topics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err := stmt.Exec(
			runID, s.Run, s.Step, s.Animals, s.SickAnimals, s.Plants, s.WaterBodies, s.Scanned,
			s.AirQualityMean, s.AirQualityStd, s.SoilQualityMean, s.SoilQualityStd,
			s.ToxicCells, s.RobotEnergy, s.Inventory, s.Topics,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", s.Step, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in archive metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// RecentRuns returns the most recently started runs.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, input, started_at, finished_at, commands, steps FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// LoadResults returns a run's results in command order.
func (db *DB) LoadResults(runID string) ([]ResultRow, error) {
	var rows []ResultRow
	err := db.conn.Select(&rows,
		`SELECT run_id, simulation, seq, command, timestamp, message, output_json
		 FROM results WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	return rows, err
}

// LoadStepStats returns up to limit step records of one simulation of a run.
func (db *DB) LoadStepStats(runID string, simulation, limit int) ([]telemetry.StepStats, error) {
	var stats []telemetry.StepStats
	err := db.conn.Select(&stats,
		`SELECT run, step, animals, sick_animals, plants, water_bodies, scanned,
		        air_quality_mean, air_quality_std, soil_quality_mean, soil_quality_std,
		        toxic_cells, robot_energy, inventory, topics
		 FROM step_stats WHERE run_id = ? AND run = ? ORDER BY step LIMIT ?`,
		runID, simulation, limit,
	)
	return stats, err
}

// Recorder buffers one run's results and step statistics and writes them in
// batches.
type Recorder struct {
	db    *DB
	runID string
	seq   int
	steps int

	results []ResultRow
	stats   []telemetry.StepStats
}

// flushSize is the number of buffered rows that triggers a write.
const flushSize = 256

// NewRecorder starts a run in db.
func NewRecorder(db *DB, input string) (*Recorder, error) {
	id, err := db.StartRun(input)
	if err != nil {
		return nil, err
	}
	slog.Info("archive run started", "run_id", id, "input", input)
	return &Recorder{db: db, runID: id}, nil
}

// RunID returns the archived run ID.
func (r *Recorder) RunID() string { return r.runID }

// AddResult buffers a command result of the given simulation.
func (r *Recorder) AddResult(simulation int, res engine.Result) error {
	row := ResultRow{
		RunID:      r.runID,
		Simulation: simulation,
		Seq:        r.seq,
		Command:    res.Command,
		Timestamp:  res.Timestamp,
		Message:    res.Message,
	}
	if res.Output != nil {
		data, err := json.Marshal(res.Output)
		if err != nil {
			return fmt.Errorf("encode %s output: %w", res.Command, err)
		}
		row.Output = string(data)
	}
	r.seq++
	r.results = append(r.results, row)
	return r.maybeFlush()
}

// AddStep buffers step statistics.
func (r *Recorder) AddStep(s telemetry.StepStats) error {
	r.steps++
	r.stats = append(r.stats, s)
	return r.maybeFlush()
}

func (r *Recorder) maybeFlush() error {
	if len(r.results)+len(r.stats) < flushSize {
		return nil
	}
	return r.Flush()
}

// Flush writes everything buffered.
func (r *Recorder) Flush() error {
	if err := r.db.SaveResults(r.runID, r.results); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	r.results = r.results[:0]
	if err := r.db.SaveStepStats(r.runID, r.stats); err != nil {
		return fmt.Errorf("save step stats: %w", err)
	}
	r.stats = r.stats[:0]
	return nil
}

// Finish flushes the buffers and records the run totals.
func (r *Recorder) Finish() error {
	if err := r.Flush(); err != nil {
		return err
	}
	if err := r.db.FinishRun(r.runID, r.seq, r.steps); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	slog.Info("archive run finished", "run_id", r.runID, "commands", r.seq, "steps", r.steps)
	return nil
}
