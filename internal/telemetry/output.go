package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/talgya/terra-world/internal/engine"
)

// ResultRow is one command result flattened for CSV. Structured outputs are
// kept as compact JSON.
type ResultRow struct {
	Run       int    `csv:"run"`
	Command   string `csv:"command"`
	Timestamp int    `csv:"timestamp"`
	Message   string `csv:"message"`
	Output    string `csv:"output"`
}

// NewResultRow flattens r.
func NewResultRow(run int, r engine.Result) (ResultRow, error) {
	row := ResultRow{Run: run, Command: r.Command, Timestamp: r.Timestamp, Message: r.Message}
	if r.Output != nil {
		data, err := json.Marshal(r.Output)
		if err != nil {
			return row, fmt.Errorf("encoding %s output: %w", r.Command, err)
		}
		row.Output = string(data)
	}
	return row, nil
}

// Output writes steps.csv and results.csv into a directory.
type Output struct {
	dir         string
	stepsFile   *os.File
	resultsFile *os.File

	stepsHeaderWritten   bool
	resultsHeaderWritten bool
}

// NewOutput creates the output directory and files.
// Returns nil if dir is empty (output disabled); a nil Output ignores writes.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	o := &Output{dir: dir}
	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating steps.csv: %w", err)
	}
	o.stepsFile = f

	f, err = os.Create(filepath.Join(dir, "results.csv"))
	if err != nil {
		o.stepsFile.Close()
		return nil, fmt.Errorf("creating results.csv: %w", err)
	}
	o.resultsFile = f
	return o, nil
}

// WriteStep appends a step record to steps.csv.
func (o *Output) WriteStep(s StepStats) error {
	if o == nil {
		return nil
	}
	if err := writeRecords(o.stepsFile, []StepStats{s}, &o.stepsHeaderWritten); err != nil {
		return fmt.Errorf("writing step: %w", err)
	}
	return nil
}

// WriteResult appends a command result to results.csv.
func (o *Output) WriteResult(run int, r engine.Result) error {
	if o == nil {
		return nil
	}
	row, err := NewResultRow(run, r)
	if err != nil {
		return err
	}
	if err := writeRecords(o.resultsFile, []ResultRow{row}, &o.resultsHeaderWritten); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// writeRecords writes the header with the first batch only.
func writeRecords(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

// Close closes both files.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{o.stepsFile, o.resultsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ReadSteps loads a steps.csv written by Output.
func ReadSteps(path string) ([]StepStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []StepStats
	if err := gocsv.UnmarshalFile(f, &out); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}
