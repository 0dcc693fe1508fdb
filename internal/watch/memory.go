package watch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const maxRecords = 10

// Record captures one observation cycle.
type Record struct {
	Run    int    `json:"run"`
	Step   int    `json:"step"`
	Energy int    `json:"energy"`
	Level  string `json:"level"`
}

// Memory is a ring of recent records, optionally kept in a file.
type Memory struct {
	Records []Record `json:"records"`

	path string
}

// LoadMemory reads the memory file. Returns empty memory if path is empty
// or the file is missing.
func LoadMemory(path string) *Memory {
	mem := &Memory{path: path}
	if path == "" {
		return mem
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mem
	}
	if err := json.Unmarshal(data, mem); err != nil {
		slog.Warn("watch memory corrupted, starting fresh", "path", path, "error", err)
		return &Memory{path: path}
	}
	return mem
}

// Save writes the memory to its file, if it has one.
func (m *Memory) Save() error {
	if m.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal watch memory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("write watch memory: %w", err)
	}
	return nil
}

// Record adds a record, trimming to maxRecords.
func (m *Memory) Record(r Record) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// OldestOfRun returns the oldest remembered record of run.
func (m *Memory) OldestOfRun(run int) (Record, bool) {
	for _, r := range m.Records {
		if r.Run == run {
			return r, true
		}
	}
	return Record{}, false
}

// Summary renders the remembered levels, oldest first.
func (m *Memory) Summary() string {
	if len(m.Records) == 0 {
		return "no observations"
	}
	parts := make([]string, 0, len(m.Records))
	for _, r := range m.Records {
		parts = append(parts, fmt.Sprintf("run %d step %d: %s (%d energy)", r.Run, r.Step, r.Level, r.Energy))
	}
	return strings.Join(parts, "; ")
}
