package watch

import (
	"strings"

	"github.com/talgya/terra-world/internal/engine"
)

// Health levels, most severe first.
const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
	LevelWatch    = "WATCH"
	LevelHealthy  = "HEALTHY"
	LevelIdle     = "IDLE"
)

// Health holds diagnostic signals derived from an observation.
type Health struct {
	Level       string   `json:"level"`
	Reasons     []string `json:"reasons,omitempty"`
	EnergyDelta int      `json:"energy_delta"` // since the oldest remembered observation
	SickShare   float64  `json:"sick_share"`
	ToxicCells  int      `json:"toxic_cells"`
	Rejections  int      `json:"rejections"` // among the observed results
	Removals    int      `json:"removals"`   // among the observed events
}

// Triage computes the health of obs. mem supplies the energy trend and may
// be nil.
func Triage(obs *Observation, mem *Memory) *Health {
	h := &Health{Level: LevelHealthy}
	if !obs.Status.Running {
		h.Level = LevelIdle
		return h
	}

	st := obs.Status.Stats
	h.ToxicCells = st.ToxicCells
	if st.Animals > 0 {
		h.SickShare = float64(st.SickAnimals) / float64(st.Animals)
	}
	for _, r := range obs.Results {
		if strings.HasPrefix(r.Message, "ERROR:") {
			h.Rejections++
		}
	}
	for _, e := range obs.Events {
		if e.Category == "removal" {
			h.Removals++
		}
	}
	if mem != nil {
		if oldest, ok := mem.OldestOfRun(obs.Status.Run); ok {
			h.EnergyDelta = obs.Robot.Energy - oldest.Energy
		}
	}

	escalate := func(level, reason string) {
		if severity(level) > severity(h.Level) {
			h.Level = level
		}
		h.Reasons = append(h.Reasons, reason)
	}

	if obs.Robot.Energy < engine.ScanCost {
		escalate(LevelCritical, "robot cannot afford a scan")
	} else if obs.Robot.Energy < engine.ImproveCost {
		escalate(LevelWarning, "robot cannot afford an improvement")
	}
	if h.SickShare > 0.5 {
		escalate(LevelCritical, "most animals are sick")
	} else if h.SickShare > 0 {
		escalate(LevelWatch, "sick animals present")
	}
	if h.ToxicCells > 0 {
		escalate(LevelWarning, "toxic air on the territory")
	}
	if len(obs.Results) > 0 && h.Rejections*2 > len(obs.Results) {
		escalate(LevelWarning, "most recent commands were rejected")
	}
	if h.EnergyDelta < 0 && obs.Robot.Energy < 2*engine.ImproveCost {
		escalate(LevelWatch, "energy falling")
	}
	return h
}

func severity(level string) int {
	switch level {
	case LevelCritical:
		return 3
	case LevelWarning:
		return 2
	case LevelWatch:
		return 1
	default:
		return 0
	}
}
