package api

import (
	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/robot"
	"github.com/talgya/terra-world/internal/telemetry"
)

// recentEvents is how many events a snapshot carries.
const recentEvents = 50

// Snapshot is an immutable copy of the observable state, taken between
// commands. Handlers only ever read snapshots, never the live simulation.
type Snapshot struct {
	Run       int                  `json:"run"`
	Running   bool                 `json:"running"`
	Step      int                  `json:"step"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	Robot     engine.RobotStatus   `json:"robot"`
	Env       engine.EnvConditions `json:"env"`
	Map       []engine.CellSummary `json:"map"`
	Knowledge []robot.Topic        `json:"knowledge"`
	Events    []engine.Event       `json:"events"`
	Stats     telemetry.StepStats  `json:"stats"`
}

// NewSnapshot copies the state of sim. A nil sim yields an idle snapshot
// for run.
func NewSnapshot(run int, sim *engine.Simulation) *Snapshot {
	if sim == nil {
		return &Snapshot{
			Run:       run,
			Map:       []engine.CellSummary{},
			Knowledge: []robot.Topic{},
			Events:    []engine.Event{},
		}
	}

	events := sim.Events
	if len(events) > recentEvents {
		events = events[len(events)-recentEvents:]
	}
	return &Snapshot{
		Run:       run,
		Running:   true,
		Step:      sim.Step,
		Width:     sim.Map.Width,
		Height:    sim.Map.Height,
		Robot:     sim.RobotStatus(),
		Env:       sim.EnvConditions(),
		Map:       sim.MapSummary(),
		Knowledge: sim.KnowledgeBase(),
		Events:    append(make([]engine.Event, 0, len(events)), events...),
		Stats:     telemetry.Collect(run, sim),
	}
}
