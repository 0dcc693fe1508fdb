package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/terra-world/internal/scenario"
)

// Result is the outcome of one command. Exactly one of Message and Output
// is set; Timestamp is omitted when the command carried none.
type Result struct {
	Command   string `json:"command"`
	Message   string `json:"message,omitempty"`
	Output    any    `json:"output,omitempty"`
	Timestamp int    `json:"timestamp,omitempty"`
}

// Driver feeds the command list to the simulations of an input, starting
// them in order.
type Driver struct {
	in     *scenario.Input
	next   int // index of the next simulation to start
	engine *Engine

	// Hooks observe progress. run is the 1-based simulation number; sim is
	// nil in OnResult when no simulation is running.
	OnStart  func(run int, sim *Simulation)
	OnStep   func(run int, sim *Simulation)
	OnResult func(run int, r Result, sim *Simulation)
	OnEnd    func(run int, sim *Simulation)
}

// NewDriver creates a driver for the input.
func NewDriver(in *scenario.Input) *Driver {
	return &Driver{in: in}
}

// Simulation returns the running simulation, or nil.
func (d *Driver) Simulation() *Simulation {
	if d.engine == nil {
		return nil
	}
	return d.engine.Sim
}

// Run executes every command in order. It stops early only when ctx is
// cancelled; rejected commands are reported in their results.
func (d *Driver) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(d.in.Commands))
	for _, cmd := range d.in.Commands {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, d.Execute(cmd))
	}
	return results, nil
}

// Execute runs one command to completion.
func (d *Driver) Execute(cmd scenario.CommandInput) Result {
	r := Result{Command: cmd.Command}

	msg, out, err := d.dispatch(cmd)
	switch {
	case err == nil:
		r.Message, r.Output = msg, out
		slog.Info("command", "command", cmd.Command, "timestamp", cmd.Timestamp, "message", msg)
	case IsRejection(err):
		r.Message = Message(err)
		slog.Info("command rejected", "command", cmd.Command, "timestamp", cmd.Timestamp, "error", err)
	default:
		r.Message = Message(err)
		slog.Error("command failed", "command", cmd.Command, "timestamp", cmd.Timestamp, "error", err)
	}

	if cmd.Timestamp != 0 {
		r.Timestamp = cmd.Timestamp
		if d.engine != nil {
			d.engine.Clock.Observe(cmd.Timestamp)
		}
	}

	if d.OnResult != nil {
		d.OnResult(d.next, r, d.Simulation())
	}
	return r
}

func (d *Driver) dispatch(cmd scenario.CommandInput) (string, any, error) {
	switch cmd.Command {
	case "startSimulation":
		return d.start(cmd.Timestamp)
	case "endSimulation":
		if d.engine == nil {
			return "", nil, ErrNotStarted
		}
		if d.OnEnd != nil {
			d.OnEnd(d.next, d.engine.Sim)
		}
		d.engine = nil
		return MsgEnded, nil, nil
	}

	e := d.engine
	if e == nil {
		return "", nil, ErrNotStarted
	}
	ts := cmd.Timestamp
	e.AdvanceTo(ts)
	if e.Clock.Busy(ts) {
		return "", nil, ErrCharging
	}
	sim := e.Sim

	switch cmd.Command {
	case "printEnvConditions":
		return "", sim.EnvConditions(), nil
	case "printMap":
		return "", sim.MapSummary(), nil
	case "printKnowledgeBase":
		return "", sim.KnowledgeBase(), nil
	case "getEnergyStatus":
		return sim.EnergyStatus(), nil, nil
	case "rechargeBattery":
		e.Recharge(ts, cmd.TimeToCharge)
		return MsgCharging, nil, nil
	case "moveRobot":
		msg, err := sim.MoveRobot()
		return msg, nil, err
	case "scanObject":
		msg, err := sim.Scan(cmd.Senses())
		return msg, nil, err
	case "learnFact":
		msg, err := sim.LearnFact(cmd.Components, cmd.Subject)
		return msg, nil, err
	case "improveEnvironment":
		msg, err := sim.Improve(cmd.ImprovementType, cmd.Name)
		return msg, nil, err
	case "changeWeatherConditions":
		msg, err := sim.ChangeWeather(cmd.Weather())
		return msg, nil, err
	default:
		return "", nil, fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Command)
	}
}

func (d *Driver) start(ts int) (string, any, error) {
	if d.engine != nil {
		return "", nil, ErrAlreadyStarted
	}
	if d.next >= len(d.in.Simulations) {
		return "", nil, ErrNoSimulationLeft
	}
	sim, err := New(d.in.Simulations[d.next])
	if err != nil {
		return "", nil, fmt.Errorf("start simulation %d: %w", d.next+1, err)
	}
	d.next++
	run := d.next

	d.engine = NewEngine(sim, ts)
	d.engine.OnStep = func(sim *Simulation) {
		if d.OnStep != nil {
			d.OnStep(run, sim)
		}
	}
	if d.OnStart != nil {
		d.OnStart(run, sim)
	}
	slog.Info("simulation started", "run", run, "cells", sim.Map.CellCount(), "energy", sim.Robot.Energy)
	return MsgStarted, nil, nil
}
