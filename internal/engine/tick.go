// Package engine provides the step-based simulation: the environment
// update, the robot's action handlers and the command driver.
package engine

import "log/slog"

// Clock tracks simulated time between commands. Time only moves through
// explicit command timestamps.
type Clock struct {
	Previous    int // timestamp of the last command that carried one
	ChargeUntil int // robot is busy while a command timestamp is below this
}

// Elapsed returns the number of steps between the previous timestamp and ts.
func (c *Clock) Elapsed(ts int) int {
	if ts <= c.Previous {
		return 0
	}
	return ts - c.Previous
}

// Observe records ts as the previous timestamp. A zero timestamp carries no
// time information and is ignored.
func (c *Clock) Observe(ts int) {
	if ts != 0 {
		c.Previous = ts
	}
}

// Busy reports whether the robot is still charging at ts.
func (c *Clock) Busy(ts int) bool {
	return ts < c.ChargeUntil
}

// Charge keeps the robot busy for duration steps after ts.
func (c *Clock) Charge(ts, duration int) {
	c.ChargeUntil = ts + duration
}

// Engine drives one simulation forward.
type Engine struct {
	Sim   *Simulation
	Clock Clock

	// Called after every environment step, with the step fully applied.
	OnStep func(sim *Simulation)
}

// NewEngine starts driving sim at timestamp start.
func NewEngine(sim *Simulation, start int) *Engine {
	return &Engine{
		Sim:   sim,
		Clock: Clock{Previous: start},
	}
}

// Advance runs n environment steps.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.Sim.UpdateEnvironment()
		if e.OnStep != nil {
			e.OnStep(e.Sim)
		}
	}
}

// AdvanceTo runs the steps elapsed since the previous timestamp and returns
// how many ran.
func (e *Engine) AdvanceTo(ts int) int {
	n := e.Clock.Elapsed(ts)
	if n > 0 {
		e.Advance(n)
		slog.Debug("advanced", "steps", n, "step", e.Sim.Step, "timestamp", ts)
	}
	return n
}

// Recharge adds energy and keeps the robot busy for the same number of
// steps.
func (e *Engine) Recharge(ts, amount int) {
	e.Sim.Robot.Recharge(amount)
	e.Clock.Charge(ts, amount)
}
