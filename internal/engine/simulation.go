// Simulation ties the grid and the robot together and advances the world.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/terra-world/internal/robot"
	"github.com/talgya/terra-world/internal/scenario"
	"github.com/talgya/terra-world/internal/world"
)

// maxEvents bounds the recent-event buffer.
const maxEvents = 1000

// Simulation holds the complete state of one territory run.
type Simulation struct {
	Map   *world.Map
	Robot *robot.Robot

	// Step counts environment updates since the simulation started.
	Step int

	Events []Event // most recent last, trimmed to maxEvents
}

// Event is a notable occurrence during an environment step.
type Event struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Category    string `json:"category"` // "predation", "movement", "removal"
}

// New builds a simulation from its input record. Entities are placed in
// family order soil, plants, animals, water, air; every section gets its
// own instance and a later placement replaces an earlier one.
func New(in scenario.SimulationInput) (*Simulation, error) {
	height, width, err := scenario.ParseDim(in.TerritoryDim)
	if err != nil {
		return nil, err
	}
	m := world.NewMap(width, height)

	cellAt := func(family, name string, sec scenario.Section) (*world.Cell, error) {
		c := m.At(sec.X, sec.Y)
		if c == nil {
			return nil, fmt.Errorf("%s %q: no cell at (%d, %d)", family, name, sec.X, sec.Y)
		}
		return c, nil
	}

	p := in.SectionParams
	for _, si := range p.Soil {
		for _, sec := range si.Sections {
			c, err := cellAt("soil", si.Name, sec)
			if err != nil {
				return nil, err
			}
			if c.Soil, err = si.Build(); err != nil {
				return nil, err
			}
		}
	}
	for _, pi := range p.Plants {
		for _, sec := range pi.Sections {
			c, err := cellAt("plant", pi.Name, sec)
			if err != nil {
				return nil, err
			}
			if c.Plant, err = pi.Build(); err != nil {
				return nil, err
			}
		}
	}
	for _, ai := range p.Animals {
		for _, sec := range ai.Sections {
			c, err := cellAt("animal", ai.Name, sec)
			if err != nil {
				return nil, err
			}
			if c.Animal, err = ai.Build(sec); err != nil {
				return nil, err
			}
		}
	}
	for _, wi := range p.Water {
		for _, sec := range wi.Sections {
			c, err := cellAt("water", wi.Name, sec)
			if err != nil {
				return nil, err
			}
			c.Water = wi.Build()
		}
	}
	for _, ai := range p.Air {
		for _, sec := range ai.Sections {
			c, err := cellAt("air", ai.Name, sec)
			if err != nil {
				return nil, err
			}
			if c.Air, err = ai.Build(); err != nil {
				return nil, err
			}
		}
	}

	slog.Debug("simulation created", "dim", in.TerritoryDim, "energy", in.EnergyPoints, "cells", m.CellCount())
	return &Simulation{
		Map:   m,
		Robot: robot.New(in.EnergyPoints),
	}, nil
}

// EmitEvent records an event, dropping the oldest beyond maxEvents.
func (s *Simulation) EmitEvent(e Event) {
	s.Events = append(s.Events, e)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// RobotCell returns the cell the robot stands on.
func (s *Simulation) RobotCell() *world.Cell {
	return s.Map.Get(s.Robot.Pos)
}

// EventsAt returns the buffered events emitted during step, oldest first.
func (s *Simulation) EventsAt(step int) []Event {
	i := len(s.Events)
	for i > 0 && s.Events[i-1].Step >= step {
		i--
	}
	j := i
	for j < len(s.Events) && s.Events[j].Step == step {
		j++
	}
	return s.Events[i:j]
}
