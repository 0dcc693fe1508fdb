package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/weather"
	"github.com/talgya/terra-world/internal/world"
)

// Energy costs per action.
const (
	ScanCost    = 7
	LearnCost   = 2
	ImproveCost = 10
)

// Improvement bonuses.
const (
	OxygenBonus   = 0.3
	OrganicBonus  = 0.3
	HumidityBonus = 0.2
	MoistureBonus = 0.2
)

// ScanTarget is what a scan with the given sensory flags looks for.
func ScanTarget(color, smell, sound string) entities.Family {
	switch {
	case color == "none" && smell == "none" && sound == "none":
		return entities.FamilyWater
	case sound == "none":
		return entities.FamilyPlant
	default:
		return entities.FamilyAnimal
	}
}

// Scan discovers the entity matching the sensory flags in the robot's cell,
// marks it scanned and stores it in the inventory.
func (s *Simulation) Scan(color, smell, sound string) (string, error) {
	if !s.Robot.CanAfford(ScanCost) {
		return "", ErrScanNoEnergy
	}
	c := s.RobotCell()

	var (
		found entities.Entity
		what  string
	)
	switch ScanTarget(color, smell, sound) {
	case entities.FamilyWater:
		if c.Water != nil {
			c.Water.Scan()
			found, what = c.Water, "water."
		}
	case entities.FamilyPlant:
		if c.Plant != nil {
			c.Plant.Scan()
			found, what = c.Plant, "a plant."
		}
	default:
		if c.Animal != nil {
			c.Animal.Scan()
			found, what = c.Animal, "an animal."
		}
	}
	if found == nil {
		return "", ErrObjectNotFound
	}

	s.Robot.Consume(ScanCost)
	s.Robot.AddToInventory(found)
	slog.Debug("scan", "entity", found.EntityName(), "family", found.Family(), "energy", s.Robot.Energy)
	return "The scanned object is " + what, nil
}

// LearnFact records a fact about an entity held in the inventory.
func (s *Simulation) LearnFact(subject, fact string) (string, error) {
	if !s.Robot.CanAfford(LearnCost) {
		return "", ErrNotEnoughEnergy
	}
	if !s.Robot.HasEntity(subject) {
		return "", ErrSubjectNotSaved
	}
	s.Robot.Consume(LearnCost)
	s.Robot.Learn(subject, fact)
	return MsgFactSaved, nil
}

// improvement describes one improveEnvironment type.
type improvement struct {
	fact  func(name string) string
	apply func(c *world.Cell, name string) (string, bool)
}

var improvements = map[string]improvement{
	"plantVegetation": {
		fact: func(n string) string { return "Method to plant " + n },
		apply: func(c *world.Cell, n string) (string, bool) {
			if c.Air == nil {
				return "", false
			}
			c.Air.AddOxygen(OxygenBonus)
			return "The " + n + " was planted successfully.", true
		},
	},
	"fertilizeSoil": {
		fact: func(n string) string { return "Method to fertilize with " + n },
		apply: func(c *world.Cell, n string) (string, bool) {
			if c.Soil == nil {
				return "", false
			}
			c.Soil.AddOrganicMatter(OrganicBonus)
			return "The soil was successfully fertilized using " + n, true
		},
	},
	"increaseHumidity": {
		fact: func(string) string { return "Method to increase humidity" },
		apply: func(c *world.Cell, n string) (string, bool) {
			if c.Air == nil {
				return "", false
			}
			c.Air.AddHumidity(HumidityBonus)
			return "The humidity was successfully increased using " + n, true
		},
	},
	"increaseMoisture": {
		fact: func(string) string { return "Method to increaseMoisture" },
		apply: func(c *world.Cell, n string) (string, bool) {
			if c.Soil == nil {
				return "", false
			}
			c.Soil.AddWaterRetention(MoistureBonus)
			return "The moisture was successfully increased using " + n, true
		},
	},
}

// ImprovementFact returns the fact an improvement of this type with the
// named item requires, and whether the type is known.
func ImprovementFact(kind, name string) (string, bool) {
	imp, ok := improvements[kind]
	if !ok {
		return "", false
	}
	return imp.fact(name), true
}

// Improve uses an inventory item to improve the robot's cell. The item must
// be known together with the method the improvement type requires; on
// success it is used up.
func (s *Simulation) Improve(kind, name string) (string, error) {
	if !s.Robot.CanAfford(ImproveCost) {
		return "", ErrNotEnoughEnergy
	}
	fact, known := ImprovementFact(kind, name)
	if !s.Robot.HasEntity(name) {
		return "", ErrSubjectNotSaved
	}
	if !known || !s.Robot.Knows(name, fact) {
		return "", ErrFactNotSaved
	}

	msg, ok := improvements[kind].apply(s.RobotCell(), name)
	if !ok {
		return "", ErrNoEffect
	}
	s.Robot.Consume(ImproveCost)
	s.Robot.RemoveFromInventory(name)
	slog.Debug("improvement", "type", kind, "item", name, "energy", s.Robot.Energy)
	return msg, nil
}

// ChangeWeather applies the event to every air it affects for
// weather.EffectDuration steps.
func (s *Simulation) ChangeWeather(ev weather.Event) (string, error) {
	if ev.IsZero() {
		return "", ErrNoWeatherEffect
	}
	changed := 0
	s.Map.Each(func(c *world.Cell) {
		if c.Air == nil {
			return
		}
		if d := c.Air.WeatherDelta(ev); d != 0 {
			c.Air.SetWeather(d, weather.EffectDuration)
			changed++
		}
	})
	if changed == 0 {
		return "", ErrNoWeatherEffect
	}
	slog.Debug("weather changed", "event", ev.Describe(), "cells", changed)
	return MsgWeatherChanged, nil
}

// MoveCost is the robot's cost of entering c: the mean of the absolute
// blocking scores of its soil, air toxicity, plant and animal, rounded half
// up. A cell with none of them cannot be entered.
func MoveCost(c *world.Cell) (int, bool) {
	var scores []float64
	if c.Soil != nil {
		scores = append(scores, c.Soil.Probability())
	}
	if c.Air != nil {
		scores = append(scores, c.Air.Toxicity())
	}
	if c.Plant != nil {
		scores = append(scores, c.Plant.Probability())
	}
	if c.Animal != nil {
		scores = append(scores, c.Animal.Probability())
	}
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range scores {
		sum += math.Abs(v)
	}
	return int(math.Floor(sum/float64(len(scores)) + 0.5)), true
}

// MoveRobot moves the robot to the cheapest neighbouring cell, the first in
// scan order on ties.
func (s *Simulation) MoveRobot() (string, error) {
	var (
		dst  *world.Cell
		cost int
	)
	for _, n := range s.Map.Neighbors(s.Robot.Pos) {
		c, ok := MoveCost(n)
		if !ok {
			continue
		}
		if dst == nil || c < cost {
			dst, cost = n, c
		}
	}
	if dst == nil {
		return "", ErrNoReachableCell
	}
	if !s.Robot.CanAfford(cost) {
		return "", ErrNotEnoughEnergy
	}
	s.Robot.MoveTo(dst.Coord)
	s.Robot.Consume(cost)
	return fmt.Sprintf("The robot has successfully moved to position (%d, %d).", dst.Coord.X, dst.Coord.Y), nil
}

// EnergyStatus reports the robot's energy.
func (s *Simulation) EnergyStatus() string {
	return fmt.Sprintf("TerraBot has %d energy points left.", s.Robot.Energy)
}
