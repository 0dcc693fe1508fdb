package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/terra-world/internal/world"
)

// Per-step interaction amounts.
const (
	HumidityGain  = 0.1 // scanned water → air humidity, even steps only
	RetentionGain = 0.1 // scanned water → soil water retention, even steps only
	PlantGrowth   = 0.2 // per co-present soil or water
)

// UpdateEnvironment advances the world by exactly one step in two full
// passes: the effect pass visits every cell once, then the reset pass
// clears every animal's processed guard.
func (s *Simulation) UpdateEnvironment() {
	s.Step++
	moved := make(map[uuid.UUID]bool)

	s.Map.Each(func(c *world.Cell) {
		s.updateCell(c, moved)
	})

	s.Map.Each(func(c *world.Cell) {
		if c.Animal != nil {
			c.Animal.Processed = false
		}
		if c.Prey != nil {
			c.Prey.Processed = false
		}
	})

	slog.Debug("environment step", "step", s.Step, "moved", len(moved))
}

// updateCell runs the effect pass for one cell.
func (s *Simulation) updateCell(c *world.Cell, moved map[uuid.UUID]bool) {
	if c.Air != nil {
		c.Air.DecayWeather()
	}
	s.cleanup(c)

	air, soil, water, plant := c.Air, c.Soil, c.Water, c.Plant

	if water != nil && water.Scanned && s.Step%2 == 0 {
		if air != nil {
			air.AddHumidity(HumidityGain)
		}
		if soil != nil {
			soil.AddWaterRetention(RetentionGain)
		}
	}

	if plant != nil && plant.Scanned {
		if soil != nil {
			plant.Grow(PlantGrowth)
		}
		if water != nil {
			plant.Grow(PlantGrowth)
		}
		if air != nil {
			air.AddOxygen(plant.Oxygen())
		}
	}

	a := c.Animal
	if a == nil || !a.Scanned || a.Processed {
		return
	}
	a.Age()
	a.Processed = true
	if moved[a.ID] {
		return
	}

	if air != nil && air.IsToxic() {
		a.SetSick()
	}
	if prey := feed(c, a); prey != nil {
		s.EmitEvent(Event{
			Step:        s.Step,
			Description: fmt.Sprintf("%s ate %s at (%d, %d)", a.Name, prey.Name, c.Coord.X, c.Coord.Y),
			Category:    "predation",
		})
	}
	if a.Fertilizer > 0 && soil != nil {
		soil.AddOrganicMatter(a.Fertilizer)
		a.ResetFertilizer()
	}
	if a.ShouldMove() && !a.IsDead() {
		if dst := s.moveAnimal(c, a); dst != nil {
			moved[a.ID] = true
			s.EmitEvent(Event{
				Step:        s.Step,
				Description: fmt.Sprintf("%s moved to (%d, %d)", a.Name, dst.Coord.X, dst.Coord.Y),
				Category:    "movement",
			})
		}
	}
}

// cleanup removes entities whose state already marks them gone. A prey
// that outlived its captor takes the free animal slot back.
func (s *Simulation) cleanup(c *world.Cell) {
	if c.Plant != nil && c.Plant.IsDead() {
		s.removed(c, c.Plant.Name)
		c.Plant = nil
	}
	if c.Water != nil && c.Water.Mass <= 0 {
		s.removed(c, c.Water.Name)
		c.Water = nil
	}
	if c.Animal != nil && c.Animal.IsDead() {
		s.removed(c, c.Animal.Name)
		c.Animal = nil
	}
	if c.Prey != nil && c.Prey.IsDead() {
		s.removed(c, c.Prey.Name)
		c.Prey = nil
	}
	if c.Animal == nil && c.Prey != nil {
		c.Animal, c.Prey = c.Prey, nil
	}
}

func (s *Simulation) removed(c *world.Cell, name string) {
	s.EmitEvent(Event{
		Step:        s.Step,
		Description: fmt.Sprintf("%s removed from (%d, %d)", name, c.Coord.X, c.Coord.Y),
		Category:    "removal",
	})
}
