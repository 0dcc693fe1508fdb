package engine

import (
	"math"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

// WaterIntakeRate is the share of its own mass an animal drinks per meal.
const WaterIntakeRate = 0.08

// feed runs one meal for a at its cell and returns the prey it ate, if any.
//
// A predator eats a live prey sharing its cell and skips plants and water.
// Otherwise the animal eats a scanned living plant and drinks from scanned
// non-empty water, in whichever combination is available. An animal that
// found nothing turns hungry; a sick animal never produces fertilizer.
func feed(c *world.Cell, a *entities.Animal) *entities.Animal {
	fed := false
	var eaten *entities.Animal

	if a.IsPredator() && c.Prey != nil && c.Prey != a && !c.Prey.IsDead() {
		a.Mass += c.Prey.Mass
		c.Prey.Eaten()
		a.Fertilizer = entities.FertilizerMedium
		eaten, fed = c.Prey, true
	}

	if !fed {
		plant, water := c.Plant, c.Water
		plantOK := plant != nil && plant.Level != entities.MaturityDead && plant.Scanned
		waterOK := water != nil && !water.IsEmpty() && water.Scanned

		switch {
		case plantOK && waterOK:
			a.Mass += plant.Mass
			plant.Eaten()
			drink(a, water)
			a.Fertilizer = entities.FertilizerHigh
			fed = true
		case plantOK:
			a.Mass += plant.Mass
			plant.Eaten()
			a.Fertilizer = entities.FertilizerMedium
			fed = true
		case waterOK:
			drink(a, water)
			a.Fertilizer = entities.FertilizerMedium
			fed = true
		}
	}

	if fed {
		if a.State != entities.StateSick {
			a.State = entities.StateWellFed
		}
	} else {
		a.State = entities.StateHungry
		a.Fertilizer = 0
	}
	if a.State == entities.StateSick {
		a.Fertilizer = 0
	}
	return eaten
}

// drink moves min(mass × intake rate, available water) from w into a.
func drink(a *entities.Animal, w *entities.Water) {
	amount := math.Min(a.Mass*WaterIntakeRate, w.Mass)
	a.Mass += amount
	w.DecreaseMass(amount)
}
