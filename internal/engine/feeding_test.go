package engine

import (
	"testing"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

func TestFeed(t *testing.T) {
	plant := func() *entities.Plant {
		return &entities.Plant{Kind: entities.PlantFern, Name: "Fern", Mass: 5, Scanned: true}
	}
	water := func(mass float64) *entities.Water {
		return &entities.Water{Name: "Pond", Mass: mass, Scanned: true}
	}

	tests := []struct {
		name      string
		kind      entities.AnimalKind
		sick      bool
		cell      func(c *world.Cell)
		wantMass  float64
		wantWater float64 // -1 when the cell has no water
		wantFert  float64
		wantState entities.AnimalState
		wantPrey  bool
	}{
		{
			name:      "plant and water",
			kind:      entities.AnimalHerbivore,
			cell:      func(c *world.Cell) { c.Plant, c.Water = plant(), water(100) },
			wantMass:  15 + 15*WaterIntakeRate,
			wantWater: 100 - 15*WaterIntakeRate,
			wantFert:  entities.FertilizerHigh,
			wantState: entities.StateWellFed,
		},
		{
			name:      "plant only",
			kind:      entities.AnimalOmnivore,
			cell:      func(c *world.Cell) { c.Plant = plant() },
			wantMass:  15,
			wantWater: -1,
			wantFert:  entities.FertilizerMedium,
			wantState: entities.StateWellFed,
		},
		{
			name:      "water only",
			kind:      entities.AnimalDetritivore,
			cell:      func(c *world.Cell) { c.Water = water(100) },
			wantMass:  10 + 10*WaterIntakeRate,
			wantWater: 100 - 10*WaterIntakeRate,
			wantFert:  entities.FertilizerMedium,
			wantState: entities.StateWellFed,
		},
		{
			name:      "water runs out",
			kind:      entities.AnimalHerbivore,
			cell:      func(c *world.Cell) { c.Water = water(0.5) },
			wantMass:  10.5,
			wantWater: 0,
			wantFert:  entities.FertilizerMedium,
			wantState: entities.StateWellFed,
		},
		{
			name:      "unscanned food",
			kind:      entities.AnimalHerbivore,
			cell:      func(c *world.Cell) { c.Plant = &entities.Plant{Mass: 5}; c.Water = &entities.Water{Mass: 5} },
			wantMass:  10,
			wantWater: 5,
			wantFert:  0,
			wantState: entities.StateHungry,
		},
		{
			name: "dead plant",
			kind: entities.AnimalHerbivore,
			cell: func(c *world.Cell) {
				c.Plant = &entities.Plant{Mass: 5, Scanned: true, Level: entities.MaturityDead}
			},
			wantMass:  10,
			wantWater: -1,
			wantFert:  0,
			wantState: entities.StateHungry,
		},
		{
			name:      "sick animal eats without fertilizing",
			kind:      entities.AnimalHerbivore,
			sick:      true,
			cell:      func(c *world.Cell) { c.Plant = plant() },
			wantMass:  15,
			wantWater: -1,
			wantFert:  0,
			wantState: entities.StateSick,
		},
		{
			name: "predator eats prey first",
			kind: entities.AnimalCarnivore,
			cell: func(c *world.Cell) {
				c.Plant = plant()
				c.Prey = &entities.Animal{Kind: entities.AnimalHerbivore, Name: "Hare", Mass: 4}
			},
			wantMass:  14,
			wantWater: -1,
			wantFert:  entities.FertilizerMedium,
			wantState: entities.StateWellFed,
			wantPrey:  true,
		},
		{
			name: "herbivore ignores prey",
			kind: entities.AnimalHerbivore,
			cell: func(c *world.Cell) {
				c.Plant = plant()
				c.Prey = &entities.Animal{Kind: entities.AnimalHerbivore, Name: "Hare", Mass: 4}
			},
			wantMass:  15,
			wantWater: -1,
			wantFert:  entities.FertilizerMedium,
			wantState: entities.StateWellFed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &world.Cell{}
			tt.cell(c)
			a := scannedAnimal(tt.kind, "Eater", 10)
			if tt.sick {
				a.SetSick()
			}
			c.Animal = a

			prey := feed(c, a)

			if !approx(a.Mass, tt.wantMass) {
				t.Errorf("mass = %v, want %v", a.Mass, tt.wantMass)
			}
			if tt.wantWater >= 0 && !approx(c.Water.Mass, tt.wantWater) {
				t.Errorf("water = %v, want %v", c.Water.Mass, tt.wantWater)
			}
			if a.Fertilizer != tt.wantFert {
				t.Errorf("fertilizer = %v, want %v", a.Fertilizer, tt.wantFert)
			}
			if a.State != tt.wantState {
				t.Errorf("state = %v, want %v", a.State, tt.wantState)
			}
			if (prey != nil) != tt.wantPrey {
				t.Errorf("prey eaten = %v, want %v", prey != nil, tt.wantPrey)
			}
			if prey != nil && !prey.IsDead() {
				t.Error("eaten prey must be dead")
			}
		})
	}
}
