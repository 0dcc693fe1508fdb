package engine

import (
	"math"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

// moveAnimal relocates a to the best neighbouring cell and returns it, or
// nil if no neighbour qualifies.
//
// Neighbours are bucketed in priority order: scanned plant and scanned
// water, scanned plant only, scanned water only, anything else. Water
// buckets prefer the highest water quality (first wins ties); the others
// take the first neighbour in scan order. Only predators may enter an
// occupied cell, pushing the occupant into the prey slot, and never one
// that already holds a prey.
func (s *Simulation) moveAnimal(from *world.Cell, a *entities.Animal) *world.Cell {
	var both, plantOnly, waterOnly, other []*world.Cell

	for _, n := range s.Map.Neighbors(from.Coord) {
		if n.Animal != nil && (!a.IsPredator() || n.Prey != nil) {
			continue
		}
		plant, water := n.HasScannedPlant(), n.HasScannedWater()
		switch {
		case plant && water:
			both = append(both, n)
		case plant:
			plantOnly = append(plantOnly, n)
		case water:
			waterOnly = append(waterOnly, n)
		default:
			other = append(other, n)
		}
	}

	var dst *world.Cell
	switch {
	case len(both) > 0:
		dst = bestWater(both)
	case len(plantOnly) > 0:
		dst = plantOnly[0]
	case len(waterOnly) > 0:
		dst = bestWater(waterOnly)
	case len(other) > 0:
		dst = other[0]
	}
	if dst == nil {
		return nil
	}

	if dst.Animal != nil {
		dst.Prey = dst.Animal
	}
	dst.Animal = a
	from.Animal = nil
	return dst
}

// bestWater returns the first cell holding the highest-quality water.
func bestWater(cells []*world.Cell) *world.Cell {
	var best *world.Cell
	top := math.Inf(-1)
	for _, c := range cells {
		if q := c.Water.Quality(); q > top {
			top = q
			best = c
		}
	}
	return best
}
