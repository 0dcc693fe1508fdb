// Package world provides the rectangular grid of cells and the territory
// generator.
package world

import "github.com/talgya/terra-world/internal/entities"

// Coord is a position on the grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Directions are the four orthogonal offsets in scan priority order.
var Directions = [4]Coord{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}

// Cell holds at most one entity of each family. Coordinates never change.
type Cell struct {
	Coord Coord

	Air    *entities.Air
	Soil   *entities.Soil
	Water  *entities.Water
	Plant  *entities.Plant
	Animal *entities.Animal

	// Prey is an animal displaced by a predator that moved onto this cell.
	// It stays here until the predator eats it.
	Prey *entities.Animal
}

// ObjectCount counts the optional occupants: plant, water and animals.
func (c *Cell) ObjectCount() int {
	n := 0
	if c.Plant != nil {
		n++
	}
	if c.Water != nil {
		n++
	}
	if c.Animal != nil {
		n++
	}
	if c.Prey != nil {
		n++
	}
	return n
}

// IsEmpty reports whether the cell holds no entity at all.
func (c *Cell) IsEmpty() bool {
	return c.Air == nil && c.Soil == nil && c.Water == nil &&
		c.Plant == nil && c.Animal == nil && c.Prey == nil
}

// HasScannedPlant reports whether a scanned plant grows here.
func (c *Cell) HasScannedPlant() bool {
	return c.Plant != nil && c.Plant.Scanned
}

// HasScannedWater reports whether scanned water lies here.
func (c *Cell) HasScannedWater() bool {
	return c.Water != nil && c.Water.Scanned
}
