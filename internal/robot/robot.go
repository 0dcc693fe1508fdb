// Package robot holds the TerraBot controller state: position, energy,
// the inventory of scanned entities and the knowledge base of learned facts.
package robot

import (
	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

// Robot is a pure state container. Callers check energy before spending it.
type Robot struct {
	Pos    world.Coord
	Energy int

	inventory []entities.Entity
	knowledge KnowledgeBase
}

// New creates a robot at (0, 0) with the given energy budget.
func New(energy int) *Robot {
	return &Robot{Energy: energy}
}

// MoveTo relocates the robot.
func (r *Robot) MoveTo(c world.Coord) {
	r.Pos = c
}

// CanAfford reports whether the robot holds at least cost energy.
func (r *Robot) CanAfford(cost int) bool {
	return r.Energy >= cost
}

// Consume spends energy.
func (r *Robot) Consume(cost int) {
	r.Energy -= cost
}

// Recharge adds energy.
func (r *Robot) Recharge(amount int) {
	r.Energy += amount
}

// AddToInventory appends a scanned entity. Duplicates by name are allowed;
// lookups match the first entry.
func (r *Robot) AddToInventory(e entities.Entity) {
	r.inventory = append(r.inventory, e)
}

// RemoveFromInventory drops the first entity with the given name. It
// reports whether anything was removed.
func (r *Robot) RemoveFromInventory(name string) bool {
	for i, e := range r.inventory {
		if e.EntityName() == name {
			r.inventory = append(r.inventory[:i], r.inventory[i+1:]...)
			return true
		}
	}
	return false
}

// HasEntity reports whether an entity with this name is in the inventory.
func (r *Robot) HasEntity(name string) bool {
	for _, e := range r.inventory {
		if e.EntityName() == name {
			return true
		}
	}
	return false
}

// Inventory returns a copy of the inventory in insertion order.
func (r *Robot) Inventory() []entities.Entity {
	out := make([]entities.Entity, len(r.inventory))
	copy(out, r.inventory)
	return out
}

// Knowledge returns the robot's knowledge base.
func (r *Robot) Knowledge() *KnowledgeBase {
	return &r.knowledge
}

// Learn records a fact about a subject.
func (r *Robot) Learn(subject, fact string) {
	r.knowledge.Add(subject, fact)
}

// Knows reports whether the fact has been learned for the subject.
func (r *Robot) Knows(subject, fact string) bool {
	return r.knowledge.Contains(subject, fact)
}
