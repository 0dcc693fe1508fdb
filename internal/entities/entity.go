// Package entities provides the five entity families that populate a grid
// cell: air, soil, water, plants and animals. Each family is a single struct
// carrying a variant tag; the per-variant formulas live in fixed-size profile
// tables indexed by that tag.
package entities

import "math"

// Entity is anything the robot can scan and carry in its inventory.
type Entity interface {
	EntityName() string
	Family() Family
}

// Family identifies which cell slot an entity occupies.
type Family uint8

const (
	FamilyAir Family = iota
	FamilySoil
	FamilyWater
	FamilyPlant
	FamilyAnimal
)

// String returns the family name as it appears in environment reports.
func (f Family) String() string {
	switch f {
	case FamilyAir:
		return "air"
	case FamilySoil:
		return "soil"
	case FamilyWater:
		return "water"
	case FamilyPlant:
		return "plants"
	case FamilyAnimal:
		return "animals"
	default:
		return "unknown"
	}
}

// Quality tier boundaries shared by air and soil.
const (
	minModerateQuality = 40.0
	minGoodQuality     = 70.0
	maxPercentage      = 100.0
)

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Clamp100 clamps a score into [0, 100].
func Clamp100(v float64) float64 {
	return math.Max(0, math.Min(maxPercentage, v))
}

// QualityTier interprets a 0–100 score as "poor", "moderate" or "good".
// The boundaries 40 and 70 are both moderate.
func QualityTier(score float64) string {
	if score < minModerateQuality {
		return "poor"
	}
	if score > minGoodQuality {
		return "good"
	}
	return "moderate"
}
