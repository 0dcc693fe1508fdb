package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// AnimalKind enumerates the animal variants.
type AnimalKind uint8

const (
	AnimalHerbivore AnimalKind = iota
	AnimalCarnivore
	AnimalOmnivore
	AnimalDetritivore
	AnimalParasite
	numAnimalKinds
)

// AnimalState is the behavioural state after feeding.
type AnimalState uint8

const (
	StateHungry AnimalState = iota
	StateWellFed
	StateSick
)

// String returns the state name.
func (s AnimalState) String() string {
	switch s {
	case StateHungry:
		return "hungry"
	case StateWellFed:
		return "well_fed"
	case StateSick:
		return "sick"
	default:
		return "unknown"
	}
}

// Fertilizer amounts produced by a successful meal.
const (
	FertilizerMedium = 0.5
	FertilizerHigh   = 0.8
)

// MovementInterval is how many rounds since scanning pass between moves.
const MovementInterval = 2

type animalProfile struct {
	tag         string
	attackIndex float64 // percent
	predator    bool    // carnivore or parasite
}

var animalProfiles = [numAnimalKinds]animalProfile{
	AnimalHerbivore:   {tag: "Herbivores", attackIndex: 85},
	AnimalCarnivore:   {tag: "Carnivores", attackIndex: 30, predator: true},
	AnimalOmnivore:    {tag: "Omnivores", attackIndex: 60},
	AnimalDetritivore: {tag: "Detritivores", attackIndex: 90},
	AnimalParasite:    {tag: "Parasites", attackIndex: 10, predator: true},
}

// Animal feeds, fertilizes and moves once scanned.
type Animal struct {
	// ID is stable for the animal's lifetime and survives relocation.
	ID    uuid.UUID
	Kind  AnimalKind
	Name  string
	Mass  float64
	State AnimalState

	Scanned            bool
	Fertilizer         float64
	RoundsSinceScanned int

	// Processed guards against a second turn within the same step after
	// the animal has moved into a cell that is visited later.
	Processed bool
}

// animalNamespace seeds deterministic animal identifiers.
var animalNamespace = uuid.MustParse("5c0b3c9e-7a55-4f0e-9d1c-2f8a6c1e4b70")

// AnimalID derives a stable identifier from the animal's name and its
// initial placement, so the same input always yields the same IDs.
func AnimalID(name string, x, y int) uuid.UUID {
	return uuid.NewSHA1(animalNamespace, []byte(fmt.Sprintf("%s@%d,%d", name, x, y)))
}

// ParseAnimalKind maps an input type tag such as "Herbivores" to its kind.
func ParseAnimalKind(tag string) (AnimalKind, error) {
	for k := AnimalKind(0); k < numAnimalKinds; k++ {
		if animalProfiles[k].tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown animal type %q", tag)
}

// String returns the input type tag.
func (k AnimalKind) String() string {
	if k >= numAnimalKinds {
		return "UnknownAnimal"
	}
	return animalProfiles[k].tag
}

func (a *Animal) EntityName() string { return a.Name }
func (a *Animal) Family() Family     { return FamilyAnimal }

// IsPredator reports whether the animal is a carnivore or a parasite.
// Predators eat other animals and may move onto occupied cells.
func (a *Animal) IsPredator() bool {
	return animalProfiles[a.Kind].predator
}

// Probability is the animal's blocking score for robot movement.
func (a *Animal) Probability() float64 {
	return (maxPercentage - animalProfiles[a.Kind].attackIndex) / 10
}

// Scan marks the animal as discovered by the robot.
func (a *Animal) Scan() {
	a.Scanned = true
}

// Eaten marks the animal as consumed by a predator.
func (a *Animal) Eaten() {
	a.Mass = 0
}

// IsDead reports whether the animal has no mass left.
func (a *Animal) IsDead() bool {
	return a.Mass <= 0
}

// SetSick marks the animal as sick, usually from toxic air.
func (a *Animal) SetSick() {
	a.State = StateSick
}

// Age counts one more round since scanning.
func (a *Animal) Age() {
	if a.Scanned {
		a.RoundsSinceScanned++
	}
}

// ShouldMove reports whether this round is a movement round.
func (a *Animal) ShouldMove() bool {
	return a.RoundsSinceScanned > 0 && a.RoundsSinceScanned%MovementInterval == 0
}

// ResetFertilizer clears the fertilizer once it reached the soil.
func (a *Animal) ResetFertilizer() {
	a.Fertilizer = 0
}
