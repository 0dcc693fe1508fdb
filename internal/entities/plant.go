package entities

import "fmt"

// PlantKind enumerates the plant variants.
type PlantKind uint8

const (
	PlantFlowering PlantKind = iota
	PlantGymnosperm
	PlantFern
	PlantMoss
	PlantAlgae
	numPlantKinds
)

// Maturity is the plant lifecycle stage. Stages only move forward and Dead
// is terminal.
type Maturity uint8

const (
	MaturityYoung Maturity = iota
	MaturityMature
	MaturityOld
	MaturityDead
)

// GrowthThreshold is the accumulator value that advances maturity one level.
const GrowthThreshold = 1.0

// String returns the maturity name.
func (m Maturity) String() string {
	switch m {
	case MaturityYoung:
		return "young"
	case MaturityMature:
		return "mature"
	case MaturityOld:
		return "old"
	default:
		return "dead"
	}
}

// oxygenBonus is the extra oxygen a plant releases at each maturity level.
func (m Maturity) oxygenBonus() float64 {
	switch m {
	case MaturityYoung:
		return 0.2
	case MaturityMature:
		return 0.7
	case MaturityOld:
		return 0.4
	default:
		return 0
	}
}

type plantProfile struct {
	tag         string
	baseOxygen  float64
	probability float64 // percent, reported as a fraction
}

var plantProfiles = [numPlantKinds]plantProfile{
	PlantFlowering:  {tag: "FloweringPlants", baseOxygen: 6.0, probability: 90},
	PlantGymnosperm: {tag: "GymnospermsPlants", baseOxygen: 0.0, probability: 60},
	PlantFern:       {tag: "Ferns", baseOxygen: 0.0, probability: 30},
	PlantMoss:       {tag: "Mosses", baseOxygen: 0.8, probability: 40},
	PlantAlgae:      {tag: "Algae", baseOxygen: 0.5, probability: 20},
}

// Plant grows through maturity levels while scanned and fed by soil or
// water, and releases oxygen into the cell's air.
type Plant struct {
	Kind    PlantKind
	Name    string
	Mass    float64
	Level   Maturity
	Growth  float64
	Scanned bool
}

// ParsePlantKind maps an input type tag such as "Algae" to its kind.
func ParsePlantKind(tag string) (PlantKind, error) {
	for k := PlantKind(0); k < numPlantKinds; k++ {
		if plantProfiles[k].tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown plant type %q", tag)
}

// String returns the input type tag.
func (k PlantKind) String() string {
	if k >= numPlantKinds {
		return "UnknownPlant"
	}
	return plantProfiles[k].tag
}

func (p *Plant) EntityName() string { return p.Name }
func (p *Plant) Family() Family     { return FamilyPlant }

// Scan marks the plant as discovered by the robot.
func (p *Plant) Scan() {
	p.Scanned = true
}

// BaseOxygen is the variant's fixed oxygen output.
func (p *Plant) BaseOxygen() float64 {
	return plantProfiles[p.Kind].baseOxygen
}

// Oxygen is the total oxygen released this step: base output plus the
// maturity bonus. Dead plants release nothing.
func (p *Plant) Oxygen() float64 {
	if p.Level == MaturityDead {
		return 0
	}
	return p.BaseOxygen() + p.Level.oxygenBonus()
}

// Probability is the likelihood of the robot getting stuck in this plant.
func (p *Plant) Probability() float64 {
	return plantProfiles[p.Kind].probability / maxPercentage
}

// Grow adds to the growth accumulator, advancing maturity when it reaches
// the threshold. A dead plant does not grow.
func (p *Plant) Grow(amount float64) {
	if p.Level == MaturityDead {
		return
	}
	p.Growth += amount
	if p.Growth >= GrowthThreshold {
		p.NextMaturity()
	}
}

// NextMaturity advances one level and resets the accumulator.
func (p *Plant) NextMaturity() {
	if p.Level < MaturityDead {
		p.Level++
	}
	p.Growth = 0
}

// Eaten marks the plant as consumed.
func (p *Plant) Eaten() {
	p.Mass = 0
}

// IsDead reports whether the plant died of age or was eaten.
func (p *Plant) IsDead() bool {
	return p.Level == MaturityDead || p.Mass <= 0
}
