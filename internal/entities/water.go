package entities

import "math"

// Water quality normalization constants.
const (
	neutralPH    = 7.5
	maxSalinity  = 350.0
	maxTurbidity = 100.0
	maxPollution = 100.0
)

// Water is a consumable body of water. It is removed from its cell once its
// mass reaches zero.
type Water struct {
	Type             string
	Name             string
	Mass             float64
	Salinity         float64
	PH               float64
	Purity           float64
	Turbidity        float64
	ContaminantIndex float64
	Frozen           bool
	Scanned          bool
}

func (w *Water) EntityName() string { return w.Name }
func (w *Water) Family() Family     { return FamilyWater }

// IsEmpty reports whether the water has been fully consumed.
func (w *Water) IsEmpty() bool {
	return w.Mass <= 0
}

// Scan marks the water as discovered by the robot.
func (w *Water) Scan() {
	w.Scanned = true
}

// Quality is a weighted blend of purity, pH, salinity, turbidity and
// contamination scores plus a bonus for liquid water, scaled to 0–100.
func (w *Water) Quality() float64 {
	purity := w.Purity / maxPercentage
	ph := 1 - math.Abs(w.PH-neutralPH)/neutralPH
	salinity := 1 - w.Salinity/maxSalinity
	turbidity := 1 - w.Turbidity/maxTurbidity
	contaminant := 1 - w.ContaminantIndex/maxPollution

	liquid := 1.0
	if w.Frozen {
		liquid = 0
	}

	q := (0.3*purity +
		0.2*ph +
		0.15*salinity +
		0.1*turbidity +
		0.15*contaminant +
		0.2*liquid) * maxPercentage
	return Round2(q)
}

// DecreaseMass removes v from the water mass, never going below zero.
func (w *Water) DecreaseMass(v float64) {
	w.Mass -= v
	if w.Mass < 0 {
		w.Mass = 0
	}
}
