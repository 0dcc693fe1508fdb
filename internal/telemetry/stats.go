// Package telemetry collects per-step territory statistics and writes them
// as CSV for offline analysis.
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

// StepStats summarizes the territory after one environment step.
type StepStats struct {
	Run  int `csv:"run" json:"run" db:"run"`
	Step int `csv:"step" json:"step" db:"step"`

	Animals     int `csv:"animals" json:"animals" db:"animals"`
	SickAnimals int `csv:"sick_animals" json:"sick_animals" db:"sick_animals"`
	Plants      int `csv:"plants" json:"plants" db:"plants"`
	WaterBodies int `csv:"water_bodies" json:"water_bodies" db:"water_bodies"`
	Scanned     int `csv:"scanned" json:"scanned" db:"scanned"`

	AirQualityMean  float64 `csv:"air_quality_mean" json:"air_quality_mean" db:"air_quality_mean"`
	AirQualityStd   float64 `csv:"air_quality_std" json:"air_quality_std" db:"air_quality_std"`
	SoilQualityMean float64 `csv:"soil_quality_mean" json:"soil_quality_mean" db:"soil_quality_mean"`
	SoilQualityStd  float64 `csv:"soil_quality_std" json:"soil_quality_std" db:"soil_quality_std"`
	ToxicCells      int     `csv:"toxic_cells" json:"toxic_cells" db:"toxic_cells"`

	RobotEnergy int `csv:"robot_energy" json:"robot_energy" db:"robot_energy"`
	Inventory   int `csv:"inventory" json:"inventory" db:"inventory"`
	Topics      int `csv:"topics" json:"topics" db:"topics"`
}

// Collect computes the statistics of sim for run.
func Collect(run int, sim *engine.Simulation) StepStats {
	s := StepStats{
		Run:         run,
		Step:        sim.Step,
		RobotEnergy: sim.Robot.Energy,
		Inventory:   len(sim.Robot.Inventory()),
		Topics:      sim.Robot.Knowledge().Len(),
	}

	var air, soil []float64
	sim.Map.Each(func(c *world.Cell) {
		for _, a := range [...]*entities.Animal{c.Animal, c.Prey} {
			if a == nil || a.IsDead() {
				continue
			}
			s.Animals++
			if a.State == entities.StateSick {
				s.SickAnimals++
			}
			if a.Scanned {
				s.Scanned++
			}
		}
		if c.Plant != nil && !c.Plant.IsDead() {
			s.Plants++
			if c.Plant.Scanned {
				s.Scanned++
			}
		}
		if c.Water != nil && !c.Water.IsEmpty() {
			s.WaterBodies++
			if c.Water.Scanned {
				s.Scanned++
			}
		}
		if c.Air != nil {
			air = append(air, c.Air.Quality())
			if c.Air.IsToxic() {
				s.ToxicCells++
			}
		}
		if c.Soil != nil {
			soil = append(soil, c.Soil.Quality())
		}
	})

	s.AirQualityMean, s.AirQualityStd = meanStd(air)
	s.SoilQualityMean, s.SoilQualityStd = meanStd(soil)
	return s
}

// meanStd returns the mean and sample standard deviation, rounded to two
// decimals. Fewer than two values have no spread.
func meanStd(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return entities.Round2(xs[0]), 0
	}
	mean, std = stat.MeanStdDev(xs, nil)
	return entities.Round2(mean), entities.Round2(std)
}
