package engine

import (
	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/robot"
	"github.com/talgya/terra-world/internal/world"
)

// EnvConditions reports every entity in one cell.
type EnvConditions struct {
	Soil    *SoilReport   `json:"soil,omitempty"`
	Plants  *EntityReport `json:"plants,omitempty"`
	Animals *EntityReport `json:"animals,omitempty"`
	Water   *EntityReport `json:"water,omitempty"`
	Air     *AirReport    `json:"air,omitempty"`
}

// EntityReport is the identity of a plant, animal or water body.
type EntityReport struct {
	Type string  `json:"type"`
	Name string  `json:"name"`
	Mass float64 `json:"mass"`
}

// SoilReport carries the soil fields plus the one variant attribute.
type SoilReport struct {
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	Mass           float64 `json:"mass"`
	Nitrogen       float64 `json:"nitrogen"`
	WaterRetention float64 `json:"waterRetention"`
	SoilPH         float64 `json:"soilpH"`
	OrganicMatter  float64 `json:"organicMatter"`
	SoilQuality    float64 `json:"soilQuality"`

	LeafLitter      *float64 `json:"leafLitter,omitempty"`
	WaterLogging    *float64 `json:"waterLogging,omitempty"`
	Salinity        *float64 `json:"salinity,omitempty"`
	RootDensity     *float64 `json:"rootDensity,omitempty"`
	PermafrostDepth *float64 `json:"permafrostDepth,omitempty"`
}

// AirReport carries the air fields plus the variant attribute. Desert air
// reports whether a storm is active instead of its dust level.
type AirReport struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Mass        float64 `json:"mass"`
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
	OxygenLevel float64 `json:"oxygenLevel"`
	AirQuality  float64 `json:"airQuality"`

	CO2Level                *float64 `json:"co2Level,omitempty"`
	Altitude                *float64 `json:"altitude,omitempty"`
	IceCrystalConcentration *float64 `json:"iceCrystalConcentration,omitempty"`
	PollenLevel             *float64 `json:"pollenLevel,omitempty"`
	DesertStorm             *bool    `json:"desertStorm,omitempty"`
}

// CellSummary is one entry of the map overview.
type CellSummary struct {
	Section          [2]int `json:"section"`
	TotalNrOfObjects int    `json:"totalNrOfObjects"`
	AirQuality       string `json:"airQuality,omitempty"`
	SoilQuality      string `json:"soilQuality,omitempty"`
}

// EnvConditions reports the cell the robot stands on.
func (s *Simulation) EnvConditions() EnvConditions {
	return CellConditions(s.RobotCell())
}

// CellConditions reports the entities of any cell.
func CellConditions(c *world.Cell) EnvConditions {
	var env EnvConditions
	if c == nil {
		return env
	}
	if c.Soil != nil {
		env.Soil = soilReport(c.Soil)
	}
	if c.Plant != nil {
		env.Plants = &EntityReport{Type: c.Plant.Kind.String(), Name: c.Plant.Name, Mass: c.Plant.Mass}
	}
	if c.Animal != nil {
		env.Animals = &EntityReport{Type: c.Animal.Kind.String(), Name: c.Animal.Name, Mass: c.Animal.Mass}
	}
	if c.Water != nil {
		env.Water = &EntityReport{Type: c.Water.Type, Name: c.Water.Name, Mass: c.Water.Mass}
	}
	if c.Air != nil {
		env.Air = airReport(c.Air)
	}
	return env
}

func soilReport(s *entities.Soil) *SoilReport {
	r := &SoilReport{
		Type:           s.Kind.String(),
		Name:           s.Name,
		Mass:           s.Mass,
		Nitrogen:       s.Nitrogen,
		WaterRetention: s.WaterRetention,
		SoilPH:         s.PH,
		OrganicMatter:  s.OrganicMatter,
		SoilQuality:    s.Quality(),
	}
	extra := s.Extra
	switch s.Kind {
	case entities.SoilForest:
		r.LeafLitter = &extra
	case entities.SoilSwamp:
		r.WaterLogging = &extra
	case entities.SoilDesert:
		r.Salinity = &extra
	case entities.SoilGrassland:
		r.RootDensity = &extra
	case entities.SoilTundra:
		r.PermafrostDepth = &extra
	}
	return r
}

func airReport(a *entities.Air) *AirReport {
	r := &AirReport{
		Type:        a.Kind.String(),
		Name:        a.Name,
		Mass:        a.Mass,
		Humidity:    a.Humidity,
		Temperature: a.Temperature,
		OxygenLevel: a.OxygenLevel,
		AirQuality:  a.Quality(),
	}
	extra := a.Extra
	switch a.Kind {
	case entities.AirTropical:
		// Reported rounded; the stored level keeps full precision.
		co2 := entities.Round2(extra)
		r.CO2Level = &co2
	case entities.AirMountain:
		r.Altitude = &extra
	case entities.AirPolar:
		r.IceCrystalConcentration = &extra
	case entities.AirTemperate:
		r.PollenLevel = &extra
	case entities.AirDesert:
		storm := a.WeatherActive()
		r.DesertStorm = &storm
	}
	return r
}

// MapSummary lists every cell row by row: y outer, x inner.
func (s *Simulation) MapSummary() []CellSummary {
	out := make([]CellSummary, 0, s.Map.CellCount())
	s.Map.EachRow(func(c *world.Cell) {
		cs := CellSummary{
			Section:          [2]int{c.Coord.X, c.Coord.Y},
			TotalNrOfObjects: c.ObjectCount(),
		}
		if c.Air != nil {
			cs.AirQuality = c.Air.QualityTier()
		}
		if c.Soil != nil {
			cs.SoilQuality = c.Soil.QualityTier()
		}
		out = append(out, cs)
	})
	return out
}

// KnowledgeBase dumps the robot's learned facts in learning order.
func (s *Simulation) KnowledgeBase() []robot.Topic {
	return s.Robot.Knowledge().Topics()
}

// RobotStatus is a read-only view of the robot.
type RobotStatus struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Energy    int      `json:"energy"`
	Inventory []string `json:"inventory"`
}

// RobotStatus reports the robot's position, energy and inventory names.
func (s *Simulation) RobotStatus() RobotStatus {
	inv := s.Robot.Inventory()
	names := make([]string, 0, len(inv))
	for _, e := range inv {
		names = append(names, e.EntityName())
	}
	return RobotStatus{
		X:         s.Robot.Pos.X,
		Y:         s.Robot.Pos.Y,
		Energy:    s.Robot.Energy,
		Inventory: names,
	}
}
