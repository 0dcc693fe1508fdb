// Package scenario defines the input records a simulation run is built
// from: territory parameters per simulation and the timed command feed.
package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/terra-world/internal/weather"
)

// Input is a complete run: simulations are started in order by the
// startSimulation commands of the feed.
type Input struct {
	Simulations []SimulationInput `json:"simulationParams"`
	Commands    []CommandInput    `json:"commands"`
}

// SimulationInput describes one territory and the robot's starting energy.
type SimulationInput struct {
	TerritoryDim  string        `json:"territoryDim"` // "HxW"
	EnergyPoints  int           `json:"energyPoints"`
	SectionParams SectionParams `json:"territorySectionParams"`
}

// SectionParams lists the entities placed on the territory per family.
type SectionParams struct {
	Soil    []SoilInput   `json:"soil"`
	Plants  []PlantInput  `json:"plants"`
	Animals []AnimalInput `json:"animals"`
	Water   []WaterInput  `json:"water"`
	Air     []AirInput    `json:"air"`
}

// Section is a placement coordinate.
type Section struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SoilInput carries every soil field; only the one matching Type's variant
// attribute is read.
type SoilInput struct {
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	Mass            float64   `json:"mass"`
	Nitrogen        float64   `json:"nitrogen"`
	WaterRetention  float64   `json:"waterRetention"`
	SoilPH          float64   `json:"soilpH"`
	OrganicMatter   float64   `json:"organicMatter"`
	LeafLitter      float64   `json:"leafLitter,omitempty"`
	WaterLogging    float64   `json:"waterLogging,omitempty"`
	Salinity        float64   `json:"salinity,omitempty"`
	RootDensity     float64   `json:"rootDensity,omitempty"`
	PermafrostDepth float64   `json:"permafrostDepth,omitempty"`
	Sections        []Section `json:"sections"`
}

// AirInput carries every air field; only the one matching Type's variant
// attribute is read.
type AirInput struct {
	Type                    string    `json:"type"`
	Name                    string    `json:"name"`
	Mass                    float64   `json:"mass"`
	Humidity                float64   `json:"humidity"`
	Temperature             float64   `json:"temperature"`
	OxygenLevel             float64   `json:"oxygenLevel"`
	CO2Level                float64   `json:"co2Level,omitempty"`
	Altitude                float64   `json:"altitude,omitempty"`
	IceCrystalConcentration float64   `json:"iceCrystalConcentration,omitempty"`
	PollenLevel             float64   `json:"pollenLevel,omitempty"`
	DustParticles           float64   `json:"dustParticles,omitempty"`
	Sections                []Section `json:"sections"`
}

// WaterInput describes a body of water.
type WaterInput struct {
	Type             string    `json:"type"`
	Name             string    `json:"name"`
	Mass             float64   `json:"mass"`
	Salinity         float64   `json:"salinity"`
	PH               float64   `json:"pH"`
	Purity           float64   `json:"purity"`
	Turbidity        float64   `json:"turbidity"`
	ContaminantIndex float64   `json:"contaminantIndex"`
	IsFrozen         bool      `json:"isFrozen"`
	Sections         []Section `json:"sections"`
}

// PlantInput describes a plant.
type PlantInput struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Mass     float64   `json:"mass"`
	Sections []Section `json:"sections"`
}

// AnimalInput describes an animal.
type AnimalInput struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Mass     float64   `json:"mass"`
	Sections []Section `json:"sections"`
}

// CommandInput is one timed command. Only the fields its name needs are set.
type CommandInput struct {
	Command   string `json:"command"`
	Timestamp int    `json:"timestamp"`

	// scanObject
	Color string `json:"color,omitempty"`
	Smell string `json:"smell,omitempty"`
	Sound string `json:"sound,omitempty"`

	// learnFact
	Components string `json:"components,omitempty"`
	Subject    string `json:"subject,omitempty"`

	// improveEnvironment
	ImprovementType string `json:"improvementType,omitempty"`
	Name            string `json:"name,omitempty"`

	// rechargeBattery
	TimeToCharge int `json:"timeToCharge,omitempty"`

	// changeWeatherConditions
	Type           string  `json:"type,omitempty"`
	DesertStorm    bool    `json:"desertStorm,omitempty"`
	NumberOfHikers int     `json:"numberOfHikers,omitempty"`
	WindSpeed      float64 `json:"windSpeed,omitempty"`
	Season         string  `json:"season,omitempty"`
	Rainfall       float64 `json:"rainfall,omitempty"`
}

// Weather extracts the weather event carried by a changeWeatherConditions
// command.
func (c CommandInput) Weather() weather.Event {
	return weather.Event{
		DesertStorm:    c.DesertStorm,
		NumberOfHikers: c.NumberOfHikers,
		WindSpeed:      c.WindSpeed,
		Season:         c.Season,
		Rainfall:       c.Rainfall,
	}
}

// Senses returns the scan flags with missing values read as "none".
func (c CommandInput) Senses() (color, smell, sound string) {
	none := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	return none(c.Color), none(c.Smell), none(c.Sound)
}

// ParseDim parses a territory dimension "HxW" into height and width.
func ParseDim(dim string) (height, width int, err error) {
	h, w, ok := strings.Cut(strings.TrimSpace(dim), "x")
	if !ok {
		return 0, 0, fmt.Errorf("territory dimension %q: want HxW", dim)
	}
	height, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("territory height %q: %w", h, err)
	}
	width, err = strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("territory width %q: %w", w, err)
	}
	if height <= 0 || width <= 0 {
		return 0, 0, fmt.Errorf("territory dimension %q: must be positive", dim)
	}
	return height, width, nil
}

// FormatDim is the inverse of ParseDim.
func FormatDim(height, width int) string {
	return fmt.Sprintf("%dx%d", height, width)
}
