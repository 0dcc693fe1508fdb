package scenario

import (
	"fmt"

	"github.com/talgya/terra-world/internal/entities"
)

// Build creates a fresh soil instance from the input record.
func (in SoilInput) Build() (*entities.Soil, error) {
	kind, err := entities.ParseSoilKind(in.Type)
	if err != nil {
		return nil, err
	}
	s := &entities.Soil{
		Kind:           kind,
		Name:           in.Name,
		Mass:           in.Mass,
		Nitrogen:       in.Nitrogen,
		WaterRetention: in.WaterRetention,
		PH:             in.SoilPH,
		OrganicMatter:  in.OrganicMatter,
	}
	switch kind {
	case entities.SoilForest:
		s.Extra = in.LeafLitter
	case entities.SoilSwamp:
		s.Extra = in.WaterLogging
	case entities.SoilDesert:
		s.Extra = in.Salinity
	case entities.SoilGrassland:
		s.Extra = in.RootDensity
	case entities.SoilTundra:
		s.Extra = in.PermafrostDepth
	}
	return s, nil
}

// Build creates a fresh air instance from the input record.
func (in AirInput) Build() (*entities.Air, error) {
	kind, err := entities.ParseAirKind(in.Type)
	if err != nil {
		return nil, err
	}
	a := &entities.Air{
		Kind:        kind,
		Name:        in.Name,
		Mass:        in.Mass,
		Humidity:    in.Humidity,
		Temperature: in.Temperature,
		OxygenLevel: in.OxygenLevel,
	}
	switch kind {
	case entities.AirTropical:
		a.Extra = in.CO2Level
	case entities.AirMountain:
		a.Extra = in.Altitude
	case entities.AirPolar:
		a.Extra = in.IceCrystalConcentration
	case entities.AirTemperate:
		a.Extra = in.PollenLevel
	case entities.AirDesert:
		a.Extra = in.DustParticles
	}
	return a, nil
}

// Build creates a fresh water instance from the input record.
func (in WaterInput) Build() *entities.Water {
	return &entities.Water{
		Type:             in.Type,
		Name:             in.Name,
		Mass:             in.Mass,
		Salinity:         in.Salinity,
		PH:               in.PH,
		Purity:           in.Purity,
		Turbidity:        in.Turbidity,
		ContaminantIndex: in.ContaminantIndex,
		Frozen:           in.IsFrozen,
	}
}

// Build creates a fresh young plant from the input record.
func (in PlantInput) Build() (*entities.Plant, error) {
	kind, err := entities.ParsePlantKind(in.Type)
	if err != nil {
		return nil, err
	}
	return &entities.Plant{
		Kind:  kind,
		Name:  in.Name,
		Mass:  in.Mass,
		Level: entities.MaturityYoung,
	}, nil
}

// Build creates a fresh hungry animal placed at the given section. The
// placement seeds its identifier.
func (in AnimalInput) Build(at Section) (*entities.Animal, error) {
	kind, err := entities.ParseAnimalKind(in.Type)
	if err != nil {
		return nil, err
	}
	return &entities.Animal{
		ID:    entities.AnimalID(in.Name, at.X, at.Y),
		Kind:  kind,
		Name:  in.Name,
		Mass:  in.Mass,
		State: entities.StateHungry,
	}, nil
}

// Validate checks that every variant tag is known and every placement lies
// inside the territory.
func (in SimulationInput) Validate() error {
	height, width, err := ParseDim(in.TerritoryDim)
	if err != nil {
		return err
	}
	inside := func(family, name string, secs []Section) error {
		for _, s := range secs {
			if s.X < 0 || s.Y < 0 || s.X >= width || s.Y >= height {
				return fmt.Errorf("%s %q: section (%d, %d) outside %s territory", family, name, s.X, s.Y, in.TerritoryDim)
			}
		}
		return nil
	}

	p := in.SectionParams
	for _, s := range p.Soil {
		if _, err := entities.ParseSoilKind(s.Type); err != nil {
			return err
		}
		if err := inside("soil", s.Name, s.Sections); err != nil {
			return err
		}
	}
	for _, a := range p.Air {
		if _, err := entities.ParseAirKind(a.Type); err != nil {
			return err
		}
		if err := inside("air", a.Name, a.Sections); err != nil {
			return err
		}
	}
	for _, pl := range p.Plants {
		if _, err := entities.ParsePlantKind(pl.Type); err != nil {
			return err
		}
		if err := inside("plant", pl.Name, pl.Sections); err != nil {
			return err
		}
	}
	for _, an := range p.Animals {
		if _, err := entities.ParseAnimalKind(an.Type); err != nil {
			return err
		}
		if err := inside("animal", an.Name, an.Sections); err != nil {
			return err
		}
	}
	for _, w := range p.Water {
		if err := inside("water", w.Name, w.Sections); err != nil {
			return err
		}
	}
	return nil
}
