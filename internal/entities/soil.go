package entities

import "fmt"

// SoilKind enumerates the soil variants.
type SoilKind uint8

const (
	SoilForest SoilKind = iota
	SoilSwamp
	SoilDesert
	SoilGrassland
	SoilTundra
	numSoilKinds
)

// Soil is the permanent ground of a cell.
type Soil struct {
	Kind           SoilKind
	Name           string
	Mass           float64
	Nitrogen       float64
	WaterRetention float64
	PH             float64
	OrganicMatter  float64

	// Extra is the variant attribute: leaf litter (forest), water logging
	// (swamp), salinity (desert), root density (grassland) or permafrost
	// depth (tundra).
	Extra float64
}

type soilProfile struct {
	tag         string
	quality     func(s *Soil) float64
	probability func(s *Soil) float64
}

var soilProfiles = [numSoilKinds]soilProfile{
	SoilForest: {
		tag: "ForestSoil",
		quality: func(s *Soil) float64 {
			return s.Nitrogen*1.2 + s.OrganicMatter*2 + s.WaterRetention*1.5 + s.Extra*0.3
		},
		probability: func(s *Soil) float64 {
			return (s.WaterRetention*0.6 + s.Extra*0.4) / 80 * maxPercentage
		},
	},
	SoilSwamp: {
		tag: "SwampSoil",
		quality: func(s *Soil) float64 {
			return s.Nitrogen*1.1 + s.OrganicMatter*2.2 - s.Extra*5
		},
		probability: func(s *Soil) float64 {
			return s.Extra * 10
		},
	},
	SoilDesert: {
		tag: "DesertSoil",
		quality: func(s *Soil) float64 {
			return s.Nitrogen*0.5 + s.WaterRetention*0.3 - s.Extra*2
		},
		probability: func(s *Soil) float64 {
			return 100 - s.WaterRetention + s.Extra
		},
	},
	SoilGrassland: {
		tag: "GrasslandSoil",
		quality: func(s *Soil) float64 {
			return s.Nitrogen*1.3 + s.OrganicMatter*1.5 + s.Extra*0.8
		},
		probability: func(s *Soil) float64 {
			return ((50 - s.Extra) + s.WaterRetention*0.5) / 75 * maxPercentage
		},
	},
	SoilTundra: {
		tag: "TundraSoil",
		quality: func(s *Soil) float64 {
			return s.Nitrogen*0.7 + s.OrganicMatter*0.5 - s.Extra*1.5
		},
		probability: func(s *Soil) float64 {
			return (50 - s.Extra) / 50 * maxPercentage
		},
	},
}

// ParseSoilKind maps an input type tag such as "ForestSoil" to its kind.
func ParseSoilKind(tag string) (SoilKind, error) {
	for k := SoilKind(0); k < numSoilKinds; k++ {
		if soilProfiles[k].tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown soil type %q", tag)
}

// String returns the input type tag.
func (k SoilKind) String() string {
	if k >= numSoilKinds {
		return "UnknownSoil"
	}
	return soilProfiles[k].tag
}

func (s *Soil) EntityName() string { return s.Name }
func (s *Soil) Family() Family     { return FamilySoil }

// Quality returns the soil quality score in [0, 100].
func (s *Soil) Quality() float64 {
	return Round2(Clamp100(soilProfiles[s.Kind].quality(s)))
}

// QualityTier interprets the current quality score.
func (s *Soil) QualityTier() string {
	return QualityTier(s.Quality())
}

// Probability is the likelihood of the robot getting stuck in this soil.
// It is not clamped; robot movement costing uses its absolute value.
func (s *Soil) Probability() float64 {
	return Round2(soilProfiles[s.Kind].probability(s))
}

// AddWaterRetention raises water retention by v, rounded to two decimals.
func (s *Soil) AddWaterRetention(v float64) {
	s.WaterRetention = Round2(s.WaterRetention + v)
}

// AddOrganicMatter raises organic matter by v, rounded to two decimals.
func (s *Soil) AddOrganicMatter(v float64) {
	s.OrganicMatter = Round2(s.OrganicMatter + v)
}
