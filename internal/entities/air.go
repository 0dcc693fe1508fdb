package entities

import (
	"fmt"

	"github.com/talgya/terra-world/internal/weather"
)

// AirKind enumerates the air variants.
type AirKind uint8

const (
	AirTropical AirKind = iota
	AirMountain
	AirPolar
	AirTemperate
	AirDesert
	numAirKinds
)

// Air is the permanent atmosphere of a cell.
type Air struct {
	Kind        AirKind
	Name        string
	Mass        float64
	Humidity    float64
	Temperature float64
	OxygenLevel float64

	// Extra is the variant attribute: CO2 level (tropical), altitude
	// (mountain), ice crystal concentration (polar), pollen level
	// (temperate) or dust particles (desert).
	Extra float64

	// Weather influence added to quality while WeatherDuration > 0.
	WeatherInfluence float64
	WeatherDuration  int
}

type airProfile struct {
	tag      string
	maxScore float64
	quality  func(a *Air) float64
	weather  func(ev weather.Event) float64
}

var airProfiles = [numAirKinds]airProfile{
	AirTropical: {
		tag:      "TropicalAir",
		maxScore: 82,
		quality: func(a *Air) float64 {
			return a.OxygenLevel*2 + a.Humidity*0.5 - a.Extra*0.01
		},
		weather: func(ev weather.Event) float64 {
			return ev.Rainfall * 0.3
		},
	},
	AirMountain: {
		tag:      "MountainAir",
		maxScore: 78,
		quality: func(a *Air) float64 {
			oxygenFactor := a.OxygenLevel - a.Extra/1000*0.5
			return oxygenFactor*2 + a.Humidity*0.6
		},
		weather: func(ev weather.Event) float64 {
			return -float64(ev.NumberOfHikers) * 0.1
		},
	},
	AirPolar: {
		tag:      "PolarAir",
		maxScore: 142,
		quality: func(a *Air) float64 {
			temp := a.Temperature
			if temp < 0 {
				temp = -temp
			}
			return a.OxygenLevel*2 + (100 - temp) - a.Extra*0.05
		},
		weather: func(ev weather.Event) float64 {
			return -ev.WindSpeed * 0.2
		},
	},
	AirTemperate: {
		tag:      "TemperateAir",
		maxScore: 84,
		quality: func(a *Air) float64 {
			return a.OxygenLevel*2 + a.Humidity*0.7 - a.Extra*0.1
		},
		weather: func(ev weather.Event) float64 {
			if ev.IsSpring() {
				return -15
			}
			return 0
		},
	},
	AirDesert: {
		tag:      "DesertAir",
		maxScore: 65,
		quality: func(a *Air) float64 {
			return a.OxygenLevel*2 - a.Extra*0.2 - a.Temperature*0.3
		},
		weather: func(ev weather.Event) float64 {
			if ev.DesertStorm {
				return -30
			}
			return 0
		},
	},
}

// ParseAirKind maps an input type tag such as "TropicalAir" to its kind.
func ParseAirKind(tag string) (AirKind, error) {
	for k := AirKind(0); k < numAirKinds; k++ {
		if airProfiles[k].tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown air type %q", tag)
}

// String returns the input type tag.
func (k AirKind) String() string {
	if k >= numAirKinds {
		return "UnknownAir"
	}
	return airProfiles[k].tag
}

// Quality returns the air quality score in [0, 100], weather included.
func (a *Air) Quality() float64 {
	score := airProfiles[a.Kind].quality(a)
	return Round2(Clamp100(score + a.WeatherInfluence))
}

// MaxScore is the variant ceiling used to normalize toxicity.
func (a *Air) MaxScore() float64 {
	return airProfiles[a.Kind].maxScore
}

// QualityTier interprets the current quality score.
func (a *Air) QualityTier() string {
	return QualityTier(a.Quality())
}

// Toxicity is 100 × (1 − quality/maxScore), clamped and rounded.
func (a *Air) Toxicity() float64 {
	max := a.MaxScore()
	if max == 0 {
		return 0
	}
	return Round2(Clamp100(maxPercentage * (1.0 - a.Quality()/max)))
}

// IsToxic reports whether toxicity exceeds 80% of the variant max score.
func (a *Air) IsToxic() bool {
	return a.Toxicity() > 0.8*a.MaxScore()
}

// WeatherDelta returns the quality bonus or penalty the event would apply to
// this variant, or 0 if the event does not concern it.
func (a *Air) WeatherDelta(ev weather.Event) float64 {
	return airProfiles[a.Kind].weather(ev)
}

// SetWeather applies an influence for the given number of steps.
func (a *Air) SetWeather(influence float64, duration int) {
	a.WeatherInfluence = influence
	a.WeatherDuration = duration
}

// DecayWeather counts down the active weather effect, clearing the influence
// once the countdown reaches zero.
func (a *Air) DecayWeather() {
	if a.WeatherDuration <= 0 {
		return
	}
	a.WeatherDuration--
	if a.WeatherDuration == 0 {
		a.WeatherInfluence = 0
	}
}

// WeatherActive reports whether a weather effect is still counting down.
func (a *Air) WeatherActive() bool {
	return a.WeatherDuration > 0
}

// AddHumidity raises humidity by v, rounded to two decimals.
func (a *Air) AddHumidity(v float64) {
	a.Humidity = Round2(a.Humidity + v)
}

// AddOxygen raises the oxygen level by v, rounded to two decimals.
func (a *Air) AddOxygen(v float64) {
	a.OxygenLevel = Round2(a.OxygenLevel + v)
}
