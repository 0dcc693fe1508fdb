// Package weather describes the weather events the controller can trigger.
// An event carries one field per kind of phenomenon; each air variant reads
// only the field that concerns it.
package weather

import (
	"fmt"
	"strings"
)

// Event is a weather change requested by the controller.
type Event struct {
	DesertStorm    bool    `json:"desertStorm"`
	NumberOfHikers int     `json:"numberOfHikers"`
	WindSpeed      float64 `json:"windSpeed"`
	Season         string  `json:"season"`
	Rainfall       float64 `json:"rainfall"`
}

// EffectDuration is the number of environment steps a weather influence
// stays applied to an air quality score.
const EffectDuration = 2

// Season constants.
const (
	SeasonSpring = 0
	SeasonSummer = 1
	SeasonAutumn = 2
	SeasonWinter = 3
)

// SeasonName returns a human-readable season name.
func SeasonName(season uint8) string {
	switch season {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	case SeasonWinter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// ParseSeason maps a season string (case-insensitive) to its constant.
func ParseSeason(s string) (uint8, bool) {
	for season := uint8(SeasonSpring); season <= SeasonWinter; season++ {
		if strings.EqualFold(strings.TrimSpace(s), SeasonName(season)) {
			return season, true
		}
	}
	return 0, false
}

// IsSpring reports whether the event names the spring season.
func (e Event) IsSpring() bool {
	season, ok := ParseSeason(e.Season)
	return ok && season == SeasonSpring
}

// IsZero reports whether the event carries no phenomenon at all.
func (e Event) IsZero() bool {
	return !e.DesertStorm && e.NumberOfHikers == 0 && e.WindSpeed == 0 &&
		e.Season == "" && e.Rainfall == 0
}

// Describe renders the event for logs.
func (e Event) Describe() string {
	var parts []string
	if e.DesertStorm {
		parts = append(parts, "desert storm")
	}
	if e.NumberOfHikers != 0 {
		parts = append(parts, fmt.Sprintf("%d hikers", e.NumberOfHikers))
	}
	if e.WindSpeed != 0 {
		parts = append(parts, fmt.Sprintf("wind %.1f", e.WindSpeed))
	}
	if e.Season != "" {
		parts = append(parts, "season "+e.Season)
	}
	if e.Rainfall != 0 {
		parts = append(parts, fmt.Sprintf("rainfall %.1f", e.Rainfall))
	}
	if len(parts) == 0 {
		return "fair weather"
	}
	return strings.Join(parts, ", ")
}
