package scenario

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

// GenConfig holds scenario generation parameters.
type GenConfig struct {
	Seed     int64
	Width    int
	Height   int
	Energy   int
	Commands int // commands between start and end
}

// DefaultGenConfig returns a small scenario with a short command script.
func DefaultGenConfig() GenConfig {
	return GenConfig{Seed: 42, Width: 6, Height: 5, Energy: 120, Commands: 40}
}

var soilNames = map[entities.SoilKind]string{
	entities.SoilForest:    "Loam Floor",
	entities.SoilSwamp:     "Peat Bog",
	entities.SoilDesert:    "Dune Sand",
	entities.SoilGrassland: "Prairie Sod",
	entities.SoilTundra:    "Frost Gravel",
}

var airNames = map[entities.AirKind]string{
	entities.AirTropical:  "Monsoon Air",
	entities.AirMountain:  "Ridge Air",
	entities.AirPolar:     "Arctic Air",
	entities.AirTemperate: "Valley Air",
	entities.AirDesert:    "Sirocco",
}

var plantForSoil = map[entities.SoilKind]struct {
	kind entities.PlantKind
	name string
}{
	entities.SoilForest:    {entities.PlantGymnosperm, "Pine"},
	entities.SoilSwamp:     {entities.PlantAlgae, "Pondweed"},
	entities.SoilDesert:    {entities.PlantFern, "Rock Fern"},
	entities.SoilGrassland: {entities.PlantFlowering, "Clover"},
	entities.SoilTundra:    {entities.PlantMoss, "Lichen Moss"},
}

var animalNames = [...]string{
	entities.AnimalHerbivore:   "Deer",
	entities.AnimalCarnivore:   "Wolf",
	entities.AnimalOmnivore:    "Boar",
	entities.AnimalDetritivore: "Beetle",
	entities.AnimalParasite:    "Tick",
}

// Generate builds a deterministic single-simulation input from a seed: the
// territory comes from world.Generate and the command feed is scripted
// from the entities it placed.
func Generate(cfg GenConfig) *Input {
	wc := world.DefaultGenConfig()
	wc.Width, wc.Height, wc.Seed = cfg.Width, cfg.Height, cfg.Seed
	terrain := world.Generate(wc)
	rng := rand.New(rand.NewSource(terrain.Seed + 7))

	params := SectionParams{
		Soil:    soilInputs(terrain),
		Air:     airInputs(terrain),
		Water:   []WaterInput{},
		Plants:  []PlantInput{},
		Animals: []AnimalInput{},
	}

	for i := range terrain.Sites {
		s := &terrain.Sites[i]
		sec := []Section{{X: s.Coord.X, Y: s.Coord.Y}}

		if s.Wet {
			params.Water = append(params.Water, WaterInput{
				Type:             "water",
				Name:             fmt.Sprintf("Pond %d", len(params.Water)+1),
				Mass:             round2(40 + rng.Float64()*80),
				Salinity:         round2((1 - s.Moisture) * 40),
				PH:               round2(6.5 + s.Fertility*1.5),
				Purity:           round2(55 + s.Moisture*40),
				Turbidity:        round2(rng.Float64() * 30),
				ContaminantIndex: round2(rng.Float64() * 20),
				IsFrozen:         s.Air == entities.AirPolar,
				Sections:         sec,
			})
		}

		if s.Fertility > 0.5 {
			p := plantForSoil[s.Soil]
			params.Plants = append(params.Plants, PlantInput{
				Type:     p.kind.String(),
				Name:     fmt.Sprintf("%s %d", p.name, len(params.Plants)+1),
				Mass:     round2(2 + rng.Float64()*8),
				Sections: sec,
			})
		}

		if rng.Float64() < 0.2 {
			k := entities.AnimalKind(rng.Intn(len(animalNames)))
			params.Animals = append(params.Animals, AnimalInput{
				Type:     k.String(),
				Name:     fmt.Sprintf("%s %d", animalNames[k], len(params.Animals)+1),
				Mass:     round2(5 + rng.Float64()*25),
				Sections: sec,
			})
		}
	}

	sim := SimulationInput{
		TerritoryDim:  FormatDim(cfg.Height, cfg.Width),
		EnergyPoints:  cfg.Energy,
		SectionParams: params,
	}
	return &Input{
		Simulations: []SimulationInput{sim},
		Commands:    script(rng, params, cfg.Commands),
	}
}

// soilInputs emits one soil record per variant, its fields derived from the
// mean environment of the sites it covers.
func soilInputs(t *world.Terrain) []SoilInput {
	groups := make(map[entities.SoilKind][]*world.Site)
	for i := range t.Sites {
		s := &t.Sites[i]
		groups[s.Soil] = append(groups[s.Soil], s)
	}

	out := []SoilInput{}
	for _, kind := range sortedKinds(groups) {
		sites := groups[kind]
		moist, temp, fert, _ := means(sites)
		in := SoilInput{
			Type:           kind.String(),
			Name:           soilNames[kind],
			Mass:           round2(500 + fert*500),
			Nitrogen:       round2(5 + fert*15),
			WaterRetention: round2(20 + moist*60),
			SoilPH:         round2(5.5 + fert*2),
			OrganicMatter:  round2(2 + fert*8),
			Sections:       sections(sites),
		}
		switch kind {
		case entities.SoilForest:
			in.LeafLitter = round2(10 + fert*20)
		case entities.SoilSwamp:
			in.WaterLogging = round2(moist * 8)
		case entities.SoilDesert:
			in.Salinity = round2((1 - moist) * 10)
		case entities.SoilGrassland:
			in.RootDensity = round2(10 + fert*30)
		case entities.SoilTundra:
			in.PermafrostDepth = round2((1 - temp) * 40)
		}
		out = append(out, in)
	}
	return out
}

// airInputs emits one air record per variant.
func airInputs(t *world.Terrain) []AirInput {
	groups := make(map[entities.AirKind][]*world.Site)
	for i := range t.Sites {
		s := &t.Sites[i]
		groups[s.Air] = append(groups[s.Air], s)
	}

	out := []AirInput{}
	for _, kind := range sortedKinds(groups) {
		sites := groups[kind]
		moist, temp, fert, elev := means(sites)
		in := AirInput{
			Type:        kind.String(),
			Name:        airNames[kind],
			Mass:        round2(1000 + elev*500),
			Humidity:    round2(10 + moist*80),
			Temperature: round2(temp*45 - 10),
			OxygenLevel: round2(15 + fert*10),
			Sections:    sections(sites),
		}
		switch kind {
		case entities.AirTropical:
			in.CO2Level = round2(350 + moist*100)
		case entities.AirMountain:
			in.Altitude = round2(1000 + elev*3000)
		case entities.AirPolar:
			in.IceCrystalConcentration = round2((1 - temp) * 20)
		case entities.AirTemperate:
			in.PollenLevel = round2(fert * 20)
		case entities.AirDesert:
			in.DustParticles = round2((1 - moist) * 30)
		}
		out = append(out, in)
	}
	return out
}

func sortedKinds[K entities.SoilKind | entities.AirKind, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func means(sites []*world.Site) (moist, temp, fert, elev float64) {
	for _, s := range sites {
		moist += s.Moisture
		temp += s.Temperature
		fert += s.Fertility
		elev += s.Elevation
	}
	n := float64(len(sites))
	return moist / n, temp / n, fert / n, elev / n
}

func sections(sites []*world.Site) []Section {
	out := make([]Section, 0, len(sites))
	for _, s := range sites {
		out = append(out, Section{X: s.Coord.X, Y: s.Coord.Y})
	}
	return out
}

func round2(v float64) float64 {
	return entities.Round2(v)
}

// improvements pairs each improvement type with the fact it requires.
var improvements = []struct {
	kind string
	fact func(name string) string
}{
	{"plantVegetation", func(n string) string { return "Method to plant " + n }},
	{"fertilizeSoil", func(n string) string { return "Method to fertilize with " + n }},
	{"increaseHumidity", func(string) string { return "Method to increase humidity" }},
	{"increaseMoisture", func(string) string { return "Method to increaseMoisture" }},
}

// script writes a plausible command feed: start, n weighted random
// commands at increasing timestamps, end.
func script(rng *rand.Rand, p SectionParams, n int) []CommandInput {
	var names []string
	for _, w := range p.Water {
		names = append(names, w.Name)
	}
	for _, pl := range p.Plants {
		names = append(names, pl.Name)
	}
	for _, a := range p.Animals {
		names = append(names, a.Name)
	}
	pick := func() string {
		if len(names) == 0 {
			return "nothing"
		}
		return names[rng.Intn(len(names))]
	}

	ts := 1
	cmds := []CommandInput{{Command: "startSimulation", Timestamp: ts}}
	for i := 0; i < n; i++ {
		ts += 1 + rng.Intn(2)
		c := CommandInput{Timestamp: ts}
		switch r := rng.Intn(20); {
		case r < 4:
			c.Command = "moveRobot"
		case r < 8:
			c.Command = "scanObject"
			c.Color, c.Smell, c.Sound = "none", "none", "none"
			switch rng.Intn(3) {
			case 1:
				c.Color, c.Smell = "green", "fresh"
			case 2:
				c.Color, c.Smell, c.Sound = "brown", "musky", "growl"
			}
		case r < 10:
			imp := improvements[rng.Intn(len(improvements))]
			c.Command = "learnFact"
			c.Components = pick()
			c.Subject = imp.fact(c.Components)
		case r < 12:
			imp := improvements[rng.Intn(len(improvements))]
			c.Command = "improveEnvironment"
			c.Name = pick()
			c.ImprovementType = imp.kind
		case r < 13:
			c.Command = "changeWeatherConditions"
			weatherCommand(rng, &c)
		case r < 14:
			c.Command = "rechargeBattery"
			c.TimeToCharge = 1 + rng.Intn(3)
		case r < 16:
			c.Command = "printEnvConditions"
		case r < 17:
			c.Command = "printMap"
		case r < 18:
			c.Command = "printKnowledgeBase"
		default:
			c.Command = "getEnergyStatus"
		}
		cmds = append(cmds, c)
	}
	return append(cmds, CommandInput{Command: "endSimulation", Timestamp: ts + 1})
}

func weatherCommand(rng *rand.Rand, c *CommandInput) {
	switch rng.Intn(5) {
	case 0:
		c.Type = "rainfall"
		c.Rainfall = round2(5 + rng.Float64()*20)
	case 1:
		c.Type = "newSeason"
		c.Season = "Spring"
	case 2:
		c.Type = "polarStorm"
		c.WindSpeed = round2(10 + rng.Float64()*40)
	case 3:
		c.Type = "peopleHiking"
		c.NumberOfHikers = 5 + rng.Intn(40)
	default:
		c.Type = "desertStorm"
		c.DesertStorm = true
	}
}
