// Territory generation using layered simplex noise.
// Generates elevation, moisture, temperature and fertility fields, then
// derives the soil and air variant of every cell and traces streams.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/terra-world/internal/entities"
)

// GenConfig holds territory generation parameters.
type GenConfig struct {
	Width       int
	Height      int
	Seed        int64   // Random seed (0 = random)
	HighlandLvl float64 // Elevation threshold for mountain air (0.0–1.0)
	WetLvl      float64 // Moisture threshold for standing water (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       8,
		Height:      8,
		Seed:        0,
		HighlandLvl: 0.72,
		WetLvl:      0.7,
	}
}

// Site is the generated environment of one cell.
type Site struct {
	Coord       Coord
	Elevation   float64
	Moisture    float64
	Temperature float64
	Fertility   float64

	Soil entities.SoilKind
	Air  entities.AirKind
	Wet  bool // standing water or a stream
}

// Terrain is a generated territory, sites stored x outer and y inner.
type Terrain struct {
	Width  int
	Height int
	Seed   int64
	Sites  []Site
}

// At returns the site at (x, y), or nil if out of bounds.
func (t *Terrain) At(x, y int) *Site {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return nil
	}
	return &t.Sites[x*t.Height+y]
}

// Generate creates a territory. The same non-zero seed always yields the
// same territory.
func Generate(cfg GenConfig) *Terrain {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Four noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)
	fertNoise := opensimplex.NewNormalized(seed + 3)

	t := &Terrain{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   seed,
		Sites:  make([]Site, 0, cfg.Width*cfg.Height),
	}

	for x := 0; x < cfg.Width; x++ {
		for y := 0; y < cfg.Height; y++ {
			fx, fy := float64(x), float64(y)

			elev := octaveNoise(elevNoise, fx, fy, 4, 0.08, 0.5)
			moist := octaveNoise(moistNoise, fx, fy, 3, 0.06, 0.5)
			temp := octaveNoise(tempNoise, fx, fy, 3, 0.05, 0.5)
			fert := octaveNoise(fertNoise, fx, fy, 2, 0.1, 0.5)

			// Temperature falls toward the top and bottom edges and with elevation.
			lat := 0.5
			if cfg.Height > 1 {
				lat = fy / float64(cfg.Height-1)
			}
			temp = temp*0.6 + (1.0-math.Abs(lat-0.5)*2)*0.3 + (1.0-elev)*0.1

			t.Sites = append(t.Sites, Site{
				Coord:       Coord{X: x, Y: y},
				Elevation:   elev,
				Moisture:    moist,
				Temperature: temp,
				Fertility:   fert,
				Soil:        deriveSoil(elev, moist, temp),
				Air:         deriveAir(elev, moist, temp, cfg),
				Wet:         moist > cfg.WetLvl,
			})
		}
	}

	placeStreams(t, seed)
	return t
}

// deriveSoil determines the soil variant from environmental parameters.
func deriveSoil(elev, moist, temp float64) entities.SoilKind {
	if temp < 0.25 {
		return entities.SoilTundra
	}
	if moist < 0.3 && temp > 0.5 {
		return entities.SoilDesert
	}
	if moist > 0.65 && elev < 0.45 {
		return entities.SoilSwamp
	}
	if moist > 0.45 {
		return entities.SoilForest
	}
	return entities.SoilGrassland
}

// deriveAir determines the air variant from environmental parameters.
func deriveAir(elev, moist, temp float64, cfg GenConfig) entities.AirKind {
	if elev > cfg.HighlandLvl {
		return entities.AirMountain
	}
	if temp < 0.25 {
		return entities.AirPolar
	}
	if moist < 0.3 && temp > 0.5 {
		return entities.AirDesert
	}
	if temp > 0.6 && moist > 0.5 {
		return entities.AirTropical
	}
	return entities.AirTemperate
}

// placeStreams traces a few streams from high ground, marking the sites
// they cross as wet.
func placeStreams(t *Terrain, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	var sources []Coord
	for _, s := range t.Sites {
		if s.Elevation > 0.6 {
			sources = append(sources, s.Coord)
		}
	}

	// Only a handful of streams; not every hill needs one.
	numStreams := len(sources) / 8
	if numStreams < 1 {
		numStreams = 1
	}
	if numStreams > 4 {
		numStreams = 4
	}

	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > numStreams {
		sources = sources[:numStreams]
	}

	for _, start := range sources {
		traceStream(t, start)
	}
}

// traceStream follows the steepest descent from a source until no lower
// neighbour remains.
func traceStream(t *Terrain, start Coord) {
	current := start
	visited := make(map[Coord]bool)
	maxSteps := t.Width + t.Height

	for step := 0; step < maxSteps; step++ {
		visited[current] = true
		site := t.At(current.X, current.Y)
		if site == nil {
			break
		}
		// The source itself stays dry.
		if step > 0 {
			site.Wet = true
		}

		var next *Coord
		bestElev := site.Elevation
		for _, d := range Directions {
			nc := current.Add(d)
			if visited[nc] {
				continue
			}
			ns := t.At(nc.X, nc.Y)
			if ns == nil {
				continue
			}
			if ns.Elevation < bestElev {
				bestElev = ns.Elevation
				c := nc
				next = &c
			}
		}

		if next == nil {
			break // pools here
		}
		current = *next
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// SoilCounts returns a summary of the soil variant distribution.
func SoilCounts(t *Terrain) map[entities.SoilKind]int {
	counts := make(map[entities.SoilKind]int)
	for _, s := range t.Sites {
		counts[s.Soil]++
	}
	return counts
}

// WetCount returns the number of wet sites.
func WetCount(t *Terrain) int {
	n := 0
	for _, s := range t.Sites {
		if s.Wet {
			n++
		}
	}
	return n
}
