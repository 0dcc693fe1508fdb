package engine

import (
	"errors"
	"testing"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/weather"
	"github.com/talgya/terra-world/internal/world"
)

func TestScanTarget(t *testing.T) {
	tests := []struct {
		color, smell, sound string
		want                entities.Family
	}{
		{"none", "none", "none", entities.FamilyWater},
		{"green", "sweet", "none", entities.FamilyPlant},
		{"none", "none", "rustle", entities.FamilyAnimal},
		{"brown", "musk", "growl", entities.FamilyAnimal},
		{"green", "none", "none", entities.FamilyPlant},
	}
	for _, tt := range tests {
		if got := ScanTarget(tt.color, tt.smell, tt.sound); got != tt.want {
			t.Errorf("ScanTarget(%q, %q, %q) = %v, want %v", tt.color, tt.smell, tt.sound, got, tt.want)
		}
	}
}

func TestScanWater(t *testing.T) {
	sim := newTestSim(1, 1, 20)
	w := &entities.Water{Name: "Pond", Mass: 10}
	sim.Map.At(0, 0).Water = w

	msg, err := sim.Scan("none", "none", "none")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if msg != "The scanned object is water." {
		t.Errorf("message = %q", msg)
	}
	if sim.Robot.Energy != 13 || !w.Scanned || !sim.Robot.HasEntity("Pond") {
		t.Errorf("energy = %d scanned = %v inventory has pond = %v", sim.Robot.Energy, w.Scanned, sim.Robot.HasEntity("Pond"))
	}
}

func TestScanRejections(t *testing.T) {
	t.Run("low energy", func(t *testing.T) {
		sim := newTestSim(1, 1, 5)
		sim.Map.At(0, 0).Water = &entities.Water{Name: "Pond", Mass: 10}
		_, err := sim.Scan("none", "none", "none")
		if !errors.Is(err, ErrScanNoEnergy) {
			t.Fatalf("err = %v, want ErrScanNoEnergy", err)
		}
		if sim.Robot.Energy != 5 {
			t.Errorf("energy = %d, want 5", sim.Robot.Energy)
		}
		if Message(err) != "ERROR: Not enough energy to perform action" {
			t.Errorf("message = %q", Message(err))
		}
	})
	t.Run("nothing there", func(t *testing.T) {
		sim := newTestSim(1, 1, 20)
		sim.Map.At(0, 0).Water = &entities.Water{Name: "Pond", Mass: 10}
		_, err := sim.Scan("green", "sweet", "none")
		if !errors.Is(err, ErrObjectNotFound) {
			t.Fatalf("err = %v, want ErrObjectNotFound", err)
		}
		if sim.Robot.Energy != 20 || len(sim.Robot.Inventory()) != 0 {
			t.Errorf("failed scan changed robot: energy %d", sim.Robot.Energy)
		}
	})
}

func TestLearnFact(t *testing.T) {
	sim := newTestSim(1, 1, 20)
	if _, err := sim.LearnFact("Oak", "grows slowly"); !errors.Is(err, ErrSubjectNotSaved) {
		t.Fatalf("err = %v, want ErrSubjectNotSaved", err)
	}
	sim.Robot.AddToInventory(&entities.Plant{Name: "Oak"})
	msg, err := sim.LearnFact("Oak", "grows slowly")
	if err != nil || msg != MsgFactSaved {
		t.Fatalf("LearnFact = %q, %v", msg, err)
	}
	if sim.Robot.Energy != 18 || !sim.Robot.Knows("Oak", "grows slowly") {
		t.Errorf("energy = %d, knows = %v", sim.Robot.Energy, sim.Robot.Knows("Oak", "grows slowly"))
	}

	sim.Robot.Energy = 1
	if _, err := sim.LearnFact("Oak", "again"); !errors.Is(err, ErrNotEnoughEnergy) {
		t.Errorf("err = %v, want ErrNotEnoughEnergy", err)
	}
}

func TestImprove(t *testing.T) {
	setup := func(energy int) *Simulation {
		sim := newTestSim(1, 1, energy)
		c := sim.Map.At(0, 0)
		c.Air = &entities.Air{Kind: entities.AirTemperate, OxygenLevel: 10, Humidity: 30}
		c.Soil = &entities.Soil{Kind: entities.SoilForest, OrganicMatter: 2, WaterRetention: 5}
		sim.Robot.AddToInventory(&entities.Plant{Name: "Oak"})
		return sim
	}

	t.Run("plant vegetation", func(t *testing.T) {
		sim := setup(30)
		fact, _ := ImprovementFact("plantVegetation", "Oak")
		sim.Robot.Learn("Oak", fact)

		msg, err := sim.Improve("plantVegetation", "Oak")
		if err != nil {
			t.Fatalf("Improve: %v", err)
		}
		if msg != "The Oak was planted successfully." {
			t.Errorf("message = %q", msg)
		}
		c := sim.Map.At(0, 0)
		if !approx(c.Air.OxygenLevel, 10.3) || sim.Robot.Energy != 20 || sim.Robot.HasEntity("Oak") {
			t.Errorf("oxygen %v energy %d still holds Oak %v", c.Air.OxygenLevel, sim.Robot.Energy, sim.Robot.HasEntity("Oak"))
		}
	})

	t.Run("increase moisture", func(t *testing.T) {
		sim := setup(30)
		sim.Robot.Learn("Oak", "Method to increaseMoisture")
		if _, err := sim.Improve("increaseMoisture", "Oak"); err != nil {
			t.Fatalf("Improve: %v", err)
		}
		if got := sim.Map.At(0, 0).Soil.WaterRetention; !approx(got, 5.2) {
			t.Errorf("retention = %v, want 5.2", got)
		}
	})

	rejections := []struct {
		name    string
		energy  int
		kind    string
		learn   string
		noAir   bool
		wantErr error
	}{
		{"low energy", 9, "plantVegetation", "Method to plant Oak", false, ErrNotEnoughEnergy},
		{"fact missing", 30, "plantVegetation", "", false, ErrFactNotSaved},
		{"wrong fact", 30, "fertilizeSoil", "Method to plant Oak", false, ErrFactNotSaved},
		{"unknown type", 30, "paveRoad", "Method to plant Oak", false, ErrFactNotSaved},
		{"no air", 30, "increaseHumidity", "Method to increase humidity", true, ErrNoEffect},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			sim := setup(tt.energy)
			if tt.learn != "" {
				sim.Robot.Learn("Oak", tt.learn)
			}
			if tt.noAir {
				sim.Map.At(0, 0).Air = nil
			}
			_, err := sim.Improve(tt.kind, "Oak")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if sim.Robot.Energy != tt.energy || !sim.Robot.HasEntity("Oak") {
				t.Errorf("rejected improvement changed robot: energy %d", sim.Robot.Energy)
			}
		})
	}

	t.Run("subject missing", func(t *testing.T) {
		sim := newTestSim(1, 1, 30)
		if _, err := sim.Improve("plantVegetation", "Oak"); !errors.Is(err, ErrSubjectNotSaved) {
			t.Errorf("err = %v, want ErrSubjectNotSaved", err)
		}
	})
}

func TestChangeWeather(t *testing.T) {
	sim := newTestSim(2, 1, 0)
	tropical := &entities.Air{Kind: entities.AirTropical, OxygenLevel: 10}
	desert := &entities.Air{Kind: entities.AirDesert, OxygenLevel: 30}
	sim.Map.At(0, 0).Air = tropical
	sim.Map.At(1, 0).Air = desert

	if _, err := sim.ChangeWeather(weather.Event{Season: "Spring"}); !errors.Is(err, ErrNoWeatherEffect) {
		t.Fatalf("err = %v, want ErrNoWeatherEffect", err)
	}
	if _, err := sim.ChangeWeather(weather.Event{}); !errors.Is(err, ErrNoWeatherEffect) {
		t.Fatalf("empty event err = %v, want ErrNoWeatherEffect", err)
	}
	if tropical.WeatherActive() || desert.WeatherActive() {
		t.Fatal("rejected events must not touch any air")
	}

	msg, err := sim.ChangeWeather(weather.Event{DesertStorm: true})
	if err != nil || msg != MsgWeatherChanged {
		t.Fatalf("ChangeWeather = %q, %v", msg, err)
	}
	if tropical.WeatherActive() || !desert.WeatherActive() {
		t.Errorf("only the desert air should be affected")
	}
	if desert.WeatherInfluence != -30 || desert.WeatherDuration != weather.EffectDuration {
		t.Errorf("desert influence = %v for %d steps", desert.WeatherInfluence, desert.WeatherDuration)
	}
}

func TestMoveCost(t *testing.T) {
	tests := []struct {
		name   string
		cell   world.Cell
		want   int
		wantOK bool
	}{
		{name: "empty", cell: world.Cell{}, wantOK: false},
		{
			name:   "algae",
			cell:   world.Cell{Plant: &entities.Plant{Kind: entities.PlantAlgae}},
			want:   0,
			wantOK: true,
		},
		{
			name:   "herbivore rounds half up",
			cell:   world.Cell{Animal: &entities.Animal{Kind: entities.AnimalHerbivore}},
			want:   2,
			wantOK: true,
		},
		{
			name: "deep permafrost counts by magnitude",
			cell: world.Cell{
				Soil:   &entities.Soil{Kind: entities.SoilTundra, Extra: 100},
				Animal: &entities.Animal{Kind: entities.AnimalHerbivore},
			},
			want:   51,
			wantOK: true,
		},
		{
			name:   "clean tropical air",
			cell:   world.Cell{Air: &entities.Air{Kind: entities.AirTropical, OxygenLevel: 41}},
			want:   0,
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MoveCost(&tt.cell)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MoveCost = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMoveRobot(t *testing.T) {
	animal := func(k entities.AnimalKind) *entities.Animal { return &entities.Animal{Kind: k, Mass: 1} }

	t.Run("cheapest neighbour", func(t *testing.T) {
		sim := newTestSim(3, 3, 10)
		sim.Robot.MoveTo(world.Coord{X: 1, Y: 1})
		sim.Map.At(1, 2).Animal = animal(entities.AnimalHerbivore)   // 2
		sim.Map.At(2, 1).Animal = animal(entities.AnimalDetritivore) // 1
		sim.Map.At(0, 1).Animal = animal(entities.AnimalDetritivore) // 1, later in scan order
		sim.Map.At(1, 0).Animal = animal(entities.AnimalCarnivore)   // 7

		msg, err := sim.MoveRobot()
		if err != nil {
			t.Fatalf("MoveRobot: %v", err)
		}
		if msg != "The robot has successfully moved to position (2, 1)." {
			t.Errorf("message = %q", msg)
		}
		if sim.Robot.Pos != (world.Coord{X: 2, Y: 1}) || sim.Robot.Energy != 9 {
			t.Errorf("pos = %v energy = %d", sim.Robot.Pos, sim.Robot.Energy)
		}
	})

	t.Run("ties go to scan order", func(t *testing.T) {
		sim := newTestSim(3, 3, 10)
		sim.Robot.MoveTo(world.Coord{X: 1, Y: 1})
		sim.Map.At(0, 1).Plant = &entities.Plant{Kind: entities.PlantAlgae}
		sim.Map.At(1, 2).Plant = &entities.Plant{Kind: entities.PlantAlgae}
		if _, err := sim.MoveRobot(); err != nil {
			t.Fatalf("MoveRobot: %v", err)
		}
		if sim.Robot.Pos != (world.Coord{X: 1, Y: 2}) || sim.Robot.Energy != 10 {
			t.Errorf("pos = %v energy = %d", sim.Robot.Pos, sim.Robot.Energy)
		}
	})

	t.Run("not enough energy", func(t *testing.T) {
		sim := newTestSim(2, 1, 0)
		sim.Map.At(1, 0).Animal = animal(entities.AnimalDetritivore)
		if _, err := sim.MoveRobot(); !errors.Is(err, ErrNotEnoughEnergy) {
			t.Fatalf("err = %v, want ErrNotEnoughEnergy", err)
		}
		if sim.Robot.Pos != (world.Coord{}) {
			t.Errorf("robot moved to %v", sim.Robot.Pos)
		}
	})

	t.Run("nowhere to go", func(t *testing.T) {
		sim := newTestSim(2, 2, 10)
		if _, err := sim.MoveRobot(); !errors.Is(err, ErrNoReachableCell) {
			t.Errorf("err = %v, want ErrNoReachableCell", err)
		}
	})
}

func TestAnimalMovement(t *testing.T) {
	// Neighbours of (1, 1) in scan order: (1, 2), (2, 1), (1, 0), (0, 1).
	scannedPlant := func() *entities.Plant { return &entities.Plant{Kind: entities.PlantMoss, Mass: 1, Scanned: true} }
	scannedWater := func(purity float64) *entities.Water {
		return &entities.Water{Name: "W", Mass: 10, Purity: purity, PH: 7.5, Scanned: true}
	}

	tests := []struct {
		name     string
		predator bool
		setup    func(m *world.Map)
		want     world.Coord
		wantPrey bool
	}{
		{
			name: "first neighbour by default",
			setup: func(m *world.Map) {
				m.At(0, 1).Soil = &entities.Soil{}
			},
			want: world.Coord{X: 1, Y: 2},
		},
		{
			name: "plant and water beat plant",
			setup: func(m *world.Map) {
				m.At(1, 2).Plant = scannedPlant()
				m.At(0, 1).Plant = scannedPlant()
				m.At(0, 1).Water = scannedWater(10)
			},
			want: world.Coord{X: 0, Y: 1},
		},
		{
			name: "plant beats water",
			setup: func(m *world.Map) {
				m.At(1, 2).Water = scannedWater(90)
				m.At(1, 0).Plant = scannedPlant()
			},
			want: world.Coord{X: 1, Y: 0},
		},
		{
			name: "cleanest water",
			setup: func(m *world.Map) {
				m.At(1, 2).Water = scannedWater(20)
				m.At(2, 1).Water = scannedWater(90)
				m.At(0, 1).Water = scannedWater(90)
			},
			want: world.Coord{X: 2, Y: 1},
		},
		{
			name: "unscanned food is ignored",
			setup: func(m *world.Map) {
				m.At(1, 2).Soil = &entities.Soil{}
				m.At(2, 1).Plant = &entities.Plant{Kind: entities.PlantMoss, Mass: 1}
				m.At(1, 0).Water = scannedWater(50)
			},
			want: world.Coord{X: 1, Y: 0},
		},
		{
			name: "occupied cells are skipped",
			setup: func(m *world.Map) {
				m.At(1, 2).Animal = &entities.Animal{Kind: entities.AnimalHerbivore, Mass: 1}
				m.At(1, 2).Plant = scannedPlant()
			},
			want: world.Coord{X: 2, Y: 1},
		},
		{
			name:     "predator pushes occupant into prey slot",
			predator: true,
			setup: func(m *world.Map) {
				m.At(1, 2).Animal = &entities.Animal{Kind: entities.AnimalHerbivore, Mass: 1}
			},
			want:     world.Coord{X: 1, Y: 2},
			wantPrey: true,
		},
		{
			name:     "predator skips cell with prey",
			predator: true,
			setup: func(m *world.Map) {
				m.At(1, 2).Animal = &entities.Animal{Kind: entities.AnimalHerbivore, Mass: 1}
				m.At(1, 2).Prey = &entities.Animal{Kind: entities.AnimalHerbivore, Mass: 1}
			},
			want: world.Coord{X: 2, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSim(3, 3, 0)
			tt.setup(sim.Map)
			kind := entities.AnimalHerbivore
			if tt.predator {
				kind = entities.AnimalCarnivore
			}
			a := scannedAnimal(kind, "Mover", 5)
			from := sim.Map.At(1, 1)
			from.Animal = a

			dst := sim.moveAnimal(from, a)
			if dst == nil {
				t.Fatal("animal did not move")
			}
			if dst.Coord != tt.want {
				t.Errorf("moved to %v, want %v", dst.Coord, tt.want)
			}
			if from.Animal != nil || dst.Animal != a {
				t.Error("animal slots not updated")
			}
			if (dst.Prey != nil) != tt.wantPrey {
				t.Errorf("prey = %v, want present %v", dst.Prey, tt.wantPrey)
			}
		})
	}
}

func TestBestWaterZeroQualityTie(t *testing.T) {
	frozen := func() *world.Cell {
		return &world.Cell{Water: &entities.Water{Frozen: true, PH: 0, Salinity: 350, Turbidity: 100, ContaminantIndex: 100}}
	}
	first, second := frozen(), frozen()
	if q := first.Water.Quality(); q != 0 {
		t.Fatalf("quality = %v, want 0", q)
	}
	if got := bestWater([]*world.Cell{first, second}); got != first {
		t.Error("zero-quality tie should pick the first cell")
	}
}
