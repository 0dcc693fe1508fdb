package world

import (
	"testing"

	"github.com/talgya/terra-world/internal/entities"
)

func TestMapBounds(t *testing.T) {
	m := NewMap(3, 2)
	tests := []struct {
		c    Coord
		want bool
	}{
		{Coord{0, 0}, true},
		{Coord{2, 1}, true},
		{Coord{3, 0}, false},
		{Coord{0, 2}, false},
		{Coord{-1, 0}, false},
		{Coord{0, -1}, false},
	}
	for _, tt := range tests {
		got := m.Get(tt.c)
		if (got != nil) != tt.want {
			t.Errorf("Get(%+v) present = %v, want %v", tt.c, got != nil, tt.want)
		}
		if got != nil && got.Coord != tt.c {
			t.Errorf("Get(%+v).Coord = %+v", tt.c, got.Coord)
		}
	}
}

func TestNeighborsOrder(t *testing.T) {
	m := NewMap(3, 3)
	got := m.Neighbors(Coord{1, 1})
	want := []Coord{{1, 2}, {2, 1}, {1, 0}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("neighbors = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Coord != want[i] {
			t.Errorf("neighbor %d = %+v, want %+v", i, got[i].Coord, want[i])
		}
	}

	corner := m.Neighbors(Coord{0, 0})
	if len(corner) != 2 || corner[0].Coord != (Coord{0, 1}) || corner[1].Coord != (Coord{1, 0}) {
		t.Errorf("corner neighbors = %+v", corner)
	}
}

func TestTraversalOrders(t *testing.T) {
	m := NewMap(2, 3)
	var cols, rows []Coord
	m.Each(func(c *Cell) { cols = append(cols, c.Coord) })
	m.EachRow(func(c *Cell) { rows = append(rows, c.Coord) })

	wantCols := []Coord{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	wantRows := []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Errorf("Each[%d] = %+v, want %+v", i, cols[i], wantCols[i])
		}
		if rows[i] != wantRows[i] {
			t.Errorf("EachRow[%d] = %+v, want %+v", i, rows[i], wantRows[i])
		}
	}
}

func TestObjectCount(t *testing.T) {
	c := &Cell{}
	if !c.IsEmpty() || c.ObjectCount() != 0 {
		t.Fatal("new cell should be empty")
	}
	c.Air = &entities.Air{}
	c.Soil = &entities.Soil{}
	if c.ObjectCount() != 0 {
		t.Errorf("air and soil are not counted, got %d", c.ObjectCount())
	}
	c.Plant = &entities.Plant{}
	c.Water = &entities.Water{}
	c.Animal = &entities.Animal{}
	if c.ObjectCount() != 3 {
		t.Errorf("ObjectCount = %d, want 3", c.ObjectCount())
	}
	if c.HasScannedPlant() || c.HasScannedWater() {
		t.Error("unscanned entities reported as scanned")
	}
}
