package world

import "fmt"

// Map holds the fixed-size rectangular grid of cells.
type Map struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	cells []Cell // column-major: index = x*Height + y
}

// NewMap creates an empty map. Every cell exists from creation and keeps its
// coordinates for the map's lifetime.
func NewMap(width, height int) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m := &Map{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			m.cells[x*height+y].Coord = Coord{X: x, Y: y}
		}
	}
	return m
}

// InBounds returns true if the coordinate lies on the map.
func (m *Map) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.Width && c.Y < m.Height
}

// Get returns the cell at the given coordinate, or nil if out of bounds.
func (m *Map) Get(c Coord) *Cell {
	if !m.InBounds(c) {
		return nil
	}
	return &m.cells[c.X*m.Height+c.Y]
}

// At is Get with separate coordinates.
func (m *Map) At(x, y int) *Cell {
	return m.Get(Coord{X: x, Y: y})
}

// Each visits every cell, x outer and y inner.
func (m *Map) Each(fn func(c *Cell)) {
	for i := range m.cells {
		fn(&m.cells[i])
	}
}

// EachRow visits every cell row by row: y outer and x inner.
func (m *Map) EachRow(fn func(c *Cell)) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			fn(&m.cells[x*m.Height+y])
		}
	}
}

// Neighbors returns the in-bounds orthogonal neighbours of c in priority
// order: +y, +x, -y, -x.
func (m *Map) Neighbors(c Coord) []*Cell {
	out := make([]*Cell, 0, len(Directions))
	for _, d := range Directions {
		if n := m.Get(c.Add(d)); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// CellCount returns the total number of cells in the map.
func (m *Map) CellCount() int {
	return len(m.cells)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, cells=%d)", m.Width, m.Height, m.CellCount())
}
