package grid

import (
	"github.com/pixil98/go-botcore/internal/snapshot"
)

// Layout describes the cell geometry of one region's grid.
type Layout struct {
	// Width and Height are the grid extent in cells.
	Width  int
	Height int
	// CellSize is the side length of one cell in world units.
	CellSize float64
}

// DefaultLayout is used for regions without an explicit layout.
var DefaultLayout = Layout{Width: 64, Height: 64, CellSize: 16}

func (l Layout) valid() bool {
	return l.Width > 0 && l.Height > 0 && l.CellSize > 0
}

// Grid is a flat 2D array of cells covering one bounded region. A Grid is
// never shared between a writer and readers directly; the DoubleBuffer
// hands out whichever of its two grids is the current read generation.
type Grid struct {
	layout Layout
	cells  []Cell
}

func NewGrid(layout Layout) *Grid {
	if !layout.valid() {
		layout = DefaultLayout
	}
	return &Grid{
		layout: layout,
		cells:  make([]Cell, layout.Width*layout.Height),
	}
}

// CellCoords maps a position to integer cell coordinates, clamped to the
// grid extent. Out-of-extent positions clamp to the border cell; callers
// that must reject such positions check Contains first.
func (g *Grid) CellCoords(p snapshot.Position) (int, int) {
	x := int(p.X / g.layout.CellSize)
	y := int(p.Y / g.layout.CellSize)
	if x < 0 {
		x = 0
	} else if x >= g.layout.Width {
		x = g.layout.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.layout.Height {
		y = g.layout.Height - 1
	}
	return x, y
}

// Contains reports whether the position falls inside the grid extent.
func (g *Grid) Contains(p snapshot.Position) bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.X < float64(g.layout.Width)*g.layout.CellSize &&
		p.Y < float64(g.layout.Height)*g.layout.CellSize
}

// add places a snapshot in the cell its position maps to. Returns false,
// without placing, when the position is outside the grid extent.
func (g *Grid) add(s snapshot.Snapshot) bool {
	if !g.Contains(s.Pos) {
		return false
	}
	x, y := g.CellCoords(s.Pos)
	g.cells[y*g.layout.Width+x].add(s)
	return true
}

func (g *Grid) cellAt(x, y int) *Cell {
	return &g.cells[y*g.layout.Width+x]
}

// reset empties every cell in place.
func (g *Grid) reset() {
	for i := range g.cells {
		g.cells[i].reset()
	}
}
