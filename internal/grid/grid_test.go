package grid

import (
	"testing"

	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-testutil"
)

func TestGrid_CellCoords(t *testing.T) {
	g := NewGrid(Layout{Width: 4, Height: 4, CellSize: 10})

	tests := map[string]struct {
		pos  snapshot.Position
		expX int
		expY int
	}{
		"origin":             {pos: snapshot.Position{X: 0, Y: 0}, expX: 0, expY: 0},
		"inside cell":        {pos: snapshot.Position{X: 15, Y: 25}, expX: 1, expY: 2},
		"cell boundary":      {pos: snapshot.Position{X: 10, Y: 10}, expX: 1, expY: 1},
		"clamped high":       {pos: snapshot.Position{X: 500, Y: 500}, expX: 3, expY: 3},
		"clamped negative":   {pos: snapshot.Position{X: -5, Y: -50}, expX: 0, expY: 0},
		"last cell interior": {pos: snapshot.Position{X: 39, Y: 39}, expX: 3, expY: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x, y := g.CellCoords(tt.pos)
			testutil.AssertEqual(t, "x", x, tt.expX)
			testutil.AssertEqual(t, "y", y, tt.expY)
		})
	}
}

func TestGrid_Contains(t *testing.T) {
	g := NewGrid(Layout{Width: 4, Height: 4, CellSize: 10})

	testutil.AssertEqual(t, "inside", g.Contains(snapshot.Position{X: 20, Y: 20}), true)
	testutil.AssertEqual(t, "on edge", g.Contains(snapshot.Position{X: 40, Y: 0}), false)
	testutil.AssertEqual(t, "negative", g.Contains(snapshot.Position{X: -1, Y: 5}), false)
}

func TestGrid_AddOutOfExtent(t *testing.T) {
	g := NewGrid(Layout{Width: 2, Height: 2, CellSize: 10})

	ok := g.add(snapshot.Snapshot{ID: "a", Kind: snapshot.KindCreature, Pos: snapshot.Position{X: 100, Y: 100}, Health: 1})
	testutil.AssertEqual(t, "added", ok, false)

	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			testutil.AssertEqual(t, "cell empty", len(g.cellAt(x, y).bucket(snapshot.KindCreature)), 0)
		}
	}
}

func TestGrid_AddPlacesInCorrectCell(t *testing.T) {
	g := NewGrid(Layout{Width: 4, Height: 4, CellSize: 10})

	ok := g.add(snapshot.Snapshot{ID: "a", Kind: snapshot.KindPlayer, Pos: snapshot.Position{X: 25, Y: 35}, Health: 1})
	testutil.AssertEqual(t, "added", ok, true)
	testutil.AssertEqual(t, "cell population", len(g.cellAt(2, 3).bucket(snapshot.KindPlayer)), 1)
	testutil.AssertEqual(t, "other kind empty", len(g.cellAt(2, 3).bucket(snapshot.KindCreature)), 0)
}

func TestGrid_ResetKeepsCapacity(t *testing.T) {
	g := NewGrid(Layout{Width: 2, Height: 2, CellSize: 10})
	g.add(snapshot.Snapshot{ID: "a", Kind: snapshot.KindCreature, Pos: snapshot.Position{X: 5, Y: 5}, Health: 1})

	g.reset()

	testutil.AssertEqual(t, "emptied", len(g.cellAt(0, 0).bucket(snapshot.KindCreature)), 0)
	if cap(g.cellAt(0, 0).buckets[int(snapshot.KindCreature)]) == 0 {
		t.Error("expected reset to keep bucket capacity")
	}
}
