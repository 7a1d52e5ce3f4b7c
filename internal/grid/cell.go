package grid

import (
	"github.com/pixil98/go-botcore/internal/snapshot"
)

// Cell is one fixed-size spatial bucket of a Grid. It holds one slice of
// snapshots per entity kind so queries for a single kind never scan the
// others. Cells grow their slices as needed; there is no per-cell cap.
type Cell struct {
	buckets [snapshot.NumKinds][]snapshot.Snapshot
}

func (c *Cell) add(s snapshot.Snapshot) {
	k := int(s.Kind)
	c.buckets[k] = append(c.buckets[k], s)
}

func (c *Cell) bucket(k snapshot.Kind) []snapshot.Snapshot {
	return c.buckets[int(k)]
}

// reset empties every bucket while keeping the backing arrays, so a steady
// population count stops allocating after the first few refreshes.
func (c *Cell) reset() {
	for i := range c.buckets {
		c.buckets[i] = c.buckets[i][:0]
	}
}
