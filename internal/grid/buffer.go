package grid

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-log"
)

// MinRefreshInterval is the floor for the refresh throttle. Anything lower
// burns CPU re-snapshotting state that decision workers cannot consume any
// faster.
const MinRefreshInterval = 50 * time.Millisecond

// Source enumerates the live entities of one region as snapshot values.
// Only the authority thread may call into a Source; the double buffer
// guarantees that by running population inside the writer critical section
// of Refresh, which the scheduler invokes from the authority tick.
type Source interface {
	EachEntity(region string, fn func(snapshot.Snapshot)) error
}

// BufferStats is a point-in-time copy of a double buffer's counters.
type BufferStats struct {
	Generation        uint64
	Refreshes         uint64
	SkippedContention uint64
	SkippedThrottle   uint64
	Failed            uint64
	Dropped           uint64
	LastCount         int
	LastDuration      time.Duration
	LastRefresh       time.Time
}

// DoubleBuffer holds two grids for one region: the current read generation,
// queried freely by any number of decision workers, and an inactive write
// generation the next refresh repopulates. A refresh fully rebuilds the
// inactive grid and then flips the read index, so a query started before
// the flip finishes against the old generation and one started after sees
// the new one in full. Nothing ever mutates the grid a reader may hold.
type DoubleBuffer struct {
	region string
	grids  [2]*Grid

	// readIdx selects the current read generation. The store in swap
	// happens after the write grid is fully populated, so a load here
	// never observes a partially built grid.
	readIdx    atomic.Uint32
	generation atomic.Uint64

	// refreshMu guards the writer section. Acquired with TryLock only: a
	// refresh that loses the race is a silent no-op, never a waiter.
	refreshMu   sync.Mutex
	minInterval time.Duration
	lastRefresh atomic.Int64 // unix nanos of the last completed refresh

	refreshes         atomic.Uint64
	skippedContention atomic.Uint64
	skippedThrottle   atomic.Uint64
	failed            atomic.Uint64
	dropped           atomic.Uint64
	lastCount         atomic.Int64
	lastDuration      atomic.Int64
}

// NewDoubleBuffer creates a double buffer for one region. The refresh
// interval is clamped to MinRefreshInterval.
func NewDoubleBuffer(region string, layout Layout, minInterval time.Duration) *DoubleBuffer {
	if minInterval < MinRefreshInterval {
		minInterval = MinRefreshInterval
	}
	return &DoubleBuffer{
		region:      region,
		grids:       [2]*Grid{NewGrid(layout), NewGrid(layout)},
		minInterval: minInterval,
	}
}

// Region returns the region this buffer indexes.
func (b *DoubleBuffer) Region() string {
	return b.region
}

// Generation returns the epoch of the current read grid.
func (b *DoubleBuffer) Generation() uint64 {
	return b.generation.Load()
}

// Refresh repopulates the inactive grid from src and swaps it in. Safe to
// call from any number of goroutines, but the body runs at most once at a
// time: a caller that finds another refresh in flight, or the throttle
// interval not yet elapsed, returns false without doing any work. Returns
// true only when a new generation was published.
//
// A source error abandons the half-built write grid without swapping; the
// previous generation stays authoritative and the next refresh simply
// starts over.
func (b *DoubleBuffer) Refresh(ctx context.Context, src Source) bool {
	logger := log.GetLogger(ctx)

	if !b.refreshMu.TryLock() {
		b.skippedContention.Add(1)
		logger.Debugf("skipping refresh of region %s, another refresh in flight", b.region)
		return false
	}
	defer b.refreshMu.Unlock()

	now := time.Now()
	if now.Sub(time.Unix(0, b.lastRefresh.Load())) < b.minInterval {
		b.skippedThrottle.Add(1)
		logger.Debugf("skipping refresh of region %s, interval not elapsed", b.region)
		return false
	}

	gen := b.generation.Load() + 1
	write := b.grids[1-b.readIdx.Load()]
	write.reset()

	count := 0
	err := src.EachEntity(b.region, func(s snapshot.Snapshot) {
		s.Generation = gen
		if !s.IsValid() {
			return
		}
		if !write.add(s) {
			b.dropped.Add(1)
			logger.Debugf("dropping entity %s at (%g,%g), outside region %s extent", s.ID, s.Pos.X, s.Pos.Y, b.region)
			return
		}
		count++
	})
	if err != nil {
		// The write grid holds a partial population; leave it for the
		// next attempt and keep serving the previous generation.
		b.failed.Add(1)
		logger.WithError(err).Errorf("refreshing grid for region %s", b.region)
		return false
	}

	b.swap(gen)

	b.refreshes.Add(1)
	b.lastCount.Store(int64(count))
	b.lastDuration.Store(int64(time.Since(now)))
	b.lastRefresh.Store(now.UnixNano())
	return true
}

// swap flips the read index to the freshly populated grid and publishes
// the new generation. The atomic stores order after every cell write made
// during population, so readers see either the complete old grid or the
// complete new one.
func (b *DoubleBuffer) swap(gen uint64) {
	b.readIdx.Store(1 - b.readIdx.Load())
	b.generation.Store(gen)
}

// QueryNearby returns copies of every valid snapshot of the given kind
// within radius of center, read from the current generation. The read grid
// is captured once on entry, so one call never mixes fields from two
// generations. Non-blocking; safe from any goroutine.
func (b *DoubleBuffer) QueryNearby(kind snapshot.Kind, center snapshot.Position, radius float64) []snapshot.Snapshot {
	read := b.grids[b.readIdx.Load()]

	x0, y0 := read.CellCoords(snapshot.Position{X: center.X - radius, Y: center.Y - radius})
	x1, y1 := read.CellCoords(snapshot.Position{X: center.X + radius, Y: center.Y + radius})
	rsq := radius * radius

	var out []snapshot.Snapshot
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for _, s := range read.cellAt(x, y).bucket(kind) {
				if !s.IsValid() {
					continue
				}
				if s.Pos.DistSq(center) > rsq {
					continue
				}
				out = append(out, s)
			}
		}
	}
	return out
}

// Stats returns a copy of the buffer's counters.
func (b *DoubleBuffer) Stats() BufferStats {
	return BufferStats{
		Generation:        b.generation.Load(),
		Refreshes:         b.refreshes.Load(),
		SkippedContention: b.skippedContention.Load(),
		SkippedThrottle:   b.skippedThrottle.Load(),
		Failed:            b.failed.Load(),
		Dropped:           b.dropped.Load(),
		LastCount:         int(b.lastCount.Load()),
		LastDuration:      time.Duration(b.lastDuration.Load()),
		LastRefresh:       time.Unix(0, b.lastRefresh.Load()),
	}
}
