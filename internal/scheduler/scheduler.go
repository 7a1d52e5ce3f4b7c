package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-botcore/internal/grid"
	"github.com/pixil98/go-log"
)

// DefaultLatencyBudget is the cycle duration above which a warning is
// logged. A refresh cycle competing with the tick budget starves the
// action processor.
const DefaultLatencyBudget = 100 * time.Millisecond

// RegionSource lists the regions whose grids need refreshing.
type RegionSource interface {
	Regions() []string
}

// Stats is a point-in-time copy of the scheduler's counters.
type Stats struct {
	Cycles       uint64
	Skipped      uint64
	LastDuration time.Duration
	AvgDuration  time.Duration
}

// Scheduler is the single call site that triggers grid refreshes. The
// driver ticks it once per server tick on the authority thread; each
// grid's own throttle makes the repeated calls cheap no-ops between
// refresh intervals, so there is never more than one thread asking any
// grid to refresh.
type Scheduler struct {
	registry *grid.Registry
	source   grid.Source
	regions  RegionSource
	budget   time.Duration

	cycles        atomic.Uint64
	skipped       atomic.Uint64
	lastDuration  atomic.Int64
	totalDuration atomic.Int64
}

func NewScheduler(registry *grid.Registry, source grid.Source, regions RegionSource, opts ...SchedulerOpt) *Scheduler {
	s := &Scheduler{
		registry: registry,
		source:   source,
		regions:  regions,
		budget:   DefaultLatencyBudget,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tick refreshes every registered region's grid, creating grids for
// regions seen for the first time and destroying grids whose region has
// been torn down. Called every tick by the driver.
func (s *Scheduler) Tick(ctx context.Context) error {
	start := time.Now()

	regions := s.regions.Regions()
	live := make(map[string]bool, len(regions))

	refreshed := 0
	for _, region := range regions {
		live[region] = true
		b := s.registry.GetOrCreate(region)
		if b.Refresh(ctx, s.source) {
			refreshed++
		} else {
			s.skipped.Add(1)
		}
	}

	// Grids for removed regions would otherwise linger in the registry and
	// its counter reports forever.
	for _, region := range s.registry.Regions() {
		if !live[region] {
			s.registry.Destroy(region)
			log.GetLogger(ctx).Infof("destroyed grid for removed region %s", region)
		}
	}

	dur := time.Since(start)
	s.cycles.Add(1)
	s.lastDuration.Store(int64(dur))
	s.totalDuration.Add(int64(dur))

	if dur > s.budget {
		log.GetLogger(ctx).Warnf("grid update cycle took %s (budget %s, refreshed %d)", dur, s.budget, refreshed)
	}
	return nil
}

// Stats returns a copy of the scheduler's counters.
func (s *Scheduler) Stats() Stats {
	cycles := s.cycles.Load()
	var avg time.Duration
	if cycles > 0 {
		avg = time.Duration(s.totalDuration.Load() / int64(cycles))
	}
	return Stats{
		Cycles:       cycles,
		Skipped:      s.skipped.Load(),
		LastDuration: time.Duration(s.lastDuration.Load()),
		AvgDuration:  avg,
	}
}
