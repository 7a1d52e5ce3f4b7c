package stats

import (
	"sort"
	"time"

	"github.com/pixil98/go-botcore/internal/action"
	"github.com/pixil98/go-botcore/internal/grid"
	"github.com/pixil98/go-botcore/internal/scheduler"
	"github.com/pixil98/go-botcore/internal/world"
)

// GridReport pairs a region id with its buffer counters.
type GridReport struct {
	Region string `json:"region"`
	grid.BufferStats
}

// Report is one consistent-enough view of every counter the core exposes.
// Counters are read individually without a global lock; operators read
// trends, not invariants, off this surface.
type Report struct {
	Time      time.Time             `json:"time"`
	Regions   int                   `json:"regions"`
	Entities  int                   `json:"entities"`
	Grids     []GridReport          `json:"grids"`
	Queue     action.QueueStats     `json:"queue"`
	Processor action.ProcessorStats `json:"processor"`
	Scheduler scheduler.Stats       `json:"scheduler"`
}

// Collector gathers counters from every core component.
type Collector struct {
	world     *world.WorldState
	registry  *grid.Registry
	queue     *action.Queue
	processor *action.Processor
	scheduler *scheduler.Scheduler
}

func NewCollector(w *world.WorldState, r *grid.Registry, q *action.Queue, p *action.Processor, s *scheduler.Scheduler) *Collector {
	return &Collector{
		world:     w,
		registry:  r,
		queue:     q,
		processor: p,
		scheduler: s,
	}
}

// Report returns a current copy of all counters, grids sorted by region id.
func (c *Collector) Report() Report {
	regions, entities := c.world.Counts()

	var grids []GridReport
	for _, id := range c.registry.Regions() {
		if b, ok := c.registry.Get(id); ok {
			grids = append(grids, GridReport{Region: id, BufferStats: b.Stats()})
		}
	}
	sort.Slice(grids, func(i, j int) bool { return grids[i].Region < grids[j].Region })

	return Report{
		Time:      time.Now(),
		Regions:   regions,
		Entities:  entities,
		Grids:     grids,
		Queue:     c.queue.Stats(),
		Processor: c.processor.Stats(),
		Scheduler: c.scheduler.Stats(),
	}
}
