package command

import (
	"fmt"
	"math"
	"time"

	"github.com/pixil98/go-botcore/internal/action"
	"github.com/pixil98/go-botcore/internal/console"
	"github.com/pixil98/go-botcore/internal/driver"
	"github.com/pixil98/go-botcore/internal/grid"
	"github.com/pixil98/go-botcore/internal/messaging"
	"github.com/pixil98/go-botcore/internal/scheduler"
	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-botcore/internal/stats"
	"github.com/pixil98/go-botcore/internal/storage"
	"github.com/pixil98/go-botcore/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tickInterval, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	refreshInterval, err := time.ParseDuration(cfg.RefreshInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing refresh_interval: %w", err)
	}

	// Create the embedded message broker
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Load region and spawn template assets
	regionStore, mobileStore, err := cfg.Storage.buildStores()
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	// Build the live world and seed it from the templates
	worldState := world.NewWorldState(natsServer)
	if err := addRegions(worldState, regionStore); err != nil {
		return nil, fmt.Errorf("adding regions: %w", err)
	}
	if err := seedMobiles(worldState, mobileStore); err != nil {
		return nil, fmt.Errorf("seeding mobiles: %w", err)
	}

	// Grid registry with per-region layouts from the region assets
	registry := grid.NewRegistry(
		grid.WithRefreshInterval(refreshInterval),
		grid.WithLayout(regionLayout(regionStore)),
	)

	// Action pipeline
	queue := action.NewQueue(cfg.MaxQueueSize)
	var procOpts []action.ProcessorOpt
	if cfg.MaxActionsPerTick > 0 {
		procOpts = append(procOpts, action.WithMaxPerTick(cfg.MaxActionsPerTick))
	}
	procOpts = append(procOpts, action.WithPublisher(natsServer))
	processor := action.NewProcessor(queue, worldState, procOpts...)

	// Refresh scheduler
	var schedOpts []scheduler.SchedulerOpt
	if cfg.LatencyBudget != "" {
		budget, err := time.ParseDuration(cfg.LatencyBudget)
		if err != nil {
			return nil, fmt.Errorf("parsing latency_budget: %w", err)
		}
		schedOpts = append(schedOpts, scheduler.WithLatencyBudget(budget))
	}
	sched := scheduler.NewScheduler(registry, worldState, worldState, schedOpts...)

	// Stats surface
	collector := stats.NewCollector(worldState, registry, queue, processor, sched)
	statsInterval := 10 * time.Second
	if cfg.StatsInterval != "" {
		statsInterval, err = time.ParseDuration(cfg.StatsInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing stats_interval: %w", err)
		}
	}
	statsPub := messaging.NewStatsPublisher(natsServer, collector, statsInterval)

	// The authority loop: world updates, then grid refreshes, then action
	// processing, then the stats broadcast.
	botDriver := driver.NewDriver(
		[]driver.Manager{worldState, sched, processor, statsPub},
		driver.WithTickLength(tickInterval),
	)

	// Operator consoles
	cm := console.NewConnectionManager(collector)
	consoles := make(service.WorkerList, len(cfg.Consoles))
	for i, cc := range cfg.Consoles {
		listener, err := cc.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating console %d: %w", i, err)
		}
		consoles[fmt.Sprintf("console-%d", i)] = listener
	}

	return service.WorkerList{
		"nats":     natsServer,
		"driver":   botDriver,
		"consoles": &consoles,
	}, nil
}

func addRegions(w *world.WorldState, store *storage.FileStore[*world.RegionSpec]) error {
	for id, spec := range store.GetAll() {
		err := w.AddRegion(&world.Region{
			ID:       id,
			Width:    spec.Width,
			Height:   spec.Height,
			CellSize: spec.CellSize,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedMobiles(w *world.WorldState, store *storage.FileStore[*world.MobileTemplate]) error {
	for id, tmpl := range store.GetAll() {
		region := tmpl.Region.Get()
		for i := 0; i < tmpl.Count; i++ {
			pos := scatter(tmpl.SpawnAt, tmpl.SpawnSpread, i)
			pos.X = math.Min(pos.X, region.Width-1)
			pos.Y = math.Min(pos.Y, region.Height-1)

			_, err := w.Spawn(&world.Entity{
				Template:  id,
				Kind:      snapshot.KindCreature,
				Region:    tmpl.Region.Id(),
				Pos:       pos,
				Health:    tmpl.MaxHealth,
				MaxHealth: tmpl.MaxHealth,
				Hostile:   tmpl.Hostile,
				Level:     tmpl.Level,
				Faction:   tmpl.Faction,
				Abilities: tmpl.Abilities,
			})
			if err != nil {
				return fmt.Errorf("spawning %q #%d: %w", id, i, err)
			}
		}
	}
	return nil
}

// scatter offsets successive spawns on a small grid around the spawn point.
func scatter(at snapshot.Position, spread float64, i int) snapshot.Position {
	if spread <= 0 {
		spread = 1
	}
	return snapshot.Position{
		X: at.X + spread*float64(i%8),
		Y: at.Y + spread*float64(i/8),
	}
}

// regionLayout derives grid geometry from a region asset, falling back to
// the default layout for unknown regions.
func regionLayout(store *storage.FileStore[*world.RegionSpec]) func(string) grid.Layout {
	return func(region string) grid.Layout {
		spec := store.Get(region)
		if spec == nil {
			return grid.DefaultLayout
		}
		cellSize := spec.CellSize
		if cellSize <= 0 {
			cellSize = grid.DefaultLayout.CellSize
		}
		return grid.Layout{
			Width:    int(math.Ceil(spec.Width / cellSize)),
			Height:   int(math.Ceil(spec.Height / cellSize)),
			CellSize: cellSize,
		}
	}
}
