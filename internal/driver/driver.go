package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 100
)

// Manager is anything driven once per tick: the world, the grid update
// scheduler, the action processor.
type Manager interface {
	Tick(context.Context) error
}

// Driver runs the authority loop. The goroutine inside Start is the one
// thread that mutates live world state, refreshes grids, and applies
// actions; managers are ticked in registration order so world updates
// happen before grid refreshes and grid refreshes before action
// processing.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
