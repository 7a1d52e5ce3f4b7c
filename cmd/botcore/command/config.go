package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval      string          `json:"tick_interval"`
	RefreshInterval   string          `json:"refresh_interval"`
	LatencyBudget     string          `json:"latency_budget,omitempty"`
	StatsInterval     string          `json:"stats_interval,omitempty"`
	MaxActionsPerTick int             `json:"max_actions_per_tick,omitempty"`
	MaxQueueSize      int             `json:"max_queue_size,omitempty"`
	Consoles          []ConsoleConfig `json:"consoles,omitempty"`
	Storage           StorageConfig   `json:"storage"`
	Nats              NatsConfig      `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(validateInterval("tick_interval", c.TickInterval, 50*time.Millisecond))
	el.Add(validateInterval("refresh_interval", c.RefreshInterval, 50*time.Millisecond))

	if c.LatencyBudget != "" {
		el.Add(validateInterval("latency_budget", c.LatencyBudget, 0))
	}
	if c.StatsInterval != "" {
		el.Add(validateInterval("stats_interval", c.StatsInterval, 0))
	}

	if c.MaxActionsPerTick < 0 {
		el.Add(fmt.Errorf("max_actions_per_tick must not be negative"))
	}
	if c.MaxQueueSize < 0 {
		el.Add(fmt.Errorf("max_queue_size must not be negative"))
	}

	for i, l := range c.Consoles {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("console %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}

func validateInterval(name, val string, floor time.Duration) error {
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if d < floor {
		return fmt.Errorf("%s must be at least %s", name, floor)
	}
	return nil
}
