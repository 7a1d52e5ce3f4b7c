package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-botcore/internal/stats"
)

// StatsSubject is where counter snapshots are published.
const StatsSubject = "stats"

// Publisher sends event payloads to interested subscribers.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Reporter produces counter reports. Satisfied by stats.Collector.
type Reporter interface {
	Report() stats.Report
}

// StatsPublisher periodically publishes a counter report for external
// observers. Ticked by the driver; publishes at most once per interval so
// the tick rate does not set the broadcast rate.
type StatsPublisher struct {
	pub       Publisher
	collector Reporter
	interval  time.Duration
	last      time.Time
}

func NewStatsPublisher(pub Publisher, collector Reporter, interval time.Duration) *StatsPublisher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &StatsPublisher{
		pub:       pub,
		collector: collector,
		interval:  interval,
	}
}

// Tick publishes a report when the interval has elapsed. Runs on the
// authority thread, so last needs no locking.
func (p *StatsPublisher) Tick(ctx context.Context) error {
	now := time.Now()
	if now.Sub(p.last) < p.interval {
		return nil
	}
	p.last = now

	data, err := json.Marshal(p.collector.Report())
	if err != nil {
		return fmt.Errorf("marshalling stats report: %w", err)
	}
	if err := p.pub.Publish(StatsSubject, data); err != nil {
		return fmt.Errorf("publishing stats report: %w", err)
	}
	return nil
}
