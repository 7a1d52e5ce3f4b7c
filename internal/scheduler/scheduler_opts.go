package scheduler

import "time"

type SchedulerOpt func(*Scheduler)

// WithLatencyBudget sets the cycle duration that triggers a warning.
func WithLatencyBudget(d time.Duration) SchedulerOpt {
	return func(s *Scheduler) {
		if d > 0 {
			s.budget = d
		}
	}
}
