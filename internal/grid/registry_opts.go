package grid

import "time"

type RegistryOpt func(*Registry)

// WithRefreshInterval sets the minimum interval between refreshes for all
// grids the registry creates. Clamped to MinRefreshInterval.
func WithRefreshInterval(d time.Duration) RegistryOpt {
	return func(r *Registry) {
		r.minInterval = d
	}
}

// WithLayout sets the per-region grid geometry lookup. Regions the func
// has no layout for should return DefaultLayout.
func WithLayout(fn func(region string) Layout) RegistryOpt {
	return func(r *Registry) {
		r.layout = fn
	}
}
