package grid

import (
	"sync"
	"sync/atomic"
	"time"
)

// Registry owns one DoubleBuffer per world region, created lazily on first
// reference. Lookups vastly outnumber insertions, so the map sits behind a
// reader-writer lock with double-checked creation on the slow path.
type Registry struct {
	mu    sync.RWMutex
	grids map[string]*DoubleBuffer

	minInterval time.Duration
	layout      func(region string) Layout

	constructions atomic.Uint64
}

func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		grids:       make(map[string]*DoubleBuffer),
		minInterval: MinRefreshInterval,
		layout:      func(string) Layout { return DefaultLayout },
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get returns the region's grid if it exists. Shared-lock lookup only;
// callers decide whether absence warrants creation.
func (r *Registry) Get(region string) (*DoubleBuffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.grids[region]
	return b, ok
}

// GetOrCreate returns the region's grid, constructing it on first
// reference. Under any number of concurrent callers for a brand-new region
// exactly one buffer is constructed: the write lock is re-checked after
// the read lock is dropped.
func (r *Registry) GetOrCreate(region string) *DoubleBuffer {
	r.mu.RLock()
	b, ok := r.grids[region]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race between the locks.
	if b, ok := r.grids[region]; ok {
		return b
	}

	b = NewDoubleBuffer(region, r.layout(region), r.minInterval)
	r.grids[region] = b
	r.constructions.Add(1)
	return b
}

// Destroy drops the region's grid. Queries holding the buffer finish
// against their captured generation; new lookups miss.
func (r *Registry) Destroy(region string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.grids, region)
}

// Regions returns the ids of all registered grids.
func (r *Registry) Regions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.grids))
	for id := range r.grids {
		out = append(out, id)
	}
	return out
}

// Constructions returns how many buffers this registry has ever built.
func (r *Registry) Constructions() uint64 {
	return r.constructions.Load()
}
