package grid

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("meadow")
	testutil.AssertEqual(t, "before create", ok, false)

	b := r.GetOrCreate("meadow")
	if b == nil {
		t.Fatal("expected a buffer")
	}
	testutil.AssertEqual(t, "region", b.Region(), "meadow")

	again := r.GetOrCreate("meadow")
	if b != again {
		t.Error("expected the same buffer on repeat lookup")
	}
	testutil.AssertEqual(t, "constructions", r.Constructions(), uint64(1))
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	buffers := make([]*DoubleBuffer, 32)
	for i := range buffers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buffers[i] = r.GetOrCreate("meadow")
		}(i)
	}
	wg.Wait()

	for i, b := range buffers {
		if b != buffers[0] {
			t.Fatalf("caller %d got a different buffer", i)
		}
	}
	testutil.AssertEqual(t, "constructions", r.Constructions(), uint64(1))
}

func TestRegistry_Destroy(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("meadow")

	r.Destroy("meadow")
	_, ok := r.Get("meadow")
	testutil.AssertEqual(t, "after destroy", ok, false)

	// Recreation counts as a new construction.
	r.GetOrCreate("meadow")
	testutil.AssertEqual(t, "constructions", r.Constructions(), uint64(2))
}

func TestRegistry_Regions(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("meadow")
	r.GetOrCreate("cavern")

	regions := r.Regions()
	sort.Strings(regions)
	testutil.AssertEqual(t, "regions", regions, []string{"cavern", "meadow"})
}

func TestRegistry_Options(t *testing.T) {
	layout := Layout{Width: 8, Height: 4, CellSize: 25}
	r := NewRegistry(
		WithRefreshInterval(200*time.Millisecond),
		WithLayout(func(region string) Layout { return layout }),
	)

	b := r.GetOrCreate("meadow")
	testutil.AssertEqual(t, "min interval", b.minInterval, 200*time.Millisecond)
	testutil.AssertEqual(t, "layout", b.grids[0].layout, layout)
}

func TestRegistry_IntervalClamped(t *testing.T) {
	r := NewRegistry(WithRefreshInterval(time.Millisecond))
	b := r.GetOrCreate("meadow")
	testutil.AssertEqual(t, "clamped", b.minInterval, MinRefreshInterval)
}
