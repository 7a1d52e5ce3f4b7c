package grid

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-testutil"
)

// sliceSource serves a fixed set of snapshots, optionally failing partway
// through enumeration.
type sliceSource struct {
	entities []snapshot.Snapshot
	failAt   int // fail after emitting this many entities; -1 never fails
	calls    int
}

func (s *sliceSource) EachEntity(region string, fn func(snapshot.Snapshot)) error {
	s.calls++
	for i, e := range s.entities {
		if s.failAt >= 0 && i == s.failAt {
			return fmt.Errorf("backing store unavailable")
		}
		fn(e)
	}
	return nil
}

func creature(id string, x, y float64) snapshot.Snapshot {
	return snapshot.Snapshot{ID: id, Kind: snapshot.KindCreature, Pos: snapshot.Position{X: x, Y: y}, Health: 10, MaxHealth: 10}
}

func TestDoubleBuffer_QueryNearby(t *testing.T) {
	src := &sliceSource{
		failAt: -1,
		entities: []snapshot.Snapshot{
			creature("near-a", 4, 4),
			creature("near-b", 6, 5),
			creature("edge", 5, 15), // distance exactly 10 from (5,5)
			creature("far", 50, 50),
			{ID: "player", Kind: snapshot.KindPlayer, Pos: snapshot.Position{X: 5, Y: 5}, Health: 10, MaxHealth: 10},
		},
	}

	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	if !b.Refresh(context.Background(), src) {
		t.Fatal("expected first refresh to succeed")
	}

	got := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 5, Y: 5}, 10)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	sort.Strings(ids)

	testutil.AssertEqual(t, "matches", ids, []string{"edge", "near-a", "near-b"})
	for _, s := range got {
		testutil.AssertEqual(t, "generation stamped", s.Generation, uint64(1))
	}
}

func TestDoubleBuffer_QueryFiltersByKind(t *testing.T) {
	src := &sliceSource{
		failAt: -1,
		entities: []snapshot.Snapshot{
			creature("wolf", 5, 5),
			{ID: "hero", Kind: snapshot.KindPlayer, Pos: snapshot.Position{X: 5, Y: 5}, Health: 10, MaxHealth: 10},
		},
	}

	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	b.Refresh(context.Background(), src)

	players := b.QueryNearby(snapshot.KindPlayer, snapshot.Position{X: 5, Y: 5}, 10)
	testutil.AssertEqual(t, "player count", len(players), 1)
	testutil.AssertEqual(t, "player id", players[0].ID, "hero")
}

func TestDoubleBuffer_QueryEmptyBuffer(t *testing.T) {
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)

	got := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 5, Y: 5}, 10)
	testutil.AssertEqual(t, "results", len(got), 0)
}

func TestDoubleBuffer_RefreshThrottled(t *testing.T) {
	src := &sliceSource{failAt: -1, entities: []snapshot.Snapshot{creature("a", 1, 1)}}
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)

	testutil.AssertEqual(t, "first refresh", b.Refresh(context.Background(), src), true)
	testutil.AssertEqual(t, "second refresh", b.Refresh(context.Background(), src), false)
	testutil.AssertEqual(t, "generation", b.Generation(), uint64(1))
	testutil.AssertEqual(t, "source calls", src.calls, 1)

	stats := b.Stats()
	testutil.AssertEqual(t, "refreshes", stats.Refreshes, uint64(1))
	testutil.AssertEqual(t, "skipped throttle", stats.SkippedThrottle, uint64(1))
}

func TestDoubleBuffer_RefreshAfterIntervalElapsed(t *testing.T) {
	src := &sliceSource{failAt: -1, entities: []snapshot.Snapshot{creature("a", 1, 1)}}
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)

	b.Refresh(context.Background(), src)
	b.lastRefresh.Store(0) // pretend the interval elapsed
	testutil.AssertEqual(t, "refresh", b.Refresh(context.Background(), src), true)
	testutil.AssertEqual(t, "generation", b.Generation(), uint64(2))
}

func TestDoubleBuffer_FailedRefreshKeepsOldGeneration(t *testing.T) {
	good := &sliceSource{failAt: -1, entities: []snapshot.Snapshot{creature("a", 1, 1), creature("b", 2, 2)}}
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	b.Refresh(context.Background(), good)

	bad := &sliceSource{failAt: 1, entities: good.entities}
	b.lastRefresh.Store(0)
	testutil.AssertEqual(t, "failed refresh", b.Refresh(context.Background(), bad), false)
	testutil.AssertEqual(t, "generation", b.Generation(), uint64(1))
	testutil.AssertEqual(t, "failed counter", b.Stats().Failed, uint64(1))

	// The old generation still answers queries in full.
	got := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 1, Y: 1}, 5)
	testutil.AssertEqual(t, "survivors", len(got), 2)

	// A later successful refresh recovers.
	b.lastRefresh.Store(0)
	testutil.AssertEqual(t, "recovery refresh", b.Refresh(context.Background(), good), true)
	testutil.AssertEqual(t, "recovered generation", b.Generation(), uint64(2))
}

func TestDoubleBuffer_RemovedEntityGoneAfterRefresh(t *testing.T) {
	src := &sliceSource{failAt: -1, entities: []snapshot.Snapshot{creature("wolf-1", 5, 5)}}
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	b.Refresh(context.Background(), src)

	got := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 0, Y: 0}, 20)
	testutil.AssertEqual(t, "before removal", len(got), 1)
	testutil.AssertEqual(t, "id", got[0].ID, "wolf-1")

	// The entity leaves the live world; the next refresh must not carry it.
	src.entities = nil
	b.lastRefresh.Store(0)
	testutil.AssertEqual(t, "refresh", b.Refresh(context.Background(), src), true)

	got = b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 0, Y: 0}, 20)
	testutil.AssertEqual(t, "after removal", len(got), 0)
	testutil.AssertEqual(t, "generation advanced", b.Generation(), uint64(2))
	testutil.AssertEqual(t, "last count", b.Stats().LastCount, 0)
}

func TestDoubleBuffer_DropsInvalidAndOutOfExtent(t *testing.T) {
	layout := Layout{Width: 2, Height: 2, CellSize: 10}
	src := &sliceSource{
		failAt: -1,
		entities: []snapshot.Snapshot{
			creature("kept", 5, 5),
			creature("outside", 500, 500),
			{ID: "", Kind: snapshot.KindCreature, Pos: snapshot.Position{X: 1, Y: 1}, Health: 5}, // no id
		},
	}

	b := NewDoubleBuffer("meadow", layout, 0)
	b.Refresh(context.Background(), src)

	stats := b.Stats()
	testutil.AssertEqual(t, "dropped", stats.Dropped, uint64(1))
	testutil.AssertEqual(t, "last count", stats.LastCount, 1)
}

func TestDoubleBuffer_QueryReturnsCopies(t *testing.T) {
	src := &sliceSource{failAt: -1, entities: []snapshot.Snapshot{creature("a", 5, 5)}}
	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	b.Refresh(context.Background(), src)

	first := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 5, Y: 5}, 10)
	first[0].Health = -999

	second := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 5, Y: 5}, 10)
	testutil.AssertEqual(t, "health unchanged", second[0].Health, 10)
}

// A query racing any number of refreshes must only ever see snapshots from
// a single generation. Run with -race.
func TestDoubleBuffer_ConcurrentQueryAndRefresh(t *testing.T) {
	src := &sliceSource{
		failAt: -1,
		entities: []snapshot.Snapshot{
			creature("a", 5, 5),
			creature("b", 6, 6),
			creature("c", 7, 7),
		},
	}

	b := NewDoubleBuffer("meadow", DefaultLayout, 0)
	b.Refresh(context.Background(), src)

	done := make(chan struct{})
	var refresher sync.WaitGroup
	refresher.Add(1)
	go func() {
		defer refresher.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			b.lastRefresh.Store(0)
			b.Refresh(context.Background(), src)
		}
	}()

	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 500; j++ {
				got := b.QueryNearby(snapshot.KindCreature, snapshot.Position{X: 6, Y: 6}, 10)
				if len(got) == 0 {
					continue
				}
				gen := got[0].Generation
				for _, s := range got {
					if s.Generation != gen {
						t.Errorf("mixed generations in one query: %d and %d", gen, s.Generation)
						return
					}
				}
			}
		}()
	}

	readers.Wait()
	close(done)
	refresher.Wait()
}
