package snapshot

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSnapshot_IsValid(t *testing.T) {
	tests := map[string]struct {
		s   Snapshot
		exp bool
	}{
		"valid":                 {s: Snapshot{ID: "a", Health: 5, MaxHealth: 10}, exp: true},
		"missing id":            {s: Snapshot{Health: 5, MaxHealth: 10}, exp: false},
		"negative health":       {s: Snapshot{ID: "a", Health: -1}, exp: false},
		"health over max":       {s: Snapshot{ID: "a", Health: 11, MaxHealth: 10}, exp: false},
		"health at max":         {s: Snapshot{ID: "a", Health: 10, MaxHealth: 10}, exp: true},
		"zero max uncapped":     {s: Snapshot{ID: "a", Health: 50}, exp: true},
		"dead with zero health": {s: Snapshot{ID: "a", Health: 0, MaxHealth: 10, Dead: true}, exp: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", tt.s.IsValid(), tt.exp)
		})
	}
}

func TestSnapshot_Alive(t *testing.T) {
	tests := map[string]struct {
		s   Snapshot
		exp bool
	}{
		"alive":          {s: Snapshot{ID: "a", Health: 5, MaxHealth: 10}, exp: true},
		"dead flag":      {s: Snapshot{ID: "a", Health: 5, MaxHealth: 10, Dead: true}, exp: false},
		"no health left": {s: Snapshot{ID: "a", Health: 0, MaxHealth: 10}, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "alive", tt.s.Alive(), tt.exp)
		})
	}
}

func TestPosition_DistSq(t *testing.T) {
	a := Position{X: 1, Y: 2}
	b := Position{X: 4, Y: 6}

	testutil.AssertEqual(t, "distance", a.DistSq(b), 25.0)
	testutil.AssertEqual(t, "symmetric", b.DistSq(a), 25.0)
	testutil.AssertEqual(t, "self", a.DistSq(a), 0.0)
}

func TestKind_String(t *testing.T) {
	tests := map[string]struct {
		k   Kind
		exp string
	}{
		"creature": {k: KindCreature, exp: "creature"},
		"player":   {k: KindPlayer, exp: "player"},
		"object":   {k: KindGameObject, exp: "object"},
		"effect":   {k: KindAreaEffect, exp: "effect"},
		"unknown":  {k: Kind(99), exp: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "string", tt.k.String(), tt.exp)
		})
	}
}

func TestKinds_CoversEveryBucket(t *testing.T) {
	testutil.AssertEqual(t, "count", len(Kinds()), NumKinds)
}
