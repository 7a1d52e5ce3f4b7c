package world

import (
	"fmt"

	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-botcore/internal/storage"
	"github.com/pixil98/go-errors"
)

// RegionSpec defines one world region loaded from asset files.
type RegionSpec struct {
	Name string `json:"name"`
	// Width and Height are the region extent in world units.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// CellSize is the spatial index cell side length in world units.
	CellSize float64 `json:"cell_size,omitempty"`
}

func (r *RegionSpec) Validate() error {
	el := errors.NewErrorList()

	if r.Width <= 0 {
		el.Add(fmt.Errorf("width must be positive"))
	}
	if r.Height <= 0 {
		el.Add(fmt.Errorf("height must be positive"))
	}
	if r.CellSize < 0 {
		el.Add(fmt.Errorf("cell_size must not be negative"))
	}

	return el.Err()
}

// MobileTemplate defines a creature spawn set loaded from asset files.
type MobileTemplate struct {
	Name      string                               `json:"name"`
	Region    storage.SmartIdentifier[*RegionSpec] `json:"region"`
	Count     int                                  `json:"count"`
	Level     int                                  `json:"level,omitempty"`
	Faction   string                               `json:"faction,omitempty"`
	Hostile   bool                                 `json:"hostile,omitempty"`
	MaxHealth int                                  `json:"max_health"`
	Abilities []string                             `json:"abilities,omitempty"`
	SpawnAt   snapshot.Position                    `json:"spawn_at"`
	// SpawnSpread offsets successive spawns so a template's creatures do
	// not stack on one point.
	SpawnSpread float64 `json:"spawn_spread,omitempty"`
}

func (m *MobileTemplate) Validate() error {
	el := errors.NewErrorList()

	el.Add(m.Region.Validate())

	if m.Count <= 0 {
		el.Add(fmt.Errorf("count must be positive"))
	}
	if m.MaxHealth <= 0 {
		el.Add(fmt.Errorf("max_health must be positive"))
	}
	if m.SpawnAt.X < 0 || m.SpawnAt.Y < 0 {
		el.Add(fmt.Errorf("spawn_at must not be negative"))
	}
	if m.SpawnSpread < 0 {
		el.Add(fmt.Errorf("spawn_spread must not be negative"))
	}

	return el.Err()
}
