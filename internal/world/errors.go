package world

import "errors"

var (
	ErrRegionNotFound = errors.New("region not found")
	ErrRegionExists   = errors.New("region already exists")
	ErrEntityNotFound = errors.New("entity not found")
	ErrEntityExists   = errors.New("entity already exists")
	ErrOutOfBounds    = errors.New("position outside region bounds")
)
