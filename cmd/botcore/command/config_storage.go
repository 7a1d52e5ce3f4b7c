package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-botcore/internal/storage"
	"github.com/pixil98/go-botcore/internal/world"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Regions AssetConfig[*world.RegionSpec]     `json:"regions"`
	Mobiles AssetConfig[*world.MobileTemplate] `json:"mobiles"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Regions.Validate("regions"))
	el.Add(c.Mobiles.Validate("mobiles"))
	return el.Err()
}

// buildStores loads the region and mobile template assets and resolves
// template region references.
func (c *StorageConfig) buildStores() (*storage.FileStore[*world.RegionSpec], *storage.FileStore[*world.MobileTemplate], error) {
	regions, err := c.Regions.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating region store: %w", err)
	}
	mobiles, err := c.Mobiles.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating mobile template store: %w", err)
	}

	for id, tmpl := range mobiles.GetAll() {
		if err := tmpl.Region.Resolve(regions); err != nil {
			return nil, nil, fmt.Errorf("resolving region for template %q: %w", id, err)
		}
	}

	return regions, mobiles, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
