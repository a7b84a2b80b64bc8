package components

import (
	"context"
	"fmt"

	"heraldo/internal/config"
	"heraldo/internal/state"
)

type StorageComponent struct {
	cfg   config.StorageConfig
	store state.Store
}

func NewStorageComponent(cfg config.StorageConfig) *StorageComponent {
	return &StorageComponent{cfg: cfg}
}

func (c *StorageComponent) Name() string {
	return StorageComponentName
}

func (c *StorageComponent) Dependencies() []string {
	return []string{}
}

func (c *StorageComponent) Validate() error {
	if c.cfg.Type == "sqlite" && c.cfg.Path == "" {
		return fmt.Errorf("storage: database path is required")
	}
	if c.cfg.Type == "redis" && c.cfg.Addr == "" {
		return fmt.Errorf("storage: redis address is required")
	}
	return nil
}

func (c *StorageComponent) Initialize(ctx context.Context) error {
	store, err := state.Open(state.Options{
		Type: c.cfg.Type,
		Path: c.cfg.Path,
		Addr: c.cfg.Addr,
	})
	if err != nil {
		return fmt.Errorf("storage: failed to open state store: %w", err)
	}

	c.store = store
	return nil
}

func (c *StorageComponent) Close(ctx context.Context) error {
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

func (c *StorageComponent) Store() state.Store {
	return c.store
}
