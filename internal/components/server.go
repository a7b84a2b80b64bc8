package components

import (
	"context"

	"heraldo/internal/config"
	"heraldo/internal/server"
	"heraldo/internal/state"
)

type ServerComponent struct {
	name   string
	cfg    config.ServerConfig
	store  state.Store
	ring   *server.Ring
	server *server.Server
	lookup func() state.Store
}

// NewServerComponent defers the store lookup to Initialize, because the
// storage component opens its store during InitializeAll and this
// component declares a dependency on it.
func NewServerComponent(name string, cfg config.ServerConfig, lookup func() state.Store) *ServerComponent {
	return &ServerComponent{
		name:   name,
		cfg:    cfg,
		ring:   server.NewRing(cfg.FeedSize),
		lookup: lookup,
	}
}

func (c *ServerComponent) Name() string {
	return ServerComponentName
}

func (c *ServerComponent) Dependencies() []string {
	return []string{StorageComponentName}
}

func (c *ServerComponent) Validate() error {
	return nil
}

func (c *ServerComponent) Initialize(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	c.store = c.lookup()
	c.server = server.New(c.name, server.Config{
		Port:     c.cfg.Port,
		FeedSize: c.cfg.FeedSize,
	}, c.store, c.ring)

	return c.server.Start(ctx)
}

func (c *ServerComponent) Close(ctx context.Context) error {
	if c.server != nil {
		return c.server.Shutdown(ctx)
	}
	return nil
}

func (c *ServerComponent) Ring() *server.Ring {
	return c.ring
}
