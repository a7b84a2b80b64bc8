package platforms

import (
	"context"
	"fmt"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/xrpc"
)

type BlueskyPlatform struct {
	host       string
	identifier string
	password   string
	client     *xrpc.Client
}

type BlueskySettings struct {
	Host       string
	Identifier string
	Password   string
}

func NewBlueskyPlatform(settings BlueskySettings) (*BlueskyPlatform, error) {
	if settings.Identifier == "" {
		return nil, fmt.Errorf("bluesky platform: identifier is required")
	}
	if settings.Password == "" {
		return nil, fmt.Errorf("bluesky platform: password is required")
	}
	if settings.Host == "" {
		settings.Host = "https://bsky.social"
	}

	return &BlueskyPlatform{
		host:       settings.Host,
		identifier: settings.Identifier,
		password:   settings.Password,
	}, nil
}

// Connect creates an authenticated session. A failure here blocks the
// publish step of the whole cycle.
func (p *BlueskyPlatform) Connect(ctx context.Context) error {
	client := &xrpc.Client{
		Host: p.host,
	}

	auth, err := atproto.ServerCreateSession(ctx, client, &atproto.ServerCreateSession_Input{
		Identifier: p.identifier,
		Password:   p.password,
	})
	if err != nil {
		return fmt.Errorf("failed to authenticate with bluesky: %w", err)
	}

	client.Auth = &xrpc.AuthInfo{
		AccessJwt:  auth.AccessJwt,
		RefreshJwt: auth.RefreshJwt,
		Handle:     auth.Handle,
		Did:        auth.Did,
	}

	p.client = client

	return nil
}

func (p *BlueskyPlatform) Client() *xrpc.Client {
	return p.client
}

func (p *BlueskyPlatform) Do(ctx context.Context, fn func(c *xrpc.Client) error) error {
	if p.client == nil {
		return fmt.Errorf("bluesky platform: not connected")
	}
	return fn(p.client)
}

func (p *BlueskyPlatform) Close(ctx context.Context) error {
	// Stateless HTTP client, nothing to release.
	return nil
}
