package components

import (
	"context"
	"fmt"

	"heraldo/internal/config"
	"heraldo/internal/platforms"
)

type PlatformComponent struct {
	config          map[string]config.PlatformConfig
	discordPlatform *platforms.DiscordPlatform
	blueskyPlatform *platforms.BlueskyPlatform
	ollamaPlatforms map[string]*platforms.OllamaPlatform
}

func NewPlatformComponent(cfg map[string]config.PlatformConfig) *PlatformComponent {
	return &PlatformComponent{
		config:          cfg,
		ollamaPlatforms: make(map[string]*platforms.OllamaPlatform),
	}
}

func (c *PlatformComponent) Name() string {
	return PlatformComponentName
}

func (c *PlatformComponent) Dependencies() []string {
	return []string{}
}

func (c *PlatformComponent) Validate() error {
	if _, exists := c.config["bluesky"]; !exists {
		return fmt.Errorf("platforms: bluesky platform is required")
	}
	return nil
}

func (c *PlatformComponent) Initialize(ctx context.Context) error {
	blueskyCfg := c.config["bluesky"]
	bluesky, err := platforms.NewBlueskyPlatform(platforms.BlueskySettings{
		Host:       config.GetString(blueskyCfg.Settings, "host", ""),
		Identifier: config.GetString(blueskyCfg.Settings, "identifier", ""),
		Password:   config.GetString(blueskyCfg.Settings, "password", ""),
	})
	if err != nil {
		return fmt.Errorf("failed to create bluesky platform: %w", err)
	}
	c.blueskyPlatform = bluesky

	if discordCfg, exists := c.config["discord"]; exists {
		discord, err := platforms.NewDiscordPlatform(platforms.DiscordSettings{
			Token: config.GetString(discordCfg.Settings, "token", ""),
		})
		if err != nil {
			return fmt.Errorf("failed to create discord platform: %w", err)
		}
		if err := discord.Connect(ctx); err != nil {
			return fmt.Errorf("discord platform connection failed: %w", err)
		}
		c.discordPlatform = discord
	}

	return nil
}

func (c *PlatformComponent) Close(ctx context.Context) error {
	if c.discordPlatform != nil {
		c.discordPlatform.Close(ctx)
	}
	if c.blueskyPlatform != nil {
		c.blueskyPlatform.Close(ctx)
	}
	return nil
}

func (c *PlatformComponent) Discord() *platforms.DiscordPlatform {
	return c.discordPlatform
}

func (c *PlatformComponent) Bluesky() *platforms.BlueskyPlatform {
	return c.blueskyPlatform
}

func (c *PlatformComponent) Ollama(model string) (*platforms.OllamaPlatform, error) {
	if platform, exists := c.ollamaPlatforms[model]; exists {
		return platform, nil
	}
	platform, err := platforms.NewOllamaPlatform(model)
	if err != nil {
		return nil, err
	}
	c.ollamaPlatforms[model] = platform
	return platform, nil
}
