package platforms

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DiscordPlatform struct {
	token   string
	session *discordgo.Session
}

type DiscordSettings struct {
	Token string
}

func NewDiscordPlatform(settings DiscordSettings) (*DiscordPlatform, error) {
	if settings.Token == "" {
		return nil, fmt.Errorf("discord platform: token is required")
	}

	return &DiscordPlatform{token: settings.Token}, nil
}

func (p *DiscordPlatform) Connect(ctx context.Context) error {
	session, err := discordgo.New("Bot " + p.token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	p.session = session
	return nil
}

func (p *DiscordPlatform) Session() *discordgo.Session {
	return p.session
}

func (p *DiscordPlatform) Close(ctx context.Context) error {
	if p.session != nil {
		return p.session.Close()
	}
	return nil
}
