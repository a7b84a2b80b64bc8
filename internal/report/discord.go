// Package report delivers failure escalations out of band. Reporters are
// fire-and-forget: they never block a cycle and never surface an error
// back into it.
package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"

	"heraldo/internal/platforms"
)

const sendTimeout = 5 * time.Second

type DiscordReporter struct {
	platform  *platforms.DiscordPlatform
	channelID string
}

func NewDiscordReporter(platform *platforms.DiscordPlatform, channelID string) *DiscordReporter {
	return &DiscordReporter{
		platform:  platform,
		channelID: channelID,
	}
}

func (r *DiscordReporter) Report(ctx context.Context, event string, fields map[string]interface{}) {
	embed := buildEmbed(event, fields)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := r.platform.Session().ChannelMessageSendEmbed(r.channelID, embed); err != nil {
			log.Printf("DiscordReporter: failed to deliver %s: %v", event, err)
		}
	}()

	select {
	case <-done:
	case <-time.After(sendTimeout):
		log.Printf("DiscordReporter: delivery of %s timed out, continuing", event)
	case <-ctx.Done():
	}
}

func buildEmbed(event string, fields map[string]interface{}) *discordgo.MessageEmbed {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	embedFields := make([]*discordgo.MessageEmbedField, 0, len(keys))
	for _, k := range keys {
		embedFields = append(embedFields, &discordgo.MessageEmbedField{
			Name:   k,
			Value:  fmt.Sprintf("%v", fields[k]),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:     event,
		Color:     0xE74C3C,
		Fields:    embedFields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NopReporter is used when no reporter is configured.
type NopReporter struct{}

func (NopReporter) Report(ctx context.Context, event string, fields map[string]interface{}) {}
