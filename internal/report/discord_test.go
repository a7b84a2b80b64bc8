package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmbed_SortedFields(t *testing.T) {
	embed := buildEmbed("source_failing", map[string]interface{}{
		"source":   "video",
		"failures": 3,
		"error":    "api quota exceeded",
	})

	assert.Equal(t, "source_failing", embed.Title)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "error", embed.Fields[0].Name)
	assert.Equal(t, "failures", embed.Fields[1].Name)
	assert.Equal(t, "source", embed.Fields[2].Name)
	assert.Equal(t, "3", embed.Fields[1].Value)
}

func TestBuildEmbed_NoFields(t *testing.T) {
	embed := buildEmbed("state_flush_failed", nil)
	assert.Equal(t, "state_flush_failed", embed.Title)
	assert.Empty(t, embed.Fields)
}

func TestNopReporter(t *testing.T) {
	// must be safe with any input
	NopReporter{}.Report(context.Background(), "anything", nil)
}
