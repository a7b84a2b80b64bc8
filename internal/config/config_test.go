package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
[platforms.bluesky]
type = "bluesky"

[sources.videos]
type = "videos"
enabled = true
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "heraldo", cfg.Bot.Name)
	assert.Equal(t, "5m", cfg.Bot.Interval)
	assert.Equal(t, "2s", cfg.Bot.Sleep)
	assert.Equal(t, 3, cfg.Bot.AlertThreshold)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "./heraldo.db", cfg.Storage.Path)
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[bot]
name = "announcer"
interval = "10m"
sleep = "500ms"
alert_threshold = 5

[storage]
type = "redis"

[platforms.bluesky]
type = "bluesky"

[sources.articles]
type = "articles"
enabled = true
`))
	require.NoError(t, err)

	assert.Equal(t, "announcer", cfg.Bot.Name)
	assert.Equal(t, "10m", cfg.Bot.Interval)
	assert.Equal(t, 5, cfg.Bot.AlertThreshold)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "localhost:6379", cfg.Storage.Addr)
}

func TestLoad_RejectsInvalidInterval(t *testing.T) {
	_, err := Load(writeConfig(t, `
[bot]
interval = "soon"
`+minimalConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
}

func TestLoad_RequiresEnabledSource(t *testing.T) {
	_, err := Load(writeConfig(t, `
[platforms.bluesky]
type = "bluesky"

[sources.videos]
type = "videos"
enabled = false
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}

func TestLoad_RequiresPlatform(t *testing.T) {
	_, err := Load(writeConfig(t, `
[sources.videos]
type = "videos"
enabled = true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_ServerDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
enabled = true
`+minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.FeedSize)
}

func TestLoad_Settings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[platforms.bluesky]
type = "bluesky"
[platforms.bluesky.settings]
identifier = "bot.example.com"
languages = ["en", "pt"]

[sources.videos]
type = "videos"
enabled = true
[sources.videos.settings]
max_items = 10
resolve_thumbnails = false
timeout = "45s"
`))
	require.NoError(t, err)

	bsky := cfg.Platforms["bluesky"].Settings
	assert.Equal(t, "bot.example.com", GetString(bsky, "identifier", ""))
	assert.Equal(t, []string{"en", "pt"}, GetStringSlice(bsky, "languages"))

	videos := cfg.Sources["videos"].Settings
	assert.Equal(t, 10, GetInt(videos, "max_items", 20))
	assert.False(t, GetBool(videos, "resolve_thumbnails", true))
	assert.Equal(t, 45*time.Second, GetDuration(videos, "timeout", time.Minute))
}

func TestSettingsHelpers_Defaults(t *testing.T) {
	empty := map[string]interface{}{}

	assert.Equal(t, "fallback", GetString(empty, "missing", "fallback"))
	assert.Equal(t, 7, GetInt(empty, "missing", 7))
	assert.True(t, GetBool(empty, "missing", true))
	assert.Empty(t, GetStringSlice(empty, "missing"))
	assert.Equal(t, time.Minute, GetDuration(empty, "missing", time.Minute))

	// wrong types fall back too
	typed := map[string]interface{}{"key": 42}
	assert.Equal(t, "fallback", GetString(typed, "key", "fallback"))
}
