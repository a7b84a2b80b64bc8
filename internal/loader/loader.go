package loader

import (
	"context"
	"fmt"
	"log"
	"time"

	"heraldo/internal/components"
	"heraldo/internal/config"
	"heraldo/internal/core"
	"heraldo/internal/processors"
	"heraldo/internal/report"
	"heraldo/internal/sources"
	"heraldo/internal/targets/bluesky"
	"heraldo/internal/types"
	"heraldo/internal/utils"
)

type Loader struct {
	config       *config.Config
	registry     *components.Registry
	storageComp  *components.StorageComponent
	platformComp *components.PlatformComponent
	serverComp   *components.ServerComponent
}

func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		config:   cfg,
		registry: components.NewRegistry(),
	}
}

// LoadAndBuild reads the config file and wires the full bot.
func LoadAndBuild(ctx context.Context, path string) (*core.Bot, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return NewLoader(cfg).Initialize(ctx)
}

func (l *Loader) Initialize(ctx context.Context) (*core.Bot, error) {
	if err := l.initializeComponents(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	orchestrator, err := l.buildOrchestrator()
	if err != nil {
		return nil, fmt.Errorf("failed to build orchestrator: %w", err)
	}

	interval, err := time.ParseDuration(l.config.Bot.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid bot interval: %w", err)
	}

	shutdownFn := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return l.registry.CloseAll(shutdownCtx)
	}

	bot := core.NewBot(core.BotConfig{
		Name:         l.config.Bot.Name,
		Orchestrator: orchestrator,
		Interval:     interval,
		RunOnce:      l.config.Bot.RunOnce,
		ShutdownFn:   shutdownFn,
	})

	return bot, nil
}

func (l *Loader) initializeComponents(ctx context.Context) error {
	log.Printf("[Loader] Initializing all components")

	l.storageComp = components.NewStorageComponent(l.config.Storage)
	l.platformComp = components.NewPlatformComponent(l.config.Platforms)
	l.serverComp = components.NewServerComponent(l.config.Bot.Name, l.config.Server, l.storageComp.Store)

	for _, comp := range []components.IComponent{l.storageComp, l.platformComp, l.serverComp} {
		if err := l.registry.Register(comp); err != nil {
			return err
		}
	}

	if err := l.registry.InitializeAll(ctx); err != nil {
		return err
	}

	log.Printf("[Loader] All components initialized successfully")
	return nil
}

func (l *Loader) buildOrchestrator() (*core.Orchestrator, error) {
	srcs, err := l.buildSources()
	if err != nil {
		return nil, err
	}

	factory, err := l.buildPublisherFactory()
	if err != nil {
		return nil, err
	}

	enrich, err := l.buildEnricher()
	if err != nil {
		return nil, err
	}

	sleep, err := time.ParseDuration(l.config.Bot.Sleep)
	if err != nil {
		return nil, fmt.Errorf("invalid sleep duration: %w", err)
	}

	ring := l.serverComp.Ring()

	return core.NewOrchestrator(core.OrchestratorConfig{
		Sources:      srcs,
		NewPublisher: factory,
		Reporter:     l.buildReporter(),
		Store:        l.storageComp.Store(),
		Enrich:       enrich,
		OnAnnounced: func(item types.Item, result *types.PublishResult) {
			ring.Add(item, result)
		},
		Sleep:          sleep,
		AlertThreshold: l.config.Bot.AlertThreshold,
	}), nil
}

// buildSources returns the enabled sources in the fixed processing
// order: videos first, articles second.
func (l *Loader) buildSources() ([]types.Source, error) {
	srcs := make([]types.Source, 0, 2)

	if cfg, exists := l.config.Sources["videos"]; exists && cfg.Enabled {
		srcs = append(srcs, sources.NewVideoSource(sources.VideoSourceConfig{
			Name:       "videos",
			APIURL:     config.GetString(cfg.Settings, "api_url", ""),
			APIKey:     config.GetString(cfg.Settings, "api_key", ""),
			PlaylistID: config.GetString(cfg.Settings, "playlist_id", ""),
			MaxItems:   config.GetInt(cfg.Settings, "max_items", 20),
		}))
	}

	if cfg, exists := l.config.Sources["articles"]; exists && cfg.Enabled {
		srcs = append(srcs, sources.NewArticleSource(sources.ArticleSourceConfig{
			Name:              "articles",
			FeedURL:           config.GetString(cfg.Settings, "feed_url", ""),
			MaxItems:          config.GetInt(cfg.Settings, "max_items", 50),
			ResolveThumbnails: config.GetBool(cfg.Settings, "resolve_thumbnails", true),
			ThumbnailTTL:      config.GetDuration(cfg.Settings, "thumbnail_ttl", 6*time.Hour),
		}))
	}

	if len(srcs) == 0 {
		return nil, fmt.Errorf("no enabled sources configured")
	}

	return srcs, nil
}

// buildPublisherFactory returns a factory that authenticates against
// Bluesky at the start of each publish step. An authentication failure
// surfaces to the orchestrator as a fatal cycle error.
func (l *Loader) buildPublisherFactory() (types.PublisherFactory, error) {
	tmpl, err := utils.LoadPostTemplate("templates/bluesky.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to load post template: %w", err)
	}

	blueskyCfg := l.config.Platforms["bluesky"]
	languages := config.GetStringSlice(blueskyCfg.Settings, "languages")
	platform := l.platformComp.Bluesky()

	return func(ctx context.Context) (types.Publisher, error) {
		if err := platform.Connect(ctx); err != nil {
			return nil, err
		}
		return bluesky.New("bluesky", languages, platform, tmpl), nil
	}, nil
}

func (l *Loader) buildReporter() types.Reporter {
	cfg := l.config.Reporter
	if !cfg.Enabled || cfg.Type != "discord" || l.platformComp.Discord() == nil {
		return report.NopReporter{}
	}

	channelID := config.GetString(cfg.Settings, "channel_id", "")
	if channelID == "" {
		log.Printf("[Loader] Discord reporter enabled without channel_id, reporting disabled")
		return report.NopReporter{}
	}

	return report.NewDiscordReporter(l.platformComp.Discord(), channelID)
}

func (l *Loader) buildEnricher() (core.EnrichFunc, error) {
	cfg, exists := l.config.Processors["summary"]
	if !exists || !cfg.Enabled {
		return nil, nil
	}

	model := config.GetString(cfg.Settings, "model", "qwen2.5:0.5b")
	ollama, err := l.platformComp.Ollama(model)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama platform: %w", err)
	}

	processor := processors.NewSummaryProcessor("summary", ollama, utils.GetArticleText)
	return processor.Enrich, nil
}
