package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"VideoScanner/internal/api"
	"VideoScanner/internal/config"
	"VideoScanner/internal/domain"
	"VideoScanner/internal/infrastructure/llm"
	"VideoScanner/internal/infrastructure/telegram"
	transcriptinfra "VideoScanner/internal/infrastructure/transcript"
	"VideoScanner/internal/infrastructure/youtube"
	"VideoScanner/internal/logging"
	"VideoScanner/internal/transcript"
	"VideoScanner/internal/usecase"
)

// Application wires configuration to adapters, the pipeline, and the HTTP
// trigger.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	server   *gin.Engine
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(cfg.YouTube.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	ytClient := youtube.NewClient(svc)

	strategy, err := buildTranscriptStrategy(cfg, svc, baseLogger)
	if err != nil {
		return nil, err
	}
	baseLogger.Info("transcript strategy selected",
		"strategy", strategy.Name(), "mode", string(cfg.Mode()))

	summarizer := llm.NewGemini(cfg.Gemini)
	notifier := telegram.NewNotifier(
		cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.ChatID,
		ytClient,
		baseLogger.With("component", "telegram"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Finder:      ytClient,
		Transcripts: transcript.NewResolver(strategy),
		Summarizer:  summarizer,
		Notifier:    notifier,
		Window:      cfg.Pipeline.FreshnessWindow,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	server := api.NewServer(pipeline, cfg.YouTube.ChannelIDs, baseLogger.With("component", "api"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		server:   server,
	}, nil
}

// buildTranscriptStrategy registers the available strategies and resolves the
// active one. The innertube strategy is proxied in restricted deployments;
// captions is only used on explicit request.
func buildTranscriptStrategy(cfg config.Config, svc *youtubeapi.Service, logger *slog.Logger) (transcript.Strategy, error) {
	var innertubeClient *http.Client
	if cfg.Mode() == domain.ModeRestricted {
		proxied, err := transcriptinfra.NewProxyClient(
			cfg.Transcript.ProxyURL,
			cfg.Transcript.ProxyUsername,
			cfg.Transcript.ProxyPassword,
		)
		if err != nil {
			return nil, fmt.Errorf("build proxy client: %w", err)
		}
		innertubeClient = proxied
		logger.Info("routing transcript requests through proxy", "proxy", cfg.Transcript.ProxyURL)
	}

	registry := transcript.NewRegistry()
	registry.Register(transcriptinfra.NewInnertube(innertubeClient))
	registry.Register(transcriptinfra.NewCaptions(svc))

	name := cfg.Transcript.Strategy
	if name == "" {
		name = "innertube"
	}
	return registry.Resolve(name)
}

// Run performs a single pipeline execution over the configured channels.
func (a *Application) Run(ctx context.Context) {
	runID := uuid.NewString()
	log := a.logger.With("run_id", runID)

	log.Info("scan started", "channels", len(a.cfg.YouTube.ChannelIDs))
	a.pipeline.Run(ctx, a.cfg.YouTube.ChannelIDs)
	log.Info("scan completed")
}

// Serve blocks on the HTTP trigger until the listener fails.
func (a *Application) Serve() error {
	addr := ":" + a.cfg.Server.Port
	a.logger.Info("listening for scan triggers", "addr", addr)
	return a.server.Run(addr)
}
