package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilinovom/voice-hug-bot/internal/app/cmdHandlers"
	"github.com/ilinovom/voice-hug-bot/internal/config"
	"github.com/ilinovom/voice-hug-bot/internal/i18n"
	"github.com/ilinovom/voice-hug-bot/internal/metrics"
	"github.com/ilinovom/voice-hug-bot/internal/repository"
	"github.com/ilinovom/voice-hug-bot/internal/service"
	"github.com/ilinovom/voice-hug-bot/pkg/elevenlabs"
	"github.com/ilinovom/voice-hug-bot/pkg/openai"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

// updateSource yields batches of updates; telegram.Client implements it.
type updateSource interface {
	GetUpdates(ctx context.Context, offset int) ([]telegram.Update, error)
}

// App coordinates the services and telegram client.
type App struct {
	cfg      *config.Config
	repo     repository.AccountRepository
	log      zerolog.Logger
	tgClient *telegram.Client
	aiClient *openai.Client
	tts      *elevenlabs.Client
}

func New(cfg *config.Config, repo repository.AccountRepository, log zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		repo:     repo,
		log:      log,
		tgClient: telegram.NewClient(cfg.TelegramToken),
		aiClient: openai.NewClient(openai.Config{
			Token:   cfg.OpenAIToken,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Referer: cfg.AppReferer,
			Title:   cfg.AppTitle,
		}),
		tts: elevenlabs.NewClient(elevenlabs.Config{
			APIKey:       cfg.ElevenLabsAPIKey,
			BaseURL:      cfg.ElevenLabsBaseURL,
			Model:        cfg.ElevenLabsModel,
			OutputFormat: cfg.ElevenLabsOutputFormat,
		}),
	}
}

// Run loads the voice catalog, then serves updates until SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	texts, err := i18n.LoadBundle(a.cfg.MessagesFile)
	if err != nil {
		return err
	}

	catalog := service.LoadVoiceCatalog(ctx, voiceLister{a.tts}, service.CatalogOptions{
		PageSize:   a.cfg.VoicesPerPage,
		FreeVoices: a.cfg.FreeVoices,
	}, a.log)
	metrics.SetCatalogSize(catalog.Len())

	orch := service.NewOrchestrator(
		service.NewUsageLedger(a.repo),
		catalog,
		a.aiClient,
		a.tts,
		texts,
		service.OrchestratorConfig{DailyLimit: a.cfg.DailyLimit, FallbackVoiceID: a.cfg.FallbackVoiceID},
		a.log,
	)
	handler := cmdHandlers.NewCmdHandler(a.cfg, orch, service.NewCooldown(a.cfg.MessageCooldown), a.tgClient, a.log)
	handler.SetCommands(ctx)

	var ops *metrics.Server
	if a.cfg.MetricsAddr != "" {
		ops = metrics.NewServer(a.cfg.MetricsAddr)
		go func() {
			if err := ops.Start(); err != nil {
				a.log.Error().Err(err).Msg("ops server")
			}
		}()
		a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("ops server listening")
	}

	a.log.Info().Int("voices", catalog.Len()).Msg("bot is running")
	a.handleUpdates(ctx, a.tgClient, handler.HandleUpdate)

	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("ops server shutdown")
		}
	}
	a.log.Info().Msg("bot stopped")
	return nil
}

// handleUpdates long-polls the source and runs every update in its own
// goroutine, at most MaxConcurrentTurns at a time. It returns once ctx is done
// and all started handlers have finished.
func (a *App) handleUpdates(ctx context.Context, src updateSource, handle func(context.Context, telegram.Update)) {
	limit := a.cfg.MaxConcurrentTurns
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	defer wg.Wait()

	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := src.GetUpdates(ctx, offset)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			a.log.Warn().Err(err).Msg("get updates")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			wg.Add(1)
			go func(u telegram.Update) {
				defer wg.Done()
				defer func() { <-sem }()
				defer func() {
					if r := recover(); r != nil {
						a.log.Error().Interface("panic", r).Int("update_id", u.UpdateID).Msg("update handler")
					}
				}()
				// in-flight turns finish even after shutdown is requested
				handle(context.WithoutCancel(ctx), u)
			}(u)
		}
	}
}
