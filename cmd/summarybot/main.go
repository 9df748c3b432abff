// Summary bot entry point.
//
// Bootstrap order:
//  1. Environment (.env is honored when present) and validated configuration.
//  2. Logging (level + optional pretty console writer).
//  3. OpenTelemetry tracing (no-op unless enabled).
//  4. SQLite storage with migrations.
//  5. Application services: message log, preferences, summarizer.
//  6. Retention sweeper.
//  7. Operations HTTP API (optional).
//  8. Telegram long polling (blocks until shutdown).
//
// Shutdown is signal-driven: SIGINT/SIGTERM cancel the root context, the bot
// stops receiving updates, the HTTP server drains in-flight requests, the
// sweeper finishes any running sweep, and the tracer flushes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DeliriumPulse/Summary/internal/bot"
	"github.com/DeliriumPulse/Summary/internal/config"
	httpapi "github.com/DeliriumPulse/Summary/internal/http"
	"github.com/DeliriumPulse/Summary/internal/llm"
	"github.com/DeliriumPulse/Summary/internal/observability"
	"github.com/DeliriumPulse/Summary/internal/repo"
	"github.com/DeliriumPulse/Summary/internal/services"
	"github.com/DeliriumPulse/Summary/internal/sweeper"
	"github.com/DeliriumPulse/Summary/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// credentialProbeTimeout bounds the advisory startup check against the LLM
// backend; a slow or unreachable API must not block the bot.
const credentialProbeTimeout = 10 * time.Second

// @title       Summary Bot Operations API
// @version     1.0
// @description Read-only diagnostics over the Telegram summarizer's message log: per-chat statistics and recent-message windows.
// @BasePath    /api/v1
func main() {
	// .env is optional; real deployments rely on process environment.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("gorm tracing unavailable")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	msgSvc := &services.MessageService{
		DB:            db,
		DefaultWindow: cfg.DefaultSummaryCount,
		MaxWindow:     cfg.MaxSummaryCount,
	}
	prefSvc := &services.PreferenceService{DB: db, Default: cfg.DefaultStyle}

	provider, err := llm.New(llm.Options{
		Backend: cfg.LLM.Provider,
		APIKey:  cfg.LLM.APIKey(),
		Model:   cfg.LLM.Model(),
		BaseURL: cfg.LLM.BaseURL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configure llm provider")
	}

	// Advisory probe: a transient backend outage at boot must not take the
	// bot down, so a failure only warns.
	probeCtx, cancelProbe := context.WithTimeout(ctx, credentialProbeTimeout)
	if !provider.ValidateCredential(probeCtx) {
		log.Warn().Str("provider", provider.Name()).Msg("credential validation failed, summaries may not work")
	}
	cancelProbe()

	sumSvc, err := services.NewSummaryService(provider)
	if err != nil {
		log.Fatal().Err(err).Msg("configure summary service")
	}

	sw := sweeper.New(sweeper.Config{
		Purger:        msgSvc,
		RetentionDays: cfg.RetentionDays,
		Interval:      cfg.CleanupInterval,
	})
	if err := sw.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start retention sweeper")
	}

	var adminSrv *http.Server
	if cfg.Admin.Enabled {
		gin.SetMode(cfg.Admin.GinMode)
		r := gin.New()
		httpapi.RegisterRoutes(r, msgSvc, cfg)

		adminSrv = &http.Server{
			Addr:              ":" + cfg.Admin.Port,
			Handler:           r,
			ReadTimeout:       cfg.Admin.ReadTimeout,
			ReadHeaderTimeout: cfg.Admin.ReadHeaderTimeout,
			WriteTimeout:      cfg.Admin.WriteTimeout,
			IdleTimeout:       cfg.Admin.IdleTimeout,
			MaxHeaderBytes:    cfg.Admin.MaxHeaderBytes,
		}
		go func() {
			log.Info().Str("addr", adminSrv.Addr).Msg("operations api listening")
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("operations api server failed")
			}
		}()
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram authentication failed")
	}

	b := &bot.Bot{
		API:           api,
		Messages:      msgSvc,
		Prefs:         prefSvc,
		Summaries:     sumSvc,
		DefaultWindow: cfg.DefaultSummaryCount,
		MaxWindow:     cfg.MaxSummaryCount,
		RetentionDays: cfg.RetentionDays,
		Throttle:      bot.NewThrottle(cfg.SummaryRatePerMin, cfg.SummaryBurst),
	}

	log.Info().
		Str("username", api.Self.UserName).
		Str("provider", provider.Name()).
		Str("version", version).
		Msg("starting bot in polling mode")

	runErr := b.Run(ctx)
	if runErr != nil {
		log.Error().Err(runErr).Msg("bot terminated abnormally")
	}

	// Shutdown: the bot has already stopped receiving updates once Run
	// returns; drain HTTP, then the sweeper, then flush traces.
	log.Info().Msg("shutting down")

	if adminSrv != nil {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
		if err := adminSrv.Shutdown(drainCtx); err != nil {
			log.Warn().Err(err).Msg("operations api shutdown")
		}
		cancelDrain()
	}

	sw.Stop()

	if err := shutdownOTel(context.Background()); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}

	log.Info().Msg("bot stopped")
	if runErr != nil {
		os.Exit(1)
	}
}
