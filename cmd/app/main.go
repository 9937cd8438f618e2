package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"telegram-group-guardian/internal/application"
	"telegram-group-guardian/internal/config"
	"telegram-group-guardian/internal/domain/model"
	pg "telegram-group-guardian/internal/infra/db/postgres"
	"telegram-group-guardian/internal/infra/logging"
	"telegram-group-guardian/internal/infra/metrics"
	red "telegram-group-guardian/internal/infra/redis"
	"telegram-group-guardian/internal/infra/sched"
	tele "telegram-group-guardian/internal/infra/telegram"
	"telegram-group-guardian/internal/infra/web"
	"telegram-group-guardian/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	loc, err := cfg.Policy.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("timezone")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	groupRepo := pg.NewGroupRepo(pool)
	warningRepo := pg.NewWarningRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Redis (optional: authorizer and limiter degrade without it) ----
	var adminCache usecase.AdminCache
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		adminCache = red.NewAdminCache(redisClient)
		limiter = red.NewRateLimiter(redisClient)
	}

	// ---- Telegram gateway ----
	gateway, err := tele.NewRealGateway(cfg.Bot.Token, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	// ---- Use cases ----
	window := model.NightWindow{
		Loc:       loc,
		StartHour: cfg.Policy.NightStartHour,
		EndHour:   cfg.Policy.NightEndHour,
		Tolerance: cfg.Policy.NightTolerance.Value(),
		WarnLead:  cfg.Policy.NightWarnLead.Value(),
	}
	warnUC := usecase.NewWarningUseCase(warningRepo, logger)
	lockUC := usecase.NewLockUseCase(groupRepo, gateway, logger)
	nightUC := usecase.NewNightLockUseCase(window, cfg.Policy.NightOverride.Value(), groupRepo, gateway, logger)
	subUC := usecase.NewSubscriptionUseCase(cfg.Policy.SubscriptionDays, cfg.Policy.ExpiryWarnDays, groupRepo, subRepo, gateway, logger)
	groupUC := usecase.NewGroupUseCase(groupRepo, subUC, txManager, logger)
	auth := usecase.NewAuthorizer(gateway, adminCache, cfg.Redis.AdminTTL.Value(), logger)

	facade := application.NewBotFacade(
		groupUC, warnUC, lockUC, nightUC, subUC, auth, gateway,
		cfg.Policy.MaxWarnings, cfg.Policy.MuteDuration.Value(), logger)

	// ---- Background drivers ----
	clock := sched.NewPolicyClock(cfg.Policy.TickInterval.Value(), groupRepo, lockUC, nightUC, logger)
	go func() { _ = clock.Run(ctx) }()

	sweeper := sched.NewSubscriptionSweeper(cfg.Policy.SweepInterval.Value(), subUC, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- Ops HTTP server ----
	opsServer := web.NewServer(groupUC, subUC, cfg.Admin.Port, cfg.Admin.APIKey, logger)
	go func() {
		if err := opsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Telegram polling (blocks until shutdown) ----
	poller := tele.NewPoller(gateway, facade, limiter, cfg.Bot.Workers, logger)
	logger.Info().Msg("group guardian started")
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("polling stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops server shutdown")
	}
	logger.Info().Msg("shutdown complete")
}
