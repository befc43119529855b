package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BasanLidzhiev/bank-rest/internal/api"
	"github.com/BasanLidzhiev/bank-rest/internal/auth"
	"github.com/BasanLidzhiev/bank-rest/internal/bootstrap"
	"github.com/BasanLidzhiev/bank-rest/internal/config"
	"github.com/BasanLidzhiev/bank-rest/internal/db"
	"github.com/BasanLidzhiev/bank-rest/internal/jobs"
	"github.com/BasanLidzhiev/bank-rest/internal/logger"
	"github.com/BasanLidzhiev/bank-rest/internal/metrics"
	"github.com/BasanLidzhiev/bank-rest/internal/notify"
	"github.com/BasanLidzhiev/bank-rest/internal/repository/postgres"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
	"github.com/BasanLidzhiev/bank-rest/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") != "false" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	var notifier services.Notifier
	if sender := notify.NewSender(cfg, log); sender != nil {
		notifier = sender
	}

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	userSvc := services.NewUserService(repos.Users, tm, log)
	cardSvc := services.NewCardService(repos.Cards, repos.Users, wp, notifier, log)
	transferSvc := services.NewTransferService(repos.Cards, repos.Users, repos.Transactions, repos.Transfers, wp, notifier, log)

	if err := bootstrap.EnsureAdmin(ctx, repos.Users, userSvc, cfg, log); err != nil {
		log.Error("admin bootstrap", "err", err)
		os.Exit(1)
	}

	scheduler := cron.New()
	if err := jobs.Schedule(ctx, scheduler, jobs.NewExpirySweeper(repos.Cards, log)); err != nil {
		log.Error("cron", "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:          cfg,
		TokenManager: tm,
		UserSvc:      userSvc,
		CardSvc:      cardSvc,
		TransferSvc:  transferSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
