package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/labstock-backend/api/routes"
	"github.com/angelmondragon/labstock-backend/internal/auth"
	"github.com/angelmondragon/labstock-backend/internal/export"
	"github.com/angelmondragon/labstock-backend/internal/materials"
	"github.com/angelmondragon/labstock-backend/internal/otp"
	"github.com/angelmondragon/labstock-backend/internal/stock"
	"github.com/angelmondragon/labstock-backend/internal/users"
	"github.com/angelmondragon/labstock-backend/pkg/auth/session"
	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/env"
	"github.com/angelmondragon/labstock-backend/pkg/instance"
	"github.com/angelmondragon/labstock-backend/pkg/logger"
	"github.com/angelmondragon/labstock-backend/pkg/mailer"
	"github.com/angelmondragon/labstock-backend/pkg/metrics"
	"github.com/angelmondragon/labstock-backend/pkg/migrate"
	"github.com/angelmondragon/labstock-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	sender, err := mailer.New(cfg.Mail, logg)
	if err != nil {
		return err
	}

	codes, err := otp.NewStore(redisClient, cfg.OTP)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	usersRepo := users.NewRepository(dbClient.DB())
	materialsRepo := materials.NewRepository(dbClient.DB())
	stockRepo := stock.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		return err
	}
	if cfg.Admin.SeedEnabled() {
		created, err := usersService.EnsureAdmin(ctx, cfg.Admin)
		if err != nil {
			return err
		}
		if created {
			logg.Info(logg.WithField(ctx, "username", cfg.Admin.SeedUsername), "default admin created")
		}
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	accountService, err := auth.NewAccountService(auth.AccountServiceParams{
		UserRepo:       usersRepo,
		Codes:          codes,
		Mailer:         sender,
		PasswordConfig: cfg.Password,
		OTPConfig:      cfg.OTP,
	})
	if err != nil {
		return err
	}

	materialsService, err := materials.NewService(dbClient, materialsRepo, cfg.Stock)
	if err != nil {
		return err
	}

	stockService, err := stock.NewService(dbClient, stockRepo, metrics.NewStockMetrics(registry), cfg.Stock)
	if err != nil {
		return err
	}

	exportService, err := export.NewService(materialsRepo, stockRepo, cfg.Stock)
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, sessionManager, routes.Services{
			Auth:      authService,
			Accounts:  accountService,
			Materials: materialsService,
			Stock:     stockService,
			Users:     usersService,
			Export:    exportService,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
