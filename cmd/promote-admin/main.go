package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/labstock-backend/internal/users"
	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "promote-admin"})

	_ = godotenv.Load()

	mail := flag.String("mail", "", "mail of the user to promote to admin")
	flag.Parse()

	if *mail == "" {
		fmt.Fprintln(os.Stderr, "missing -mail")
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "promote-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"mail": *mail,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	requireResource(ctx, logg, "users service", err)

	if err := svc.PromoteByMail(ctx, *mail); err != nil {
		logg.Error(ctx, "promotion failed", err)
		fmt.Fprintf(os.Stderr, "failed to promote %s: %v\n", *mail, err)
		os.Exit(1)
	}
	logg.Info(ctx, "user promoted to admin")
	fmt.Printf("%s is now an admin\n", *mail)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
