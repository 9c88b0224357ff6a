// Command cli runs one-off maintenance tasks against the configured database.
//
//	cli migrate
//	cli promote-admin <user-id>
//	cli demote-admin <user-id>
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"studio-marketplace/internal/app"
	"studio-marketplace/internal/core/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	cfg.DB.AutoMigrate = false
	log, cleanup := app.Logger(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	if err := run(ctx, a, os.Args[1:]); err != nil {
		log.Error("command failed", zap.String("cmd", os.Args[1]), zap.Error(err))
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string) error {
	switch args[0] {
	case "migrate":
		if err := a.Store.Migrate(ctx); err != nil {
			return err
		}
		a.Log.Info("migrate done")
		return nil
	case "promote-admin", "demote-admin":
		if len(args) < 2 {
			usage()
		}
		_, err := a.Services.Users.SetAdmin(ctx, args[1], args[0] == "promote-admin")
		return err
	default:
		usage()
		return nil
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli migrate | promote-admin <user-id> | demote-admin <user-id>")
	os.Exit(2)
}
