package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github-pr-finder/internal/config"
	"github-pr-finder/internal/logger"
	"github-pr-finder/internal/repository/sqlite"
)

func main() {
	var configPath string
	var list bool

	flag.StringVar(&configPath, "config_path", "", "Path to the config file")
	flag.BoolVar(&list, "list", false, "List shipped migrations and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New(configPath)
	if err != nil {
		stdlog.Fatal(err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer log.Sync()

	if list {
		migrations, err := sqlite.Migrations()
		if err != nil {
			log.Fatal("failed to list migrations", zap.Error(err))
		}
		for _, m := range migrations {
			log.Info("migration",
				zap.Uint("version", m.Version),
				zap.String("description", m.Description),
				zap.String("direction", m.Direction),
			)
		}
		return
	}

	store, err := sqlite.New(ctx, &cfg.SQLite, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	before, _, err := store.Version()
	if err != nil {
		log.Fatal("failed to read schema version", zap.Error(err))
	}

	err = store.Migrate(ctx)
	if err != nil {
		log.Fatal("failed to run migration", zap.Error(err))
	}

	after, _, err := store.Version()
	if err != nil {
		log.Fatal("failed to read schema version", zap.Error(err))
	}

	log.Info("successfully migrated",
		zap.String("path", store.Path()),
		zap.Uint("from", before),
		zap.Uint("to", after),
	)
}
