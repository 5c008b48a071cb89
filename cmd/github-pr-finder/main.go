package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github-pr-finder/internal/config"
	"github-pr-finder/internal/github"
	"github-pr-finder/internal/logger"
	"github-pr-finder/internal/repository/sqlite"
	"github-pr-finder/internal/server"
	"github-pr-finder/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := config.New(fetchConfigPath())
	if err != nil {
		stdlog.Fatalf("cannot initialize config: %v", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		stdlog.Fatalf("cannot initialize logger: %v", err)
	}
	defer log.Sync()

	store, err := sqlite.New(ctx, &cfg.SQLite, log)
	if err != nil {
		log.Fatal("cannot initialize sqlite", zap.Error(err))
	}

	err = store.Migrate(ctx)
	if err != nil {
		store.Close()
		log.Fatal("cannot migrate database", zap.String("path", store.Path()), zap.Error(err))
	}

	gh, err := github.New(&cfg.Github, log)
	if err != nil {
		store.Close()
		log.Fatal("cannot initialize github client", zap.Error(err))
	}

	finder := service.New(gh, store, log)

	router := server.NewRouter(finder, log, &cfg.Logger, cfg.HTTP.Timeout)
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr), zap.String("database", store.Path()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("received shutdown signal")

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("failed to shutdown server", zap.Error(err))
	}
	store.Close()

	log.Info("application shutdown completed successfully")
}

// fetchConfigPath returns the -config_path flag. Empty means environment only.
func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config_path", "", "Path to the config file")
	flag.Parse()

	return path
}
