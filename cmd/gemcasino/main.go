// Command gemcasino runs the casino API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/api"
	"github.com/KibbyCaps/gem-casino/internal/config"
	"github.com/KibbyCaps/gem-casino/internal/notify"
	"github.com/KibbyCaps/gem-casino/internal/session"
	"github.com/KibbyCaps/gem-casino/internal/store"
	"github.com/KibbyCaps/gem-casino/internal/users"
)

func main() {
	configPath := flag.String("config", "gem-casino.yaml", "path to the configuration file")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*configPath, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(configPath string, log *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	notifier := notify.New(cfg.Webhooks, log)
	usersvc := users.NewService(db, notifier, cfg.StartingGems, log)

	sess := session.New(session.Options{
		DB:           db,
		Users:        usersvc,
		Notifier:     notifier,
		StartingGems: cfg.StartingGems,
		Log:          log,
	})
	if err := sess.Restore(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewServer(sess, usersvc, cfg.CORSOrigins, log).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
