package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/cli"
	applog "github.com/matiasfalconaro/Tkinter-expense-manager/internal/log"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/services"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/web"
)

func main() {
	cli.LoadEnvFile()

	bootLogger := cli.SetupLogger(nil)
	cfg := cli.LoadAndValidateConfig(bootLogger)
	logger := cli.SetupLogger(cfg)

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close record store", applog.FieldError, err)
		}
	}()

	manager := services.NewManager(store)

	srv, err := web.NewServer(":"+cfg.Port, manager, logger)
	if err != nil {
		logger.Error("Failed to configure server", applog.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expense manager",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			"db_path", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
