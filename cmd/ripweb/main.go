package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ripweb/internal/api"
	"ripweb/internal/app"
	"ripweb/internal/engine"
	"ripweb/internal/events"
	"ripweb/internal/infra/config"
	"ripweb/internal/infra/logger"
	"ripweb/internal/queue"
	"ripweb/internal/store"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "ripweb",
		Short:         "Web coordinator for the streamrip downloader",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (optional)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and download workers",
		RunE:  runServe,
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		log.Fatalf("ripweb: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local .env overrides are convenient in development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return err
	}

	st, err := store.NewPersistentStore(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	appc := app.NewContext(cfg, lg)
	appc.Bus = events.NewBus()
	appc.Queue = queue.New()
	appc.History = st

	registry := engine.NewRegistry()
	appc.Registry = registry

	pool := engine.NewPool(appc, registry)
	pool.Start()

	e := echo.New()
	api.RegisterRoutes(e, appc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}

	// Setup Signal Handling for Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		lg.Info("Shutdown signal received")

		// Poison the queue so workers stop once the backlog drains; in-flight
		// subprocesses are terminated by the runner's cleanup.
		pool.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown: %v", err)
		}
	}()

	lg.Info("ripweb listening on :%s (workers: %d, rip: %s)", cfg.Port, cfg.Download.Workers, cfg.Rip.Binary)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	lg.Info("Server stopped")
	return nil
}
