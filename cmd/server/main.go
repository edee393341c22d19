package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/wordchain-go/internal/api"
	"github.com/mcoot/wordchain-go/internal/config"
	"github.com/mcoot/wordchain-go/internal/factory"
	"github.com/mcoot/wordchain-go/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up logging with JSON output
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg.Factory(logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	handler := server.NewHandler(server.Config{
		Logger:    logger,
		App:       app,
		StaticDir: cfg.StaticDir,
	})
	srv := api.NewServer(handler, cfg.Server, logger)

	listener, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx, listener)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.HubCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				app.HubManager.CleanupEmptyHubs()
			case <-gctx.Done():
				// Ends open event streams so the server can drain
				app.HubManager.Close()
				return nil
			}
		}
	})

	logger.Info("server started", slog.String("addr", listener.Addr().String()))

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
