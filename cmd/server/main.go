// Command server starts the GM assistant panel server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lorekeep/gm-assist/internal/adapter/ai/pipeline"
	"github.com/lorekeep/gm-assist/internal/adapter/ai/transport"
	"github.com/lorekeep/gm-assist/internal/adapter/httpserver"
	"github.com/lorekeep/gm-assist/internal/adapter/observability"
	"github.com/lorekeep/gm-assist/internal/adapter/settings"
	"github.com/lorekeep/gm-assist/internal/config"
	"github.com/lorekeep/gm-assist/internal/service/artist"
	"github.com/lorekeep/gm-assist/internal/service/assistant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Host-managed settings override the env defaults where present.
	if cfg.SettingsPath != "" {
		store, err := settings.NewStore(cfg.SettingsPath)
		if err != nil {
			slog.Error("settings load failed", slog.Any("error", err))
			os.Exit(1)
		}
		s := store.Get()
		cfg.MaxQueueSize = s.MaxQueueSize
		cfg.MaxRetryAttempts = s.MaxRetryAttempts
		cfg.RetryBaseDelay = s.RetryBaseDelay
		cfg.RetryEnabled = s.RetryEnabled
		cfg.TextModel = s.TextModel
		cfg.ImageModel = s.ImageModel
		slog.Info("settings loaded", slog.String("path", cfg.SettingsPath))
	}

	invoker := transport.New(cfg.RequestTimeout)
	policy := pipeline.Policy{
		MaxAttempts:  cfg.MaxRetryAttempts,
		BaseDelay:    cfg.RetryBaseDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		RetryEnabled: cfg.RetryEnabled,
	}

	// One queue per client instance: text and image pipelines do not share
	// limits or ordering.
	textPipe := pipeline.NewClient("assistant", pipeline.NewEngine("assistant", invoker, policy), cfg.MaxQueueSize)
	imagePipe := pipeline.NewClient("artist", pipeline.NewEngine("artist", invoker, policy), cfg.MaxQueueSize)

	assistantSvc := assistant.New(cfg, textPipe)
	artistSvc := artist.New(cfg, imagePipe)

	router := httpserver.NewRouter(cfg, httpserver.NewServer(assistantSvc, artistSvc))
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		slog.Info("server listening", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	// Cancel pending work first; in-flight requests run to completion
	// within the shutdown window.
	assistantSvc.ClearQueue()
	artistSvc.ClearQueue()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", slog.Any("error", err))
	}
}
