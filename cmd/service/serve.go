package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"search-gateway/internal/config"
	"search-gateway/internal/gateway"
	"search-gateway/internal/observability"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search gateway",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mp, err := observability.InitMeter(ctx, observability.Config{
		Enabled:        cfg.OTelEnabled,
		ServiceName:    cfg.OTelServiceName,
		Endpoint:       cfg.OTelEndpoint,
		ExportInterval: cfg.MetricExportInterval,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logger.Warn("meter provider shutdown", "error", err)
		}
	}()

	if !cfg.HasAPIKey() {
		logger.Warn("YOUTUBE_API_KEY is not set, searches will fail until it is configured")
	}

	yt := gateway.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeSearchURL, cfg.UpstreamTimeout)
	srv := gateway.NewServer(cfg, yt, logger)

	r := srv.Router(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
	)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("search-gateway listening", "addr", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("search-gateway: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
