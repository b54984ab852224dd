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

	"go.uber.org/zap"

	"equityprices/internal/config"
	"equityprices/internal/logging"
	"equityprices/internal/provider"
	"equityprices/internal/providers"
	"equityprices/internal/quotes"
	"equityprices/internal/universe"
)

func newServer(cfg config.Config, reg *provider.Registry, loader *universe.Loader) *server {
	return &server{
		svc:              quotes.NewService(reg, quotes.WithDefaultProvider(cfg.Quotes.DefaultProvider)),
		registry:         reg,
		universe:         loader,
		defaultChunkSize: cfg.Quotes.DefaultChunkSize,
		maxSymbols:       cfg.Quotes.MaxSymbols,
		requestTimeout:   time.Duration(cfg.Server.RequestTimeoutSec) * time.Second,
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	reg := providers.FromConfig(cfg)
	if _, ok := reg.Get(cfg.Quotes.DefaultProvider); !ok {
		zap.L().Warn("default provider is not registered",
			zap.String("provider", cfg.Quotes.DefaultProvider),
			zap.Strings("registered", reg.Names()))
	}

	loader := universe.NewLoader(cfg.Universe.Path)
	if cfg.Universe.Preload {
		if err := loader.Load(context.Background()); err != nil {
			zap.L().Error("universe preload failed", zap.String("path", loader.Path()), zap.Error(err))
		}
	}

	s := newServer(cfg, reg, loader)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler(s.routes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutSec+5) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zap.L().Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Strings("providers", reg.Names()),
			zap.String("default_provider", s.svc.DefaultProvider()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("shutdown", zap.Error(err))
	}
}
