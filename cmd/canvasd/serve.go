package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"canvasd/internal/config"
	"canvasd/internal/handler"
	"canvasd/internal/hub"
	"canvasd/internal/logging"
	"canvasd/internal/metrics"
	"canvasd/internal/repository/sqlite"
	"canvasd/internal/service"
	"canvasd/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr       string
	configPath string
	watch      bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (YAML or TOML)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload canvas defaults when the config file changes")
	return cmd
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting canvasd",
		zap.String("version", version),
		zap.String("config", cfgPath),
		zap.String("addr", cfg.Server.Addr),
	)

	journal, err := sqlite.New(cfg.Journal.DSN)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()
	logger.Info("journal opened", zap.String("dsn", cfg.Journal.DSN))

	collector := metrics.NewCollector("canvasd")
	eventBus := service.NewEventBus()

	sseHub := hub.New(logger, cfg.Events.Keepalive.Duration())
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go hub.Forward(ctx, sseHub, eventChan)

	svc := service.NewCanvasService(service.SettingsFromConfig(cfg), journal, eventBus, collector, logger)
	defer svc.Close()

	if opts.watch {
		if cfgPath == "" {
			logger.Warn("--watch ignored: no config file in use")
		} else {
			w := watcher.New(cfgPath, func() { reloadDefaults(cfgPath, svc, logger) }, logger)
			go func() {
				if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("config watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.NewRouter(handler.RouterConfig{
			Service:        svc,
			Events:         sseHub,
			Metrics:        collector,
			Logger:         logger,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// reloadDefaults applies the canvas and grid sections of a changed config
// file. Other sections need a restart.
func reloadDefaults(path string, svc *service.CanvasService, logger *zap.Logger) {
	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		logger.Warn("config reload failed, keeping previous defaults", zap.Error(err))
		return
	}
	svc.SetDefaults(service.DefaultsFromConfig(cfg))
}
