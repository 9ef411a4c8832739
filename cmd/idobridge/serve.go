// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsido/idobridge/internal/api"
	"github.com/tsido/idobridge/internal/config"
	"github.com/tsido/idobridge/internal/engine/scripted"
	"github.com/tsido/idobridge/internal/health"
	"github.com/tsido/idobridge/internal/log"
	"github.com/tsido/idobridge/internal/orchestration"
	"github.com/tsido/idobridge/internal/telemetry"
	"github.com/tsido/idobridge/internal/version"
)

type serveOptions struct {
	configPath string
	scriptPath string
	listenAddr string
	lazyInit   bool
	watch      bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journey API over HTTP",
		Long: `Loads configuration (ENV > file > defaults), builds the scripted engine and
the orchestration facade, and serves the journey API until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "journey script; overrides engine.scriptPath")
	cmd.Flags().StringVar(&opts.listenAddr, "listen", "", "listen address; overrides api.listenAddr")
	cmd.Flags().BoolVar(&opts.lazyInit, "lazy-init", false, "wait for POST /v1/sdk/init instead of initializing at startup")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the journey script when it changes; overrides engine.watchScript")
	return cmd
}

// loadServeConfig applies the command-line overrides on top of the loaded
// configuration and validates the result.
func loadServeConfig(opts *serveOptions) (config.AppConfig, error) {
	cfg, err := config.NewLoader(opts.configPath, version.Version).Load()
	if err != nil {
		return cfg, fmt.Errorf("load configuration: %w", err)
	}
	if opts.scriptPath != "" {
		cfg.Engine.ScriptPath = opts.scriptPath
	}
	if opts.listenAddr != "" {
		cfg.API.ListenAddr = opts.listenAddr
	}
	if opts.watch {
		cfg.Engine.WatchScript = true
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if root.logLevel != "" {
		level = root.logLevel
	}
	log.Configure(log.Config{
		Level:   level,
		Output:  cmd.ErrOrStderr(),
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger := log.WithComponent("daemon")
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("config_path", opts.configPath).
		Str("script", cfg.Engine.ScriptPath).
		Msg("configuration loaded")

	if err := health.PerformStartupChecks(cfg); err != nil {
		return err
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "telemetry.shutdown_failed").Msg("tracer shutdown failed")
		}
	}()

	eng := scripted.New(cfg.Engine.ScriptPath, scripted.WithDelay(cfg.Engine.CallbackDelay))
	facade, err := orchestration.New(eng, orchestration.WithTracerProvider(tp.TracerProvider()))
	if err != nil {
		return err
	}
	defer func() {
		eng.Close()
		facade.Close()
	}()

	if !opts.lazyInit {
		if _, err := facade.InitializeSDK(ctx); err != nil {
			return err
		}
	}
	if cfg.Engine.WatchScript {
		if err := eng.StartWatcher(ctx); err != nil {
			return err
		}
	}

	srv, err := api.New(api.Config{
		ListenAddr:     cfg.API.ListenAddr,
		Version:        cfg.Version,
		RateLimit:      cfg.API.RateLimit,
		EngineRate:     cfg.API.EngineRate,
		EngineBurst:    cfg.API.EngineBurst,
		EventHistory:   cfg.API.EventHistory,
		TracingService: tracingService(cfg),
		TracerProvider: tp.TracerProvider(),
	}, facade)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.Telemetry.Enabled {
		return ""
	}
	return cfg.LogService
}
