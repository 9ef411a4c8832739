// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package health

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/tsido/idobridge/internal/config"
	"github.com/tsido/idobridge/internal/log"
)

// PerformStartupChecks validates the environment before the server starts.
// Every failing check is reported.
func PerformStartupChecks(cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Str(log.FieldEvent, "startup.checks_begin").Msg("running startup checks")

	errs := []error{
		checkScript(logger, cfg.Engine.ScriptPath),
		checkListenAddr(logger, cfg.API.ListenAddr),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}
	logger.Info().Str(log.FieldEvent, "startup.checks_passed").Msg("all startup checks passed")
	return nil
}

func checkScript(logger zerolog.Logger, path string) error {
	if path == "" {
		return errors.New("engine.scriptPath is not set")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("journey script: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("journey script %s is a directory", path)
	}
	logger.Debug().Str("path", path).Int64("bytes", info.Size()).Msg("journey script present")
	return nil
}

func checkListenAddr(logger zerolog.Logger, addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("api.listenAddr %q: %w", addr, err)
	}
	logger.Debug().Str("addr", addr).Msg("listen address valid")
	return nil
}
