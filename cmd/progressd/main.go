package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/stellar-mind-go/internal/common/bootstrap"
	"github.com/park285/stellar-mind-go/internal/common/health"
	progressapp "github.com/park285/stellar-mind-go/internal/progress/app"
	progressconfig "github.com/park285/stellar-mind-go/internal/progress/config"
)

// Version 은 빌드 시 -ldflags로 주입된다.
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunEntrypoint(
		context.Background(),
		logger,
		progressconfig.LogFileName,
		progressconfig.LoadFromEnv,
		func(cfg *progressconfig.Config) progressconfig.LogConfig { return cfg.Log },
		func(cfg *progressconfig.Config) bool { return cfg.Telemetry.Enabled },
		progressapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
