//go:build !wireinject

package app

import (
	"context"
	"log/slog"

	"github.com/park285/stellar-mind-go/internal/common/bootstrap"
	progressconfig "github.com/park285/stellar-mind-go/internal/progress/config"
)

// Initialize: 진행도 서비스 의존성을 초기화하고 ServerApp을 반환합니다.
func Initialize(ctx context.Context, cfg *progressconfig.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	provider, cleanupTelemetry, err := newProgressTelemetry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cat, err := newProgressCatalog(cfg)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	backend, cleanupBackend, err := newProgressBackend(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	progressMetrics := newProgressMetrics()
	id := newProgressIdentity(cfg)

	store, cleanupStore := newProgressStore(cfg, cat, backend, id, progressMetrics, logger)
	archive := newCycleArchive(store, progressMetrics, logger)
	reporter := newReporter(store, cat)

	handler := newProgressHandler(store, archive, reporter, progressMetrics, logger)
	httpMux := newProgressHTTPMux(handler)
	httpServer := newProgressHTTPServer(cfg, httpMux, provider)

	loader := newProgressLoader(store, logger)
	serverApp := newProgressServerApp(logger, httpServer, loader)

	cleanup := func() {
		cleanupStore()
		cleanupBackend()
		cleanupTelemetry()
	}

	return serverApp, cleanup, nil
}
