package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/park285/stellar-mind-go/internal/common/bootstrap"
	"github.com/park285/stellar-mind-go/internal/common/di"
	"github.com/park285/stellar-mind-go/internal/common/health"
	"github.com/park285/stellar-mind-go/internal/common/httpserver"
	"github.com/park285/stellar-mind-go/internal/common/telemetry"
	"github.com/park285/stellar-mind-go/internal/progress/catalog"
	progressconfig "github.com/park285/stellar-mind-go/internal/progress/config"
	"github.com/park285/stellar-mind-go/internal/progress/httpapi"
	"github.com/park285/stellar-mind-go/internal/progress/identity"
	"github.com/park285/stellar-mind-go/internal/progress/metrics"
	"github.com/park285/stellar-mind-go/internal/progress/redis"
	"github.com/park285/stellar-mind-go/internal/progress/report"
	"github.com/park285/stellar-mind-go/internal/progress/repository"
	"github.com/park285/stellar-mind-go/internal/progress/service"
)

const (
	serverShutdownTimeout = 10 * time.Second
	flushTimeout          = 15 * time.Second
)

var (
	_ service.Deleter = (*redis.Backend)(nil)
	_ service.Deleter = (*repository.Backend)(nil)
)

func newProgressTelemetry(
	ctx context.Context,
	cfg *progressconfig.Config,
	logger *slog.Logger,
) (*telemetry.Provider, func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, health.Version())
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	if provider.IsEnabled() {
		logger.Info("telemetry_enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_ratio", cfg.Telemetry.SampleRatio)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ShutdownWait)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
	return provider, cleanup, nil
}

func newProgressCatalog(cfg *progressconfig.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load game catalog failed: %w", err)
	}
	if cfg.Progress.StartingScore != nil {
		cat, err = catalog.New(*cfg.Progress.StartingScore, cat.Games())
		if err != nil {
			return nil, fmt.Errorf("override starting score failed: %w", err)
		}
	}
	return cat, nil
}

func newProgressMetrics() *metrics.Metrics {
	return metrics.New()
}

func newProgressIdentity(cfg *progressconfig.Config) service.Identity {
	return identity.NewStatic(cfg.Identity.SignedIn, cfg.Identity.DisplayName)
}

// newProgressBackend: PROGRESS_BACKEND에 따라 원격 저장소를 연결한다.
func newProgressBackend(
	ctx context.Context,
	cfg *progressconfig.Config,
	logger *slog.Logger,
) (service.Backend, func(), error) {
	switch cfg.Progress.Backend {
	case progressconfig.BackendPostgres, progressconfig.BackendSQLite:
		return newProgressRepository(ctx, cfg, logger)
	default:
		client, closeFn, err := bootstrap.NewAndPingDataValkeyClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init valkey failed: %w", err)
		}
		backend := redis.NewBackend(client.Client, cfg.Progress.KeyPrefix, redis.DefaultRetryPolicy(), logger)
		return backend, closeFn, nil
	}
}

func newProgressRepository(
	ctx context.Context,
	cfg *progressconfig.Config,
	logger *slog.Logger,
) (service.Backend, func(), error) {
	var (
		progressDB di.ProgressDB
		closeFn    func()
		err        error
	)
	if cfg.Progress.Backend == progressconfig.BackendPostgres {
		progressDB, closeFn, err = bootstrap.NewPostgresProgressDB(ctx, cfg.Postgres, logger)
	} else {
		progressDB, closeFn, err = bootstrap.NewSQLiteProgressDB(ctx, cfg.SQLite.Path, logger)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("init %s failed: %w", cfg.Progress.Backend, err)
	}

	backend := repository.New(progressDB.DB, repository.DefaultRetryConfig(), logger)
	if err := backend.AutoMigrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("migrate progress tables failed: %w", err)
	}
	return backend, closeFn, nil
}

func newProgressStore(
	cfg *progressconfig.Config,
	cat *catalog.Catalog,
	backend service.Backend,
	id service.Identity,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*service.ProgressStore, func()) {
	store := service.NewProgressStore(cat, backend, id, service.StoreOptions{
		Key:           cfg.Progress.Key,
		StartingScore: cat.StartingScore(),
		SaveTimeout:   cfg.Progress.SaveTimeout,
	}, m, logger)
	return store, flushOnShutdown(store, logger)
}

func newCycleArchive(store *service.ProgressStore, m *metrics.Metrics, logger *slog.Logger) *service.CycleArchive {
	return service.NewCycleArchive(store, m, logger)
}

func newReporter(store *service.ProgressStore, cat *catalog.Catalog) *report.Reporter {
	return report.NewReporter(store, cat)
}

func newProgressHandler(
	store *service.ProgressStore,
	archive *service.CycleArchive,
	reporter *report.Reporter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *httpapi.Handler {
	return httpapi.NewHandler(store, archive, reporter, m, logger)
}

func newProgressHTTPMux(handler *httpapi.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	httpapi.Register(mux, handler)
	return mux
}

func newProgressHTTPServer(cfg *progressconfig.Config, mux *http.ServeMux, provider *telemetry.Provider) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	var handler http.Handler = mux
	if provider.IsEnabled() {
		handler = otelhttp.NewHandler(mux, progressconfig.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.Pattern
			}),
		)
	}
	return httpserver.New(addr, handler, httpserver.Options{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func newProgressServerApp(
	logger *slog.Logger,
	server *http.Server,
	loader *progressLoader,
) *bootstrap.ServerApp {
	return bootstrap.NewServerApp(
		progressconfig.ServiceName,
		logger,
		server,
		serverShutdownTimeout,
		bootstrap.BackgroundTask{
			Name:        "progress_loader",
			ErrorLogKey: "progress_initial_load_failed",
			Run:         loader.Run,
		},
	)
}

// flushOnShutdown: 종료 직전에 대기 중인 저장을 마친다.
func flushOnShutdown(store *service.ProgressStore, logger *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := store.Flush(ctx); err != nil {
			logger.Warn("progress_flush_failed", "err", err)
			return
		}
		logger.Info("progress_flushed")
	}
}
