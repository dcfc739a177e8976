//go:build wireinject

package app

import "github.com/google/wire"

var progressProviderSet = wire.NewSet(
	newProgressTelemetry,
	newProgressCatalog,
	newProgressBackend,
	newProgressMetrics,
	newProgressIdentity,
	newProgressStore,
	newCycleArchive,
	newReporter,
	newProgressHandler,
	newProgressHTTPMux,
	newProgressHTTPServer,
	newProgressLoader,
	newProgressServerApp,
)
