//go:build wireinject

package app

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/park285/stellar-mind-go/internal/common/bootstrap"
	progressconfig "github.com/park285/stellar-mind-go/internal/progress/config"
)

//go:generate go run github.com/google/wire/cmd/wire@v0.7.0
func Initialize(
	ctx context.Context,
	cfg *progressconfig.Config,
	logger *slog.Logger,
) (*bootstrap.ServerApp, func(), error) {
	wire.Build(
		progressProviderSet,
	)
	return nil, nil, nil
}
