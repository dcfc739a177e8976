package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
	"github.com/park285/stellar-mind-go/internal/common/di"
	"github.com/park285/stellar-mind-go/internal/common/valkeyx"
)

// NewAndPingDataValkeyClient: 진행도 저장소용 Valkey 클라이언트를 연결하고 정리 함수를 함께 반환합니다.
func NewAndPingDataValkeyClient(
	ctx context.Context,
	cfg commonconfig.RedisConfig,
	logger *slog.Logger,
) (di.DataValkeyClient, func(), error) {
	client, err := valkeyx.Connect(ctx, cfg)
	if err != nil {
		return di.DataValkeyClient{}, nil, fmt.Errorf("connect valkey %s:%d failed: %w", cfg.Host, cfg.Port, err)
	}
	logger.Info("valkey_connected", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)

	closeFn := func() {
		client.Close()
		logger.Debug("valkey_client_closed")
	}
	return di.DataValkeyClient{Client: client}, closeFn, nil
}
