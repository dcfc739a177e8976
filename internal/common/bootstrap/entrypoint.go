package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
)

// ConfigLoader: 설정을 로드하는 함수 타입
type ConfigLoader[C any] func() (*C, error)

// LogConfigGetter: 설정에서 로깅 설정을 추출하는 함수 타입
type LogConfigGetter[C any] func(*C) commonconfig.LogConfig

// OTelEnabledGetter: 설정에서 trace 상관관계 로깅 여부를 추출하는 함수 타입
type OTelEnabledGetter[C any] func(*C) bool

// AppInitializer: 애플리케이션 초기화 함수 타입 (ServerApp과 정리 함수 반환)
type AppInitializer[C any] func(context.Context, *C, *slog.Logger) (*ServerApp, func(), error)

// RunEntrypoint: 서비스 공통 시작점.
// .env와 설정을 읽고 로거를 고른 뒤 앱을 초기화해 종료 신호까지 실행합니다.
// 반환되는 로거는 최종적으로 선택된 로거입니다.
func RunEntrypoint[C any](
	ctx context.Context,
	logger *slog.Logger,
	logFileName string,
	loadConfig ConfigLoader[C],
	getLogConfig LogConfigGetter[C],
	otelEnabled OTelEnabledGetter[C],
	initialize AppInitializer[C],
) (*slog.Logger, error) {
	if err := commonconfig.LoadDotenvIfPresent(); err != nil {
		return logger, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return logger, fmt.Errorf("load config failed: %w", err)
	}

	var logCfg commonconfig.LogConfig
	if getLogConfig != nil {
		logCfg = getLogConfig(cfg)
	}
	logger, err = selectLogger(logger, logCfg, logFileName, otelEnabled != nil && otelEnabled(cfg))
	if err != nil {
		return logger, err
	}

	serverApp, cleanup, err := initialize(ctx, cfg, logger)
	if err != nil {
		return logger, fmt.Errorf("initialize app failed: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	return logger, serverApp.Run(ctx)
}

// selectLogger: LOG_DIR가 있으면 파일 로거, 없고 OTel이 켜져 있으면 상관관계 로거, 아니면 기존 로거.
func selectLogger(current *slog.Logger, cfg commonconfig.LogConfig, fileName string, withOTel bool) (*slog.Logger, error) {
	if strings.TrimSpace(cfg.Dir) != "" {
		fileLogger, err := EnableFileLogging(cfg, fileName, withOTel)
		if err != nil {
			return current, fmt.Errorf("enable file logging failed: %w", err)
		}
		return fileLogger, nil
	}
	if withOTel {
		logger := NewLoggerWithOTel()
		slog.SetDefault(logger)
		return logger, nil
	}
	return current, nil
}
