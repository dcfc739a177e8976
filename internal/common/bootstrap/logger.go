package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
)

// NewLogger: stdout에 tint 핸들러로 출력하는 기본 로거를 생성합니다.
func NewLogger() *slog.Logger {
	return slog.New(newTintHandler(os.Stdout, false, false))
}

func newTintHandler(w io.Writer, noColor bool, withOTel bool) slog.Handler {
	var handler slog.Handler = tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	})
	if withOTel {
		handler = NewOTelHandler(handler)
	}
	return handler
}

// NewLoggerWithOTel: trace 상관관계가 붙는 stdout 로거를 생성합니다. 파일 로깅이 꺼져 있을 때 쓰인다.
func NewLoggerWithOTel() *slog.Logger {
	return slog.New(newTintHandler(os.Stdout, false, true))
}

// EnableFileLogging: 파일 로깅을 활성화하고, 파일과 stdout에 동시에 출력하는 로거를 반환합니다.
// cfg.Dir가 비어 있으면 (nil, nil)을 반환한다.
func EnableFileLogging(cfg commonconfig.LogConfig, fileName string, withOTel bool) (*slog.Logger, error) {
	logDir := strings.TrimSpace(cfg.Dir)
	if logDir == "" {
		return nil, nil
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("invalid log config: size=%d backups=%d age_days=%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    cfg.MaxSizeMB,  // megabytes
		MaxBackups: cfg.MaxBackups, // files
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   cfg.Compress,
	}

	logger := slog.New(newTintHandler(io.MultiWriter(os.Stdout, logFile), true, withOTel))
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled",
		slog.String("path", logFile.Filename),
		slog.Bool("otel_correlation", withOTel),
	)
	return logger, nil
}
