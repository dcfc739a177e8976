package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// RetryConfig: DB 연결 재시도 설정
type RetryConfig struct {
	MaxAttempts int           // 최대 시도 횟수 (기본: 5)
	BaseDelay   time.Duration // 초기 대기 시간 (기본: 2초)
	MaxDelay    time.Duration // 최대 대기 시간 (기본: 30초)
}

// DefaultRetryConfig: 기본 재시도 설정
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// OpenFunc: DB 연결을 시도하는 함수 타입
type OpenFunc func(ctx context.Context) (*gorm.DB, *sql.DB, error)

func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 2 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	return c
}

// NewBackOff: 설정값으로 지수 백오프 정책을 만든다. 시도 횟수 제한과 ctx 취소가 함께 적용된다.
func NewBackOff(ctx context.Context, cfg RetryConfig) backoff.BackOff {
	cfg = cfg.normalized()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BaseDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)
}

// OpenWithRetry: exponential backoff로 DB 연결을 재시도합니다.
// 스키마 마이그레이션이 완료되기 전 앱이 시작되는 경우를 흡수한다.
func OpenWithRetry(
	ctx context.Context,
	openFn OpenFunc,
	cfg RetryConfig,
	logger *slog.Logger,
) (*gorm.DB, *sql.DB, error) {
	cfg = cfg.normalized()

	var (
		db      *gorm.DB
		sqlDB   *sql.DB
		attempt int
	)
	operation := func() error {
		attempt++
		var err error
		db, sqlDB, err = openFn(ctx)
		return err
	}
	notify := func(err error, delay time.Duration) {
		if logger != nil {
			logger.Warn("db_connect_retry",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", cfg.MaxAttempts),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
		}
	}

	if err := backoff.RetryNotify(operation, NewBackOff(ctx, cfg), notify); err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("db connect cancelled: %w", ctx.Err())
		}
		return nil, nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
	}

	if attempt > 1 && logger != nil {
		logger.Info("db_connect_success_after_retry", slog.Int("attempts", attempt))
	}
	return db, sqlDB, nil
}
