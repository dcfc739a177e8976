package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/service"
)

// progressLoader: 시작 시 프로필을 적재한다. 통신 실패는 성공할 때까지 재시도한다.
type progressLoader struct {
	store           *service.ProgressStore
	logger          *slog.Logger
	initialInterval time.Duration
	maxInterval     time.Duration
}

func newProgressLoader(store *service.ProgressStore, logger *slog.Logger) *progressLoader {
	return &progressLoader{
		store:           store,
		logger:          logger,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     30 * time.Second,
	}
}

// Run: 첫 Load가 성공하면 바로 반환한다. 통신 실패가 아닌 에러는 재시도하지 않고 반환한다.
func (l *progressLoader) Run(ctx context.Context) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = l.initialInterval
	eb.MaxInterval = l.maxInterval
	eb.MaxElapsedTime = 0

	attempts := 0
	operation := func() error {
		attempts++
		err := l.store.Load(ctx)
		if err != nil && !cerrors.IsTransportFailure(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.logger.Warn("progress_load_retry", "attempt", attempts, "err", err, "retry_in", wait)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(eb, ctx), notify); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("initial progress load: %w", err)
	}

	l.logger.Info("progress_ready", "key", l.store.Key(), "backend", l.store.BackendName(), "attempts", attempts)
	return nil
}
