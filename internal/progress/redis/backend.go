package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/stellar-mind-go/internal/common/valkeyx"
)

// RetryPolicy: 일시적인 Valkey 오류에 대한 재시도 정책
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy 는 최초 시도 후 두 번까지 재시도한다.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      2,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Backend: 진행도 blob을 Valkey 문자열 키에 저장하는 원격 저장소.
// 키는 prefix 아래에 두며, 만료 없이 마지막 쓰기가 이긴다.
type Backend struct {
	client valkey.Client
	prefix string
	retry  RetryPolicy
	logger *slog.Logger
}

// NewBackend: 새로운 Valkey 진행도 저장소를 생성합니다.
func NewBackend(client valkey.Client, prefix string, retry RetryPolicy, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		client: client,
		prefix: prefix,
		retry:  retry,
		logger: logger,
	}
}

// Name 는 백엔드 식별자다.
func (b *Backend) Name() string { return "valkey" }

func (b *Backend) key(key string) string {
	return valkeyx.BuildKey(b.prefix, key)
}

func (b *Backend) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.retry.InitialInterval
	eb.MaxInterval = b.retry.MaxInterval
	eb.Multiplier = 2.0
	eb.RandomizationFactor = 0.2
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, b.retry.MaxRetries), ctx)
}

func (b *Backend) do(ctx context.Context, operation string, fn func() error) error {
	notify := func(err error, wait time.Duration) {
		b.logger.Warn("progress_redis_retry", "operation", operation, "err", err, "retry_in", wait)
	}
	if err := backoff.RetryNotify(fn, b.newBackOff(ctx), notify); err != nil {
		return valkeyx.WrapRedisError(operation, err)
	}
	return nil
}

// Save: payload를 키에 저장합니다.
func (b *Backend) Save(ctx context.Context, key string, payload string) error {
	fullKey := b.key(key)
	err := b.do(ctx, "progress_save", func() error {
		return valkeyx.SetString(ctx, b.client, fullKey, payload)
	})
	if err != nil {
		return err
	}
	b.logger.Debug("progress_blob_saved", "key", fullKey, "bytes", len(payload))
	return nil
}

// Load: 여러 키를 한 번에 조회합니다. 값이 없는 키는 결과에서 빠집니다.
func (b *Backend) Load(ctx context.Context, keys []string) (map[string]string, error) {
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = b.key(k)
	}

	var raw map[string]string
	err := b.do(ctx, "progress_load", func() error {
		var err error
		raw, err = valkeyx.MGetStrings(ctx, b.client, fullKeys...)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for i, k := range keys {
		if v, ok := raw[fullKeys[i]]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Delete: 키를 삭제합니다. 계정 초기화에 쓰입니다.
func (b *Backend) Delete(ctx context.Context, key string) error {
	fullKey := b.key(key)
	return b.do(ctx, "progress_delete", func() error {
		return valkeyx.DeleteKeys(ctx, b.client, fullKey)
	})
}
