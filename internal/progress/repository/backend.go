package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/stellar-mind-go/internal/common/dbutil"
	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
)

// Backend: 진행도 blob을 progress_blobs 테이블에 저장하는 GORM 기반 원격 저장소.
// PostgreSQL과 SQLite 모두에서 동작한다.
type Backend struct {
	db     *gorm.DB
	retry  dbutil.RetryConfig
	logger *slog.Logger
}

// New: 새로운 Backend 인스턴스를 생성한다.
func New(db *gorm.DB, retry dbutil.RetryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{db: db, retry: retry, logger: logger}
}

// DefaultRetryConfig 는 쓰기/읽기 재시도 기본값이다. 연결 재시도보다 짧다.
func DefaultRetryConfig() dbutil.RetryConfig {
	return dbutil.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
	}
}

// Name 는 백엔드 식별자다.
func (b *Backend) Name() string {
	if b.db != nil && b.db.Dialector != nil {
		return b.db.Dialector.Name()
	}
	return "database"
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (b *Backend) AutoMigrate(ctx context.Context) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := b.db.WithContext(ctx).AutoMigrate(&ProgressBlob{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

func (b *Backend) do(ctx context.Context, operation string, fn func() error) error {
	notify := func(err error, wait time.Duration) {
		b.logger.Warn("progress_db_retry", "operation", operation, "err", err, "retry_in", wait)
	}
	if err := backoff.RetryNotify(fn, dbutil.NewBackOff(ctx, b.retry), notify); err != nil {
		return cerrors.DatabaseError{Operation: operation, Err: err}
	}
	return nil
}

// Save: payload를 upsert한다. 같은 키가 있으면 덮어쓰고 revision을 올린다.
func (b *Backend) Save(ctx context.Context, key string, payload string) error {
	row := ProgressBlob{Key: key, Payload: payload, Revision: 1}
	return b.do(ctx, "progress_save", func() error {
		return b.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "blob_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payload":    payload,
				"revision":   gorm.Expr("progress_blobs.revision + 1"),
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error
	})
}

// Load: 여러 키를 한 번에 조회합니다. 행이 없는 키는 결과에서 빠집니다.
func (b *Backend) Load(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	var rows []ProgressBlob
	err := b.do(ctx, "progress_load", func() error {
		rows = rows[:0]
		return b.db.WithContext(ctx).Where("blob_key IN ?", keys).Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.Key] = row.Payload
	}
	return out, nil
}

// Delete: 키의 행을 삭제합니다. 계정 초기화에 쓰입니다.
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.do(ctx, "progress_delete", func() error {
		return b.db.WithContext(ctx).Where("blob_key = ?", key).Delete(&ProgressBlob{}).Error
	})
}
