package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
	"github.com/park285/stellar-mind-go/internal/common/dbutil"
	"github.com/park285/stellar-mind-go/internal/common/di"
)

func openGorm(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}

func closeFn(sqlDB *sql.DB, name string, logger *slog.Logger) func() {
	return func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("db_close_failed", "name", name, "err", err)
		}
	}
}

// NewPostgresProgressDB: PostgreSQL에 재시도하며 연결한다.
func NewPostgresProgressDB(
	ctx context.Context,
	cfg commonconfig.PostgresConfig,
	logger *slog.Logger,
) (di.ProgressDB, func(), error) {
	openFn := func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
		return openGorm(ctx, postgres.Open(cfg.DSN()))
	}

	db, sqlDB, err := dbutil.OpenWithRetry(ctx, openFn, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return di.ProgressDB{}, nil, fmt.Errorf("open postgres failed: %w", err)
	}

	logger.Info("postgres_connected",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Name),
	)
	return di.ProgressDB{DB: db}, closeFn(sqlDB, "postgres", logger), nil
}

// NewSQLiteProgressDB: 로컬 SQLite 파일을 연다. 단일 프로세스 개발 환경용이다.
func NewSQLiteProgressDB(
	ctx context.Context,
	path string,
	logger *slog.Logger,
) (di.ProgressDB, func(), error) {
	db, sqlDB, err := openGorm(ctx, sqlite.Open(path))
	if err != nil {
		return di.ProgressDB{}, nil, fmt.Errorf("open sqlite failed: %w", err)
	}
	// SQLite는 단일 writer라 커넥션을 하나로 고정한다.
	sqlDB.SetMaxOpenConns(1)

	logger.Info("sqlite_opened", slog.String("path", path))
	return di.ProgressDB{DB: db}, closeFn(sqlDB, "sqlite", logger), nil
}
