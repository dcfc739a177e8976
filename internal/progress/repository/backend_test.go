package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/park285/stellar-mind-go/internal/common/dbutil"
	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/common/testhelper"
)

func newTestBackend(t *testing.T) (*Backend, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// :memory: DB는 커넥션마다 별개이므로 하나로 고정한다.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	retry := dbutil.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	b := New(db, retry, testhelper.DiscardLogger())
	if err := b.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return b, db
}

func TestBackend_SaveLoad(t *testing.T) {
	b, db := newTestBackend(t)
	ctx := context.Background()

	got, err := b.Load(ctx, []string{"PlayerProgress"})
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}

	if err := b.Save(ctx, "PlayerProgress", `{"v":1}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := b.Save(ctx, "PlayerProgress", `{"v":2}`); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err = b.Load(ctx, []string{"PlayerProgress", "Other"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["PlayerProgress"] != `{"v":2}` {
		t.Errorf("last write must win, got %v", got)
	}
	if _, ok := got["Other"]; ok {
		t.Error("absent key must be omitted")
	}

	var row ProgressBlob
	if err := db.Where("blob_key = ?", "PlayerProgress").Take(&row).Error; err != nil {
		t.Fatalf("select row: %v", err)
	}
	if row.Revision != 2 {
		t.Errorf("expected revision 2, got %d", row.Revision)
	}

	if err := b.Delete(ctx, "PlayerProgress"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = b.Load(ctx, []string{"PlayerProgress"})
	if len(got) != 0 {
		t.Errorf("expected no rows after delete, got %v", got)
	}
	var count int64
	db.Model(&ProgressBlob{}).Count(&count)
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestBackend_DatabaseError(t *testing.T) {
	b, db := newTestBackend(t)
	if err := db.Migrator().DropTable(&ProgressBlob{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	err := b.Save(context.Background(), "PlayerProgress", "{}")
	var dbErr cerrors.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if dbErr.Operation != "progress_save" {
		t.Errorf("unexpected operation: %s", dbErr.Operation)
	}
}
