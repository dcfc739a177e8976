package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/common/testhelper"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestBackend_SaveLoad(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	prefix := testhelper.UniqueTestPrefix(t)
	b := NewBackend(client, prefix, fastRetry(), testhelper.DiscardLogger())
	ctx := context.Background()

	if err := b.Save(ctx, "PlayerProgress", `{"totalScore":1}`); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := mr.Get(prefix + ":PlayerProgress")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if stored != `{"totalScore":1}` {
		t.Errorf("unexpected stored value: %s", stored)
	}
	if mr.TTL(prefix+":PlayerProgress") != 0 {
		t.Error("progress blob must not expire")
	}

	got, err := b.Load(ctx, []string{"PlayerProgress", "Missing"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["PlayerProgress"] != `{"totalScore":1}` {
		t.Errorf("unexpected payload: %v", got)
	}
	if _, ok := got["Missing"]; ok {
		t.Error("absent key must be omitted")
	}

	if err := b.Save(ctx, "PlayerProgress", `{"totalScore":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = b.Load(ctx, []string{"PlayerProgress"})
	if got["PlayerProgress"] != `{"totalScore":2}` {
		t.Errorf("last write must win, got %v", got)
	}

	if err := b.Delete(ctx, "PlayerProgress"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = b.Load(ctx, []string{"PlayerProgress"})
	if len(got) != 0 {
		t.Errorf("expected empty after delete, got %v", got)
	}
}

func TestBackend_TransportFailure(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	b := NewBackend(client, "p", fastRetry(), testhelper.DiscardLogger())
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := b.Save(ctx, "PlayerProgress", "{}")
	var redisErr cerrors.RedisError
	if !errors.As(err, &redisErr) {
		t.Fatalf("expected RedisError, got %v", err)
	}
	if redisErr.Operation != "progress_save" {
		t.Errorf("unexpected operation: %s", redisErr.Operation)
	}

	if _, err := b.Load(ctx, []string{"PlayerProgress"}); err == nil {
		t.Fatal("expected load error")
	}
}
