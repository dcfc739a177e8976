package testhelper

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

// NewMiniredisClient: 인메모리 miniredis 서버와 그에 연결된 Valkey 클라이언트를 생성합니다.
// 서버와 클라이언트는 테스트 종료 시 자동으로 정리됩니다.
func NewMiniredisClient(t *testing.T) (valkey.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		mr.Close()
		t.Fatalf("valkey client create failed: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

// UniqueTestPrefix: 테스트별로 고유한 키 prefix를 생성합니다.
func UniqueTestPrefix(t *testing.T) string {
	return "test:" + t.Name()
}
