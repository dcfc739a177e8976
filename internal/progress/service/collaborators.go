// Package service: 진행도 프로필의 변이, 저장/로드 오케스트레이션, 사이클 보관을 담당한다.
package service

import "context"

// Backend: 진행도 blob을 저장하는 원격 저장소.
// Load는 값이 없는 키를 결과에서 뺀다.
type Backend interface {
	Name() string
	Save(ctx context.Context, key string, payload string) error
	Load(ctx context.Context, keys []string) (map[string]string, error)
}

// Identity: 로그인 상태와 표시 이름. 저장된 이름이 없을 때 기본 이름을 고르는 데만 쓴다.
type Identity interface {
	IsSignedIn() bool
	DisplayName() string
}

// Deleter: 키 삭제를 지원하는 Backend. 계정 초기화(ResetAccount)에 쓴다.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
