// Package identity: 로그인 상태와 표시 이름을 제공하는 identity 구현.
package identity

import (
	"strings"
	"sync"
)

// Static: 설정값으로 고정된 identity. 로그인 연동 없이 단일 플레이어로 배포할 때 쓴다.
type Static struct {
	mu          sync.RWMutex
	signedIn    bool
	displayName string
}

// NewStatic 는 Static identity를 생성한다.
func NewStatic(signedIn bool, displayName string) *Static {
	return &Static{signedIn: signedIn, displayName: strings.TrimSpace(displayName)}
}

// IsSignedIn 는 로그인 여부를 반환한다.
func (s *Static) IsSignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signedIn
}

// DisplayName 는 로그인된 경우의 표시 이름을 반환한다.
func (s *Static) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}

// SignIn: 로그인 상태로 바꾸고 표시 이름을 갱신한다.
func (s *Static) SignIn(displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedIn = true
	s.displayName = strings.TrimSpace(displayName)
}

// SignOut 는 로그아웃 상태로 바꾼다.
func (s *Static) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedIn = false
}
