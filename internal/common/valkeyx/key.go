// Package valkeyx 는 Redis/Valkey 클라이언트 공통 유틸리티를 제공한다.
// 키 생성, 연결, 단순 문자열 명령 헬퍼를 포함한다.
package valkeyx

import (
	"fmt"
	"strings"
)

// BuildKey 는 prefix와 id를 결합하여 키를 생성한다.
// 형식: {prefix}:{id}
func BuildKey(prefix, id string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return strings.TrimSpace(id)
	}
	return fmt.Sprintf("%s:%s", prefix, strings.TrimSpace(id))
}
