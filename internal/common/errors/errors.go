// Package errors: 진행도 서비스 전체에서 공용으로 사용되는 에러 타입들을 정의한다.
// 저장소(Valkey/DB) 인프라 에러와 진행도 데이터 처리 중 발생하는 에러 분류를 함께 포함한다.
package errors

import (
	"errors"
	"fmt"
)

// RedisError: Redis 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 데이터베이스(PostgreSQL, SQLite) 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// MalformedPayloadError: 저장된 데이터의 형태가 깨져 있어 기본값으로 복구했을 때의 에러.
// 복구가 끝난 뒤 보고용으로만 사용되며 처리 흐름을 중단시키지 않는다.
type MalformedPayloadError struct {
	Path   string
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed payload: %s", e.Reason)
	}
	return fmt.Sprintf("malformed payload path=%s: %s", e.Path, e.Reason)
}

// MissingRemoteDataError: 원격 저장소에 요청한 키의 데이터가 없을 때 발생하는 에러
type MissingRemoteDataError struct {
	Key string
}

func (e *MissingRemoteDataError) Error() string {
	return fmt.Sprintf("remote data missing key=%s", e.Key)
}

// RemoteTransportError: 원격 저장소와의 통신(네트워크/인증 등)이 실패했을 때의 에러.
// 메모리 상태는 그대로 유지되며 호출자가 재시도할 수 있다.
type RemoteTransportError struct {
	Operation string
	Key       string
	Err       error
}

func (e *RemoteTransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote transport failed operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("remote transport failed operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e *RemoteTransportError) Unwrap() error { return e.Err }

// InvariantViolationError: 범위를 벗어난 스테이지 인덱스, 알 수 없는 게임 종류 등
// 프로그래밍/설정 결함을 나타내는 에러. 조용히 복구하지 않고 호출자에게 그대로 전달한다.
type InvariantViolationError struct {
	Operation string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation operation=%s: %s", e.Operation, e.Detail)
}

// NewInvariantViolation: 포맷 문자열로 InvariantViolationError를 만든다.
func NewInvariantViolation(operation string, format string, args ...any) error {
	return &InvariantViolationError{Operation: operation, Detail: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation: 에러 체인에 InvariantViolationError가 포함되어 있는지 확인한다.
func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}

// IsTransportFailure: 에러 체인에 RemoteTransportError가 포함되어 있는지 확인한다.
func IsTransportFailure(err error) bool {
	var target *RemoteTransportError
	return errors.As(err, &target)
}

// IsMissingRemoteData: 에러 체인에 MissingRemoteDataError가 포함되어 있는지 확인한다.
func IsMissingRemoteData(err error) bool {
	var target *MissingRemoteDataError
	return errors.As(err, &target)
}

// IsMalformedPayload: 에러 체인에 MalformedPayloadError가 포함되어 있는지 확인한다.
func IsMalformedPayload(err error) bool {
	var target *MalformedPayloadError
	return errors.As(err, &target)
}
