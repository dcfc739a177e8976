package config

// 서비스 식별 상수.
const (
	// ServiceName 는 로그/트레이스에 쓰이는 서비스 이름이다.
	ServiceName = "stellar-progress"
	// LogFileName 는 파일 로깅 시 로그 파일 이름이다.
	LogFileName = "progressd.log"
	// DefaultServerPort 는 HTTP 기본 포트다.
	DefaultServerPort = 40310
)

// 저장소 키 상수.
const (
	// DefaultProgressKey 는 프로필 blob을 저장하는 고정 키다.
	DefaultProgressKey = "PlayerProgress"
	// DefaultKeyPrefix 는 Valkey 키 prefix다.
	DefaultKeyPrefix = "stellar:progress"
)

// 백엔드 종류.
const (
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// HTTP 요청 제한.
const (
	// MaxRequestBodyBytes 는 API 요청 바디 최대 크기다.
	MaxRequestBodyBytes = 64 << 10
)
