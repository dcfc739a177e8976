package config

import (
	"fmt"
	"strings"
	"time"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정입니다.
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 성능 튜닝 옵션입니다.
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Valkey 연결 설정입니다.
type RedisConfig = commonconfig.RedisConfig

// PostgresConfig: PostgreSQL 연결 설정입니다.
type PostgresConfig = commonconfig.PostgresConfig

// LogConfig: 로그 출력 설정입니다.
type LogConfig = commonconfig.LogConfig

// ProgressConfig: 진행도 저장 설정입니다.
type ProgressConfig struct {
	Backend       string        // valkey | postgres | sqlite
	Key           string        // 프로필 blob 고정 키
	KeyPrefix     string        // Valkey 키 prefix
	SaveTimeout   time.Duration // 백엔드 쓰기 한 번의 제한 시간
	StartingScore *int          // 카탈로그 시작 점수 재정의 (nil이면 카탈로그 값)
}

// SQLiteConfig: 로컬 SQLite 백엔드 설정입니다.
type SQLiteConfig struct {
	Path string
}

// IdentityConfig: 정적 identity 설정입니다. 로그인 연동이 없는 배포에서 기본 이름을 정한다.
type IdentityConfig struct {
	SignedIn    bool
	DisplayName string
}

// Config: 진행도 서비스 전체 설정을 통합하는 구조체입니다.
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	SQLite       SQLiteConfig
	Progress     ProgressConfig
	Identity     IdentityConfig
	Log          LogConfig
	Telemetry    commonconfig.TelemetryConfig
}

// LoadFromEnv: 환경 변수에서 전체 설정을 읽어옵니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	progress, err := readProgressConfig()
	if err != nil {
		return nil, err
	}
	redis, err := commonconfig.ReadRedisConfigFromEnv("localhost", 6379)
	if err != nil {
		return nil, fmt.Errorf("read redis config failed: %w", err)
	}
	postgres, err := commonconfig.ReadPostgresConfigFromEnv("stellar_mind")
	if err != nil {
		return nil, fmt.Errorf("read postgres config failed: %w", err)
	}
	identity, err := readIdentityConfig()
	if err != nil {
		return nil, err
	}
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redis,
		Postgres:     postgres,
		SQLite:       SQLiteConfig{Path: commonconfig.StringFromEnv("SQLITE_PATH", "stellar-progress.db")},
		Progress:     progress,
		Identity:     identity,
		Log:          log,
		Telemetry:    telemetry,
	}, nil
}

func readProgressConfig() (ProgressConfig, error) {
	backend := strings.ToLower(commonconfig.StringFromEnv("PROGRESS_BACKEND", BackendValkey))
	switch backend {
	case BackendValkey, BackendPostgres, BackendSQLite:
	default:
		return ProgressConfig{}, fmt.Errorf("invalid PROGRESS_BACKEND=%q", backend)
	}

	saveTimeout, err := commonconfig.DurationSecondsFromEnv("PROGRESS_SAVE_TIMEOUT_SECONDS", 10)
	if err != nil {
		return ProgressConfig{}, fmt.Errorf("read PROGRESS_SAVE_TIMEOUT_SECONDS failed: %w", err)
	}
	if saveTimeout == 0 {
		return ProgressConfig{}, fmt.Errorf("PROGRESS_SAVE_TIMEOUT_SECONDS must be positive")
	}

	cfg := ProgressConfig{
		Backend:     backend,
		Key:         commonconfig.StringFromEnv("PROGRESS_KEY", DefaultProgressKey),
		KeyPrefix:   commonconfig.StringFromEnv("PROGRESS_KEY_PREFIX", DefaultKeyPrefix),
		SaveTimeout: saveTimeout,
	}

	if raw := commonconfig.StringFromEnv("PROGRESS_STARTING_SCORE", ""); raw != "" {
		score, err := commonconfig.IntFromEnv("PROGRESS_STARTING_SCORE", 0)
		if err != nil {
			return ProgressConfig{}, fmt.Errorf("read PROGRESS_STARTING_SCORE failed: %w", err)
		}
		cfg.StartingScore = &score
	}
	return cfg, nil
}

func readIdentityConfig() (IdentityConfig, error) {
	signedIn, err := commonconfig.BoolFromEnv("PLAYER_SIGNED_IN", false)
	if err != nil {
		return IdentityConfig{}, fmt.Errorf("read PLAYER_SIGNED_IN failed: %w", err)
	}
	return IdentityConfig{
		SignedIn:    signedIn,
		DisplayName: commonconfig.StringFromEnv("PLAYER_DISPLAY_NAME", ""),
	}, nil
}
