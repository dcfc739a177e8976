package config

import (
	"fmt"
	"strings"
	"time"
)

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnv("SERVER_PORT", defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정(Timeouts, Limits)을 환경 변수에서 읽어옵니다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	readHeaderTimeout, err := DurationSecondsFromEnv("SERVER_READ_HEADER_TIMEOUT_SECONDS", 5)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_SECONDS failed: %w", err)
	}

	idleTimeout, err := DurationSecondsFromEnv("SERVER_IDLE_TIMEOUT_SECONDS", 90)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_SECONDS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20) // 1MiB
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	return ServerTuningConfig{
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}, nil
}

// ReadRedisConfigFromEnv: Redis(Valkey) 연결 설정을 환경 변수에서 읽어옵니다.
func ReadRedisConfigFromEnv(defaultHost string, defaultPort int) (RedisConfig, error) {
	port, err := IntFromEnvFirstNonEmpty([]string{"REDIS_PORT", "VALKEY_PORT"}, defaultPort)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis port failed: %w", err)
	}
	db, err := IntFromEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_DB failed: %w", err)
	}
	poolSize, err := IntFromEnv("REDIS_POOL_SIZE", 16)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_POOL_SIZE failed: %w", err)
	}

	return RedisConfig{
		Host:     StringFromEnvFirstNonEmpty([]string{"REDIS_HOST", "VALKEY_HOST"}, defaultHost),
		Port:     port,
		Password: StringFromEnvFirstNonEmpty([]string{"REDIS_PASSWORD", "VALKEY_PASSWORD"}, ""),
		DB:       db,

		DialTimeout:  10 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		PoolSize:     poolSize,
		MinIdleConns: 2,
	}, nil
}

// ReadPostgresConfigFromEnv: PostgreSQL 접속 정보를 환경 변수에서 읽어옵니다.
func ReadPostgresConfigFromEnv(defaultName string) (PostgresConfig, error) {
	port, err := IntFromEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read POSTGRES_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:     StringFromEnv("POSTGRES_HOST", "localhost"),
		Port:     port,
		Name:     StringFromEnvFirstNonEmpty([]string{"POSTGRES_DB", "POSTGRES_NAME"}, defaultName),
		User:     StringFromEnv("POSTGRES_USER", "postgres"),
		Password: StringFromEnv("POSTGRES_PASSWORD", ""),
		SSLMode:  StringFromEnv("POSTGRES_SSLMODE", "disable"),
	}, nil
}

// DSN: PostgreSQL 접속 문자열을 만든다.
func (c PostgresConfig) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
		fmt.Sprintf("dbname=%s", c.Name),
		fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Password))
	}
	return strings.Join(parts, " ")
}

// ReadLogConfigFromEnv: 로그 파일 출력 설정(디렉터리, 크기, 백업 수)을 환경 변수에서 읽어옵니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{Dir: ""}, nil
	}

	maxSizeMB, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 1)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	maxAgeDays, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	if maxSizeMB <= 0 || maxBackups <= 0 || maxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf("invalid log rotation: size=%d backups=%d age_days=%d", maxSizeMB, maxBackups, maxAgeDays)
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽어옵니다.
// OTEL_ENABLED가 꺼져 있으면 나머지 값은 기본값으로 채워진다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}
	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}
	ratio, err := Float64FromEnv("OTEL_SAMPLE_RATIO", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATIO failed: %w", err)
	}
	if ratio < 0 || ratio > 1 {
		return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATIO: %v", ratio)
	}
	shutdownWait, err := DurationSecondsFromEnv("OTEL_SHUTDOWN_TIMEOUT_SECONDS", 5)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SHUTDOWN_TIMEOUT_SECONDS failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:      enabled,
		ServiceName:  StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
		Endpoint:     StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:     insecure,
		SampleRatio:  ratio,
		ShutdownWait: shutdownWait,
	}, nil
}
