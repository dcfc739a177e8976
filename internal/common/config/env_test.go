package config

import (
	"strings"
	"testing"
	"time"
)

func TestIntFromEnv(t *testing.T) {
	key := "TEST_INT_ENV"

	t.Run("default", func(t *testing.T) {
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(key, " 100 ")
		got, err := IntFromEnv(key, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "not_int")
		if _, err := IntFromEnv(key, 42); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBoolFromEnv(t *testing.T) {
	key := "TEST_BOOL_ENV"

	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"false", false},
		{"0", false},
		{"n", false},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(key, tt.val)
			got, err := BoolFromEnv(key, !tt.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(key, "maybe")
		if _, err := BoolFromEnv(key, false); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStringFromEnvFirstNonEmpty(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		got := StringFromEnvFirstNonEmpty([]string{"TEST_FOO", "TEST_BAR"}, "default")
		if got != "default" {
			t.Errorf("expected default, got %q", got)
		}
	})

	t.Run("skips_empty", func(t *testing.T) {
		t.Setenv("TEST_FOO", "  ")
		t.Setenv("TEST_BAR", "bar")
		got := StringFromEnvFirstNonEmpty([]string{"TEST_FOO", "TEST_BAR"}, "default")
		if got != "bar" {
			t.Errorf("expected bar, got %q", got)
		}
	})
}

func TestReadLogConfigFromEnv(t *testing.T) {
	t.Run("disabled_without_dir", func(t *testing.T) {
		t.Setenv("LOG_DIR", "")
		cfg, err := ReadLogConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Dir != "" {
			t.Errorf("expected empty dir, got %q", cfg.Dir)
		}
	})

	t.Run("invalid_rotation", func(t *testing.T) {
		t.Setenv("LOG_DIR", "/tmp/logs")
		t.Setenv("LOG_FILE_MAX_BACKUPS", "0")
		if _, err := ReadLogConfigFromEnv(); err == nil {
			t.Fatal("expected error for zero backups")
		}
	})
}

func TestReadTelemetryConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")
	t.Setenv("OTEL_SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg, err := ReadTelemetryConfigFromEnv("progressd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled || cfg.ServiceName != "progressd" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.SampleRatio != 0.25 {
		t.Errorf("expected 0.25, got %v", cfg.SampleRatio)
	}
	if cfg.ShutdownWait != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.ShutdownWait)
	}

	t.Setenv("OTEL_SAMPLE_RATIO", "1.5")
	if _, err := ReadTelemetryConfigFromEnv("progressd"); err == nil {
		t.Fatal("expected error for ratio > 1")
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, Name: "stellar", User: "app", SSLMode: "disable"}
	dsn := cfg.DSN()
	if strings.Contains(dsn, "password=") {
		t.Errorf("empty password must not be rendered: %s", dsn)
	}
	if !strings.Contains(dsn, "port=5433") || !strings.Contains(dsn, "dbname=stellar") {
		t.Errorf("unexpected dsn: %s", dsn)
	}

	cfg.Password = "secret"
	if !strings.Contains(cfg.DSN(), "password=secret") {
		t.Errorf("expected password in dsn: %s", cfg.DSN())
	}
}

func TestDurationSecondsFromEnv(t *testing.T) {
	key := "TEST_DURATION_ENV"

	got, err := DurationSecondsFromEnv(key, 7)
	if err != nil || got != 7*time.Second {
		t.Fatalf("expected default 7s, got %v err=%v", got, err)
	}

	t.Setenv(key, "12")
	if got, _ := DurationSecondsFromEnv(key, 7); got != 12*time.Second {
		t.Errorf("expected 12s, got %v", got)
	}

	t.Setenv(key, "-1")
	if _, err := DurationSecondsFromEnv(key, 7); err == nil || !strings.Contains(err.Error(), key) {
		t.Errorf("expected error naming the key, got %v", err)
	}
}
