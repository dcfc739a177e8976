package health

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1500 * time.Millisecond, "2s"},
		{61 * time.Second, "1m1s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.in); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	if got := Get("valkey", true); got.Status != "ok" || got.Backend != "valkey" {
		t.Errorf("unexpected response: %+v", got)
	}
	if got := Get("valkey", false); got.Status != "degraded" {
		t.Errorf("expected degraded, got %q", got.Status)
	}
}
