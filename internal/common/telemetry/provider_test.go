package telemetry

import (
	"context"
	"errors"
	"testing"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), commonconfig.TelemetryConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Error("expected disabled provider")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of disabled provider: %v", err)
	}
}

func TestStartSpan_NoopWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "progress.save")
	if ctx == nil || span == nil {
		t.Fatal("expected span")
	}
	EndSpan(span, errors.New("boom"))
}
