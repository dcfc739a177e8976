// Package health: 서비스 상태 정보
package health

import (
	"runtime"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Version 는 Init으로 설정된 빌드 버전이다.
func Version() string { return version }

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	Backend    string `json:"backend,omitempty"`
	Loaded     bool   `json:"loaded"`
}

// Get: 현재 상태 반환. status는 진행도가 메모리에 적재되지 않았으면 "degraded"다.
func Get(backend string, loaded bool) Response {
	status := "ok"
	if !loaded {
		status = "degraded"
	}
	return Response{
		Status:     status,
		Version:    version,
		Uptime:     formatDuration(time.Since(startTime)),
		Goroutines: runtime.NumGoroutine(),
		Backend:    backend,
		Loaded:     loaded,
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
