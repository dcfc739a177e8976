// Package httpserver: 진행도 API용 http.Server 구성과 실행.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const defaultReadHeaderTimeout = 5 * time.Second

// Options: http.Server 생성 옵션. 0 값은 net/http 기본값을 따른다.
type Options struct {
	UseH2C            bool
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// New: 옵션을 반영한 http.Server를 만든다. UseH2C면 평문 HTTP/2도 받는다.
func New(addr string, handler http.Handler, opts Options) *http.Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	if opts.UseH2C {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: opts.IdleTimeout})
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = defaultReadHeaderTimeout
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		IdleTimeout:       max(opts.IdleTimeout, 0),
		MaxHeaderBytes:    max(opts.MaxHeaderBytes, 0),
	}
}

// Serve: 주소를 먼저 바인딩한 뒤 서버를 실행한다.
// ctx가 끝나면 shutdownTimeout 안에서 Graceful Shutdown 한다.
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("http listen failed addr=%s: %w", server.Addr, err)
	}

	served := make(chan error, 1)
	go func() { served <- server.Serve(ln) }()

	select {
	case err := <-served:
		return serveResult(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return serveResult(<-served)
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http serve failed: %w", err)
}
