package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/stellar-mind-go/internal/common/httpserver"
)

// BackgroundTask 는 HTTP 서버와 수명을 공유하는 작업이다.
// Run이 nil을 반환하면 서버는 계속 돌고, 에러를 반환하면 서버도 함께 내려간다.
type BackgroundTask struct {
	Name        string
	ErrorLogKey string
	Run         func(ctx context.Context) error
}

// ServerApp 는 HTTP 서버와 백그라운드 작업 묶음이다.
type ServerApp struct {
	Service         string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration
	BackgroundTasks []BackgroundTask
}

// NewServerApp 는 ServerApp을 생성한다.
func NewServerApp(
	service string,
	logger *slog.Logger,
	server *http.Server,
	shutdownTimeout time.Duration,
	backgroundTasks ...BackgroundTask,
) *ServerApp {
	return &ServerApp{
		Service:         service,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
		BackgroundTasks: backgroundTasks,
	}
}

// Run 는 SIGINT/SIGTERM 또는 ctx 종료까지 서버와 작업을 실행한다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	for _, task := range a.BackgroundTasks {
		if task.Run != nil {
			g.Go(func() error { return a.runTask(gctx, task) })
		}
	}

	a.Logger.Info("server_start", "service", a.Service, "addr", a.Server.Addr)
	g.Go(func() error {
		return httpserver.Serve(gctx, a.Server, a.ShutdownTimeout)
	})

	err := g.Wait()
	a.Logger.Info("server_stopped", "service", a.Service, "err", err)
	if err != nil {
		return fmt.Errorf("run %s failed: %w", a.Service, err)
	}
	return nil
}

func (a *ServerApp) runTask(ctx context.Context, task BackgroundTask) error {
	err := task.Run(ctx)
	if err == nil {
		return nil
	}

	logKey := task.ErrorLogKey
	if logKey == "" {
		logKey = "background_task_failed"
	}
	a.Logger.Error(logKey, "task", task.Name, "err", err)
	return fmt.Errorf("%s failed: %w", task.Name, err)
}
