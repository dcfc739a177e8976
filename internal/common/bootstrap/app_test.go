package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/park285/stellar-mind-go/internal/common/httpserver"
	"github.com/park285/stellar-mind-go/internal/common/testhelper"
)

func newTestServerApp(tasks ...BackgroundTask) *ServerApp {
	server := httpserver.New("127.0.0.1:0", http.NewServeMux(), httpserver.Options{})
	return NewServerApp("test", testhelper.DiscardLogger(), server, time.Second, tasks...)
}

func TestServerApp_TaskFailureStopsServer(t *testing.T) {
	boom := errors.New("boom")
	app := newTestServerApp(BackgroundTask{
		Name: "failing",
		Run:  func(context.Context) error { return boom },
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected task error, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestServerApp_CompletedTaskKeepsServing(t *testing.T) {
	ran := make(chan struct{})
	app := newTestServerApp(BackgroundTask{
		Name: "once",
		Run: func(context.Context) error {
			close(ran)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	<-ran
	select {
	case err := <-done:
		t.Fatalf("app stopped early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

func TestServerApp_NilIsNoop(t *testing.T) {
	var app *ServerApp
	if err := app.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}
