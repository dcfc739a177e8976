package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/park285/stellar-mind-go/internal/progress/metrics"
)

// writeFunc 는 payload 하나를 백엔드에 기록한다.
type writeFunc func(ctx context.Context, payload string) error

type saveJob struct {
	payload string
	waiters []chan error
}

// saveQueue: 백엔드 쓰기를 한 번에 하나씩 실행하는 큐.
// 쓰기가 진행 중일 때 들어온 payload는 대기 중인 이전 payload를 대체하므로,
// 오래된 스냅샷이 새 스냅샷을 덮어쓰는 일이 없다.
type saveQueue struct {
	write   writeFunc
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending *saveJob
	running bool
	idle    chan struct{}
}

func newSaveQueue(write writeFunc, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *saveQueue {
	idle := make(chan struct{})
	close(idle)
	return &saveQueue{
		write:   write,
		timeout: timeout,
		logger:  logger,
		metrics: m,
		idle:    idle,
	}
}

// submit: payload를 대기열에 넣고 결과를 받을 채널을 반환한다.
// 대체된 이전 payload의 대기자는 새 payload의 쓰기 결과를 받는다.
func (q *saveQueue) submit(payload string) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	job := &saveJob{payload: payload, waiters: []chan error{done}}
	if q.pending != nil {
		job.waiters = append(q.pending.waiters, done)
		q.metrics.ObserveSave(metrics.ResultCoalesced, 0)
		q.logger.Debug("progress_save_coalesced", "waiters", len(job.waiters))
	}
	q.pending = job

	if !q.running {
		q.running = true
		q.idle = make(chan struct{})
		go q.drain(q.idle)
	}
	return done
}

func (q *saveQueue) drain(idle chan struct{}) {
	for {
		q.mu.Lock()
		job := q.pending
		q.pending = nil
		if job == nil {
			q.running = false
			close(idle)
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.write(ctx, job.payload)
		cancel()

		for _, w := range job.waiters {
			w <- err
		}
	}
}

// flush: 대기열이 빌 때까지 기다린다.
func (q *saveQueue) flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
