package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/park285/stellar-mind-go/internal/common/telemetry"
	"github.com/park285/stellar-mind-go/internal/progress/codec"
	"github.com/park285/stellar-mind-go/internal/progress/metrics"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

// CycleArchive: 사이클 종료 시 스냅샷을 남기고 라이브 상태를 초기화한다.
type CycleArchive struct {
	store   *ProgressStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCycleArchive: 새로운 CycleArchive 인스턴스를 생성합니다.
func NewCycleArchive(store *ProgressStore, m *metrics.Metrics, logger *slog.Logger) *CycleArchive {
	if logger == nil {
		logger = slog.Default()
	}
	return &CycleArchive{store: store, metrics: m, logger: logger}
}

// AdvanceCycle: 현재 사이클을 닫고 다음 사이클을 시작한다.
// 활동이 있었던 사이클만 코덱 왕복으로 복사한 게임 기록과 함께 보관된다.
// 반환값은 스냅샷이 추가되었는지 여부다.
func (a *CycleArchive) AdvanceCycle(ctx context.Context) (archived bool, err error) {
	_, span := telemetry.StartSpan(ctx, "progress.advance_cycle")
	defer func() { telemetry.EndSpan(span, err) }()

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile
	if p == nil {
		return false, ErrProfileNotLoaded
	}

	now := s.now().UTC()
	outgoing := p.CurrentCycle

	if p.HasActivityThisCycle {
		snapshot, err := snapshotOf(p, now)
		if err != nil {
			return false, fmt.Errorf("snapshot cycle %d: %w", outgoing, err)
		}
		p.CycleHistory = append(p.CycleHistory, snapshot)
		archived = true
	}

	p.CurrentCycle++
	p.CurrentCycleStart = now
	p.TotalScore = s.startingScore
	p.LastPlayed = model.NoResumePoint
	p.HasActivityThisCycle = false
	p.ResetGames(s.catalog.Games())

	span.SetAttributes(
		attribute.Int("progress.cycle", p.CurrentCycle),
		attribute.Bool("progress.archived", archived),
	)
	a.metrics.ObserveCycleAdvance(archived)
	a.logger.Info("progress_cycle_advanced",
		"from", outgoing,
		"to", p.CurrentCycle,
		"archived", archived,
		"history", len(p.CycleHistory),
	)

	s.enqueueLocked()
	return archived, nil
}

// snapshotOf: 라이브 게임 기록과 메모리를 공유하지 않는 스냅샷을 만든다.
func snapshotOf(p *model.PlayerProfile, endedAt time.Time) (model.CycleSnapshot, error) {
	games := make(map[int]*model.GameRecord, len(p.Games))
	for _, idx := range p.GameIndices() {
		clone, err := codec.CloneGame(idx, p.Games[idx])
		if err != nil {
			return model.CycleSnapshot{}, fmt.Errorf("clone game %d: %w", idx, err)
		}
		games[idx] = clone
	}
	return model.CycleSnapshot{
		CycleNumber: p.CurrentCycle,
		TotalScore:  p.TotalScore,
		StartedAt:   p.CurrentCycleStart,
		EndedAt:     endedAt,
		Games:       games,
	}, nil
}
