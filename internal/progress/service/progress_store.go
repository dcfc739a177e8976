package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/common/telemetry"
	"github.com/park285/stellar-mind-go/internal/progress/catalog"
	"github.com/park285/stellar-mind-go/internal/progress/codec"
	"github.com/park285/stellar-mind-go/internal/progress/metrics"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

const (
	defaultSaveTimeout  = 10 * time.Second
	loadSingleflightKey = "progress_load"
)

var (
	// ErrProfileNotLoaded: 첫 Load 전에 프로필을 변경하려 할 때 반환된다.
	ErrProfileNotLoaded = errors.New("progress profile not loaded")
	// ErrResetUnsupported: Backend가 Deleter를 구현하지 않아 계정 초기화를 할 수 없다.
	ErrResetUnsupported = errors.New("progress backend does not support delete")
)

// StoreOptions: ProgressStore 생성 옵션
type StoreOptions struct {
	Key           string
	StartingScore int
	SaveTimeout   time.Duration
	Now           func() time.Time
}

// ProgressStore: 플레이어 프로필 하나를 소유하고 저장/로드를 조율한다.
// 변이 메서드는 동기적으로 메모리를 바꾼 뒤 저장을 요청한다.
// Profile()이 반환하는 포인터를 읽는 쪽은 변이 호출과 직렬화해야 한다.
type ProgressStore struct {
	catalog       *catalog.Catalog
	backend       Backend
	identity      Identity
	key           string
	startingScore int
	now           func() time.Time
	logger        *slog.Logger
	metrics       *metrics.Metrics

	queue *saveQueue
	sf    singleflight.Group

	mu      sync.RWMutex
	profile *model.PlayerProfile
}

// NewProgressStore: 새로운 ProgressStore 인스턴스를 생성합니다. 프로필은 Load 이후에 채워진다.
func NewProgressStore(
	cat *catalog.Catalog,
	backend Backend,
	identity Identity,
	opts StoreOptions,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}

	s := &ProgressStore{
		catalog:       cat,
		backend:       backend,
		identity:      identity,
		key:           opts.Key,
		startingScore: opts.StartingScore,
		now:           opts.Now,
		logger:        logger,
		metrics:       m,
	}
	s.queue = newSaveQueue(s.write, opts.SaveTimeout, logger, m)
	return s
}

// Key 는 프로필 blob의 고정 키다.
func (s *ProgressStore) Key() string { return s.key }

// BackendName 는 사용 중인 백엔드 이름이다.
func (s *ProgressStore) BackendName() string { return s.backend.Name() }

// Catalog 는 알려진 게임 목록이다.
func (s *ProgressStore) Catalog() *catalog.Catalog { return s.catalog }

// Profile: 현재 프로필. 첫 Load 성공 전에는 nil이다.
func (s *ProgressStore) Profile() *model.PlayerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Loaded 는 프로필을 보유하고 있는지 확인한다.
func (s *ProgressStore) Loaded() bool {
	return s.Profile() != nil
}

// RecordStageResult: 스테이지 결과를 기록하고 점수 변화분을 총점에 더한 뒤 저장을 요청한다.
// 카탈로그에 없는 게임 인덱스나 범위를 벗어난 스테이지 인덱스는 InvariantViolation이다.
func (s *ProgressStore) RecordStageResult(gameIndex int, stageIndex int, outcome model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return ErrProfileNotLoaded
	}
	g, err := s.gameLocked("record_stage_result", gameIndex)
	if err != nil {
		return err
	}

	previous := 0
	if r, ok := g.Stage(stageIndex); ok {
		previous = r.Shared().Score
	}
	if err := g.RecordStageResult(stageIndex, outcome); err != nil {
		return fmt.Errorf("game %d: %w", gameIndex, err)
	}

	s.profile.TotalScore += outcome.Score - previous
	s.profile.HasActivityThisCycle = true
	s.profile.LastPlayed = model.ResumePoint{Game: gameIndex, Stage: stageIndex}
	s.metrics.ObserveStageResult(string(g.Kind))

	s.logger.Debug("stage_result_recorded",
		"game", gameIndex,
		"stage", stageIndex,
		"kind", g.Kind,
		"score", outcome.Score,
		"game_completed", g.Completed,
	)
	s.enqueueLocked()
	return nil
}

// SetResumePoint: 재개 위치를 바꾼다. NoResumePoint를 넘기면 비운다.
func (s *ProgressStore) SetResumePoint(gameIndex int, stageIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return ErrProfileNotLoaded
	}

	point := model.ResumePoint{Game: gameIndex, Stage: stageIndex}
	if point == model.NoResumePoint {
		s.profile.LastPlayed = model.NoResumePoint
		s.enqueueLocked()
		return nil
	}

	spec, ok := s.catalog.Lookup(gameIndex)
	if !ok {
		return cerrors.NewInvariantViolation("set_resume_point", "unknown game index %d", gameIndex)
	}
	if stageIndex < 0 || stageIndex >= spec.StageCount {
		return cerrors.NewInvariantViolation("set_resume_point",
			"stage index %d outside 0..%d for game %d", stageIndex, spec.StageCount-1, gameIndex)
	}

	s.profile.LastPlayed = point
	s.enqueueLocked()
	return nil
}

// MarkGameOpened: 게임을 열린 상태로 표시한다. 완료되지 않은 스테이지는 진행 중 상태가 된다.
func (s *ProgressStore) MarkGameOpened(gameIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return ErrProfileNotLoaded
	}
	g, err := s.gameLocked("mark_game_opened", gameIndex)
	if err != nil {
		return err
	}
	if g.Opened {
		return nil
	}
	g.MarkOpened()
	s.enqueueLocked()
	return nil
}

// SetPlayerName 는 플레이어 이름을 바꾼다.
func (s *ProgressStore) SetPlayerName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return ErrProfileNotLoaded
	}
	normalized := model.NormalizePlayerName(name)
	if normalized == "" {
		return cerrors.NewInvariantViolation("set_player_name", "empty player name")
	}
	s.profile.PlayerName = normalized
	s.enqueueLocked()
	return nil
}

// SetSelectedCharacter 는 선택한 캐릭터를 바꾼다.
func (s *ProgressStore) SetSelectedCharacter(character string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return ErrProfileNotLoaded
	}
	s.profile.SelectedCharacter = strings.TrimSpace(character)
	s.enqueueLocked()
	return nil
}

// gameLocked: 카탈로그로 검증한 GameRecord를 반환한다. 알려진 인덱스인데 기록이 없으면 새로 만든다.
func (s *ProgressStore) gameLocked(operation string, gameIndex int) (*model.GameRecord, error) {
	spec, ok := s.catalog.Lookup(gameIndex)
	if !ok {
		return nil, cerrors.NewInvariantViolation(operation, "unknown game index %d", gameIndex)
	}
	g, ok := s.profile.Games[gameIndex]
	if !ok || g == nil {
		g = model.NewGameRecord(spec.Kind, spec.StageCount)
		s.profile.Games[gameIndex] = g
		s.logger.Warn("progress_game_recreated", "game", gameIndex, "kind", spec.Kind)
	}
	return g, nil
}

// Save: 호출 시점의 프로필을 저장하고 쓰기가 끝날 때까지 기다린다.
// 통신 실패는 *RemoteTransportError로 반환되며 메모리 상태는 그대로다.
func (s *ProgressStore) Save(ctx context.Context) error {
	s.mu.RLock()
	if s.profile == nil {
		s.mu.RUnlock()
		return ErrProfileNotLoaded
	}
	done, err := s.submitLocked()
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("wait progress save: %w", ctx.Err())
	}
}

// RequestSave: 호출 시점의 프로필 저장을 요청하고 기다리지 않는다.
func (s *ProgressStore) RequestSave() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return
	}
	s.enqueueLocked()
}

// Flush: 대기 중인 저장이 모두 끝날 때까지 기다린다.
func (s *ProgressStore) Flush(ctx context.Context) error {
	if err := s.queue.flush(ctx); err != nil {
		return fmt.Errorf("flush progress saves: %w", err)
	}
	return nil
}

func (s *ProgressStore) enqueueLocked() {
	if _, err := s.submitLocked(); err != nil {
		s.logger.Error("progress_encode_failed", "key", s.key, "err", err)
	}
}

// submitLocked: 프로필을 직렬화해 저장 큐에 넣는다. 읽기 잠금 이상을 잡은 상태에서 호출한다.
func (s *ProgressStore) submitLocked() (<-chan error, error) {
	payload, err := codec.EncodeProfile(s.profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return s.queue.submit(string(payload)), nil
}

func (s *ProgressStore) write(ctx context.Context, payload string) error {
	ctx, span := telemetry.StartSpan(ctx, "progress.save",
		attribute.String("progress.key", s.key),
		attribute.String("progress.backend", s.backend.Name()),
		attribute.Int("progress.bytes", len(payload)),
	)

	started := time.Now()
	err := s.backend.Save(ctx, s.key, payload)
	elapsed := time.Since(started)

	if err != nil {
		wrapped := &cerrors.RemoteTransportError{Operation: "save", Key: s.key, Err: err}
		s.metrics.ObserveSave(metrics.ResultError, elapsed)
		s.logger.Error("progress_save_failed", "key", s.key, "backend", s.backend.Name(), "err", err)
		telemetry.EndSpan(span, wrapped)
		return wrapped
	}

	s.metrics.ObserveSave(metrics.ResultOK, elapsed)
	s.logger.Debug("progress_saved", "key", s.key, "bytes", len(payload), "elapsed", elapsed)
	telemetry.EndSpan(span, nil)
	return nil
}

// ResetAccount: 원격 키를 지우고 기본 프로필로 다시 시작한다.
// 대기 중인 저장을 먼저 끝내 삭제 뒤에 예전 상태가 다시 써지지 않게 한 뒤, 새 프로필을 저장한다.
// 삭제가 실패하면 메모리는 그대로다. 변이 호출과 직렬화해서 호출한다.
func (s *ProgressStore) ResetAccount(ctx context.Context) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "progress.reset_account",
		attribute.String("progress.key", s.key),
		attribute.String("progress.backend", s.backend.Name()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	deleter, ok := s.backend.(Deleter)
	if !ok {
		return ErrResetUnsupported
	}

	if err := s.queue.flush(ctx); err != nil {
		return fmt.Errorf("flush before reset: %w", err)
	}
	if err := deleter.Delete(ctx, s.key); err != nil {
		s.logger.Error("progress_reset_failed", "key", s.key, "backend", s.backend.Name(), "err", err)
		return &cerrors.RemoteTransportError{Operation: "delete", Key: s.key, Err: err}
	}

	s.mu.Lock()
	s.profile = s.newDefaultProfile()
	s.enqueueLocked()
	name := s.profile.PlayerName
	s.mu.Unlock()

	s.logger.Info("progress_account_reset", "key", s.key, "player", name)
	return nil
}

// Load: 원격 저장소에서 프로필을 읽어 메모리를 교체한다. 동시에 들어온 호출은 하나로 합쳐진다.
//   - 통신 실패: *RemoteTransportError, 메모리 유지
//   - 데이터 없음: 보유한 프로필이 없으면 기본 프로필을 만들어 저장, 있으면 *MissingRemoteDataError
//   - 디코딩 실패: 보유한 프로필이 없으면 기본 프로필(저장하지 않음), 있으면 에러 반환 후 마지막 정상 상태 유지
//
// 카탈로그와 맞지 않는 데이터(*InvariantViolationError)는 보유 여부와 상관없이 반환한다.
func (s *ProgressStore) Load(ctx context.Context) error {
	_, err, shared := s.sf.Do(loadSingleflightKey, func() (any, error) {
		return nil, s.load(ctx)
	})
	if shared {
		s.logger.Debug("progress_load_shared", "key", s.key)
	}
	return err
}

func (s *ProgressStore) load(ctx context.Context) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "progress.load",
		attribute.String("progress.key", s.key),
		attribute.String("progress.backend", s.backend.Name()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	values, loadErr := s.backend.Load(ctx, []string{s.key})
	if loadErr != nil {
		s.metrics.ObserveLoad(metrics.ResultError)
		s.logger.Error("progress_load_failed", "key", s.key, "backend", s.backend.Name(), "err", loadErr)
		return &cerrors.RemoteTransportError{Operation: "load", Key: s.key, Err: loadErr}
	}

	raw, ok := values[s.key]
	if !ok {
		s.metrics.ObserveLoad(metrics.ResultMissing)
		return s.handleMissing()
	}

	result, decodeErr := codec.DecodeProfile([]byte(raw), s.catalog.Games(), s.signedInName())
	if decodeErr != nil {
		s.metrics.ObserveLoad(metrics.ResultMalformed)
		return s.handleUndecodable(decodeErr)
	}

	for _, repair := range result.Repairs {
		s.logger.Warn("stage_payload_repaired", "key", s.key, "detail", repair)
	}
	s.metrics.AddRepairs(len(result.Repairs))
	s.metrics.ObserveLoad(metrics.ResultOK)

	s.mu.Lock()
	s.profile = result.Profile
	s.mu.Unlock()

	s.logger.Info("progress_loaded",
		"key", s.key,
		"player", result.Profile.PlayerName,
		"cycle", result.Profile.CurrentCycle,
		"repairs", len(result.Repairs),
	)
	return nil
}

func (s *ProgressStore) handleMissing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile != nil {
		s.logger.Warn("progress_remote_missing", "key", s.key)
		return &cerrors.MissingRemoteDataError{Key: s.key}
	}

	s.profile = s.newDefaultProfile()
	s.logger.Info("progress_profile_created", "key", s.key, "player", s.profile.PlayerName)
	s.enqueueLocked()
	return nil
}

func (s *ProgressStore) handleUndecodable(err error) error {
	if cerrors.IsInvariantViolation(err) {
		s.logger.Error("progress_load_rejected", "key", s.key, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile != nil {
		s.logger.Error("progress_load_malformed", "key", s.key, "err", err)
		return err
	}

	// 깨진 원본은 덮어쓰지 않는다. 다음 변이 때 저장된다.
	s.profile = s.newDefaultProfile()
	s.logger.Warn("progress_load_malformed_reset", "key", s.key, "err", err)
	return nil
}

func (s *ProgressStore) newDefaultProfile() *model.PlayerProfile {
	return model.NewDefaultProfile(s.signedInName(), s.catalog.Games(), s.startingScore, s.now())
}

// signedInName: 로그인 상태면 표시 이름, 아니면 빈 문자열
func (s *ProgressStore) signedInName() string {
	if s.identity != nil && s.identity.IsSignedIn() {
		return s.identity.DisplayName()
	}
	return ""
}
