package model

import (
	"slices"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
)

// DefaultStageCount: 카탈로그가 따로 지정하지 않을 때 게임당 스테이지 수
const DefaultStageCount = 3

// StageStatus: 스테이지 상태
type StageStatus int

const (
	// StageNotStarted: 게임이 아직 열리지 않았고 결과도 없음
	StageNotStarted StageStatus = iota
	// StageInProgress: 게임은 열렸지만 스테이지가 완료되지 않음
	StageInProgress
	// StageCompleted: 결과가 기록됨 (종착 상태)
	StageCompleted
)

func (s StageStatus) String() string {
	switch s {
	case StageInProgress:
		return "in_progress"
	case StageCompleted:
		return "completed"
	default:
		return "not_started"
	}
}

// GameRecord: 미니게임 하나의 스테이지 기록 모음.
// Stages의 모든 값은 Kind와 같은 종류여야 한다. 인덱스가 빠진 칸은 아직 기록이 없는 스테이지다.
type GameRecord struct {
	Kind       Kind
	StageCount int
	Opened     bool
	Completed  bool
	Stages     map[int]StageRecord
}

// NewGameRecord: n개의 기본 스테이지를 가진 GameRecord를 만든다.
func NewGameRecord(kind Kind, n int) *GameRecord {
	g := NewEmptyGameRecord(kind, n)
	for i := range g.StageCount {
		g.Stages[i] = DefaultStage(kind)
	}
	return g
}

// NewEmptyGameRecord: 스테이지가 하나도 없는 GameRecord를 만든다. 디코딩 경로에서만 쓴다.
func NewEmptyGameRecord(kind Kind, n int) *GameRecord {
	if n <= 0 {
		n = DefaultStageCount
	}
	return &GameRecord{
		Kind:       kind,
		StageCount: n,
		Stages:     make(map[int]StageRecord, n),
	}
}

// InRange: stageIndex가 0..StageCount-1 범위인지 확인한다.
func (g *GameRecord) InRange(stageIndex int) bool {
	return stageIndex >= 0 && stageIndex < g.StageCount
}

// Stage 는 stageIndex의 기록을 반환한다.
func (g *GameRecord) Stage(stageIndex int) (StageRecord, bool) {
	r, ok := g.Stages[stageIndex]
	return r, ok
}

// StageIndices: 기록이 있는 스테이지 인덱스를 오름차순으로 반환한다.
func (g *GameRecord) StageIndices() []int {
	indices := make([]int, 0, len(g.Stages))
	for i := range g.Stages {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices
}

// RecordStageResult: stageIndex 칸을 게임 종류의 완료된 기록으로 덮어쓴다.
// 범위를 벗어난 인덱스는 InvariantViolation이며 기록은 바뀌지 않는다.
func (g *GameRecord) RecordStageResult(stageIndex int, outcome Outcome) error {
	if !g.InRange(stageIndex) {
		return cerrors.NewInvariantViolation("record_stage_result",
			"stage index %d outside 0..%d for %s game", stageIndex, g.StageCount-1, g.Kind)
	}
	g.Stages[stageIndex] = NewStage(g.Kind, outcome)
	g.Completed = g.CheckCompletion()
	return nil
}

// CheckCompletion: 0..StageCount-1 모든 칸이 존재하고 완료됐는지 계산한다. 상태를 바꾸지 않는다.
func (g *GameRecord) CheckCompletion() bool {
	for i := range g.StageCount {
		r, ok := g.Stages[i]
		if !ok || !r.Shared().Completed {
			return false
		}
	}
	return true
}

// IsCompleted 는 마지막 RecordStageResult 시점에 캐시된 완료 여부다.
func (g *GameRecord) IsCompleted() bool {
	return g.Completed
}

// MarkOpened: 게임을 열린 상태로 표시한다.
func (g *GameRecord) MarkOpened() {
	g.Opened = true
}

// Status 는 스테이지 상태 머신의 현재 상태를 반환한다.
func (g *GameRecord) Status(stageIndex int) StageStatus {
	if r, ok := g.Stages[stageIndex]; ok && r.Shared().Completed {
		return StageCompleted
	}
	if g.Opened {
		return StageInProgress
	}
	return StageNotStarted
}

// FirstIncomplete: 아직 완료되지 않은 첫 스테이지 인덱스. 모두 완료면 false.
func (g *GameRecord) FirstIncomplete() (int, bool) {
	for i := range g.StageCount {
		if g.Status(i) != StageCompleted {
			return i, true
		}
	}
	return 0, false
}
