package httpapi

import (
	"time"

	"github.com/park285/stellar-mind-go/internal/progress/model"
	"github.com/park285/stellar-mind-go/internal/progress/report"
)

// StageResultRequest: 스테이지 결과 기록 요청
type StageResultRequest struct {
	GameIndex      *int    `json:"gameIndex" validate:"required,gte=0"`
	StageIndex     *int    `json:"stageIndex" validate:"required,gte=0"`
	Score          int     `json:"score"`
	TimeTaken      float64 `json:"timeTaken" validate:"gte=0"`
	Mistakes       int     `json:"mistakes" validate:"gte=0"`
	Difficulty     int     `json:"difficulty" validate:"gte=0"`
	IncorrectCount int     `json:"incorrectCount" validate:"gte=0"`
	BonusCount     int     `json:"bonusCount" validate:"gte=0"`
}

func (r StageResultRequest) outcome() model.Outcome {
	return model.Outcome{
		Score:      r.Score,
		TimeTaken:  r.TimeTaken,
		Mistakes:   r.Mistakes,
		Difficulty: r.Difficulty,
		Incorrect:  r.IncorrectCount,
		Bonus:      r.BonusCount,
	}
}

// ResumeRequest: 재개 위치 변경 요청. -1/-1은 재개 위치를 비운다.
type ResumeRequest struct {
	GameIndex  *int `json:"gameIndex" validate:"required,gte=-1"`
	StageIndex *int `json:"stageIndex" validate:"required,gte=-1"`
}

// PlayerRequest: 플레이어 이름/캐릭터 변경 요청. 비어 있는 필드는 바꾸지 않는다.
type PlayerRequest struct {
	PlayerName        *string `json:"playerName" validate:"omitempty,min=1,max=64"`
	SelectedCharacter *string `json:"selectedCharacter" validate:"omitempty,max=64"`
}

// ResumePointResponse: 재개 위치
type ResumePointResponse struct {
	GameIndex  int `json:"gameIndex"`
	StageIndex int `json:"stageIndex"`
}

// ProgressResponse: 현재 진행도
type ProgressResponse struct {
	PlayerName           string               `json:"playerName"`
	SelectedCharacter    string               `json:"selectedCharacter"`
	TotalScore           int                  `json:"totalScore"`
	CurrentCycle         int                  `json:"currentCycle"`
	CurrentCycleStart    time.Time            `json:"currentCycleStartDate"`
	HasActivityThisCycle bool                 `json:"hasActivityThisCycle"`
	LastPlayed           *ResumePointResponse `json:"lastPlayed"`
	ResumeTarget         *ResumePointResponse `json:"resumeTarget"`
	ArchivedCycles       int                  `json:"archivedCycles"`
	Games                []report.GameView    `json:"games"`
}

// AdvanceCycleResponse: 사이클 전환 결과
type AdvanceCycleResponse struct {
	Archived     bool `json:"archived"`
	CurrentCycle int  `json:"currentCycle"`
}

// CyclesResponse: 사이클 리포트 목록
type CyclesResponse struct {
	Cycles []report.CycleView `json:"cycles"`
}

func toResumePoint(p model.ResumePoint, ok bool) *ResumePointResponse {
	if !ok || p.IsNone() {
		return nil
	}
	return &ResumePointResponse{GameIndex: p.Game, StageIndex: p.Stage}
}
