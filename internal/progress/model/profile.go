package model

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DefaultPlayerName: 저장된 이름도, 로그인 정보도 없을 때 쓰는 이름
const DefaultPlayerName = "Player"

// GameSpec: 카탈로그에 등록된 미니게임 하나의 정의
type GameSpec struct {
	Index      int
	Kind       Kind
	Name       string
	StageCount int
}

// ResumePoint: 마지막으로 플레이한 게임과 스테이지
type ResumePoint struct {
	Game  int
	Stage int
}

// NoResumePoint: 재개할 위치가 없음을 뜻한다.
var NoResumePoint = ResumePoint{Game: -1, Stage: -1}

// IsNone 는 재개 위치가 비어 있는지 확인한다.
func (p ResumePoint) IsNone() bool {
	return p.Game < 0 || p.Stage < 0
}

// PlayerProfile: 플레이어 한 명의 전체 진행도
type PlayerProfile struct {
	PlayerName           string
	SelectedCharacter    string
	TotalScore           int
	CurrentCycle         int
	CurrentCycleStart    time.Time
	HasActivityThisCycle bool
	LastPlayed           ResumePoint
	CycleHistory         []CycleSnapshot
	Games                map[int]*GameRecord
}

// NormalizePlayerName: 앞뒤 공백을 제거하고 NFC로 정규화한다.
func NormalizePlayerName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NewDefaultProfile: 첫 로그인 또는 데이터 유실 시 쓰는 기본 프로필을 만든다.
func NewDefaultProfile(playerName string, games []GameSpec, startingScore int, now time.Time) *PlayerProfile {
	name := NormalizePlayerName(playerName)
	if name == "" {
		name = DefaultPlayerName
	}
	p := &PlayerProfile{
		PlayerName:        name,
		TotalScore:        startingScore,
		CurrentCycle:      1,
		CurrentCycleStart: now.UTC(),
		LastPlayed:        NoResumePoint,
	}
	p.ResetGames(games)
	return p
}

// ResetGames: 카탈로그의 모든 게임을 기본 GameRecord로 다시 만든다.
func (p *PlayerProfile) ResetGames(games []GameSpec) {
	p.Games = make(map[int]*GameRecord, len(games))
	for _, spec := range games {
		p.Games[spec.Index] = NewGameRecord(spec.Kind, spec.StageCount)
	}
}

// GameIndices: 프로필에 있는 게임 인덱스를 오름차순으로 반환한다.
func (p *PlayerProfile) GameIndices() []int {
	indices := make([]int, 0, len(p.Games))
	for i := range p.Games {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices
}

// ResumeTarget: 이어서 플레이할 위치.
// LastPlayed는 마지막으로 플레이한 스테이지를 가리키며, 실제 재개 위치는 그 게임의 첫 미완료 스테이지다.
// 재개 위치가 없거나 게임이 모두 완료됐으면 false를 반환한다.
func (p *PlayerProfile) ResumeTarget() (ResumePoint, bool) {
	if p.LastPlayed.IsNone() {
		return NoResumePoint, false
	}
	g, ok := p.Games[p.LastPlayed.Game]
	if !ok {
		return NoResumePoint, false
	}
	stage, ok := g.FirstIncomplete()
	if !ok {
		return NoResumePoint, false
	}
	return ResumePoint{Game: p.LastPlayed.Game, Stage: stage}, true
}
