// Package report: 보관된 사이클과 진행 중인 사이클을 화면 표시용 뷰로 변환한다.
// 읽기 전용이며 진행도 상태를 바꾸는 연산을 호출하지 않는다.
package report

import (
	"slices"
	"time"

	"github.com/park285/stellar-mind-go/internal/progress/catalog"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

// ProfileSource: 현재 프로필을 제공하는 쪽. ProgressStore가 구현한다.
type ProfileSource interface {
	Profile() *model.PlayerProfile
}

// StageView: 스테이지 하나의 표시 값. Incorrect/Bonus는 asteroid 스테이지에만 채워진다.
type StageView struct {
	StageIndex int     `json:"stageIndex"`
	Present    bool    `json:"present"`
	Status     string  `json:"status"`
	Completed  bool    `json:"completed"`
	Score      int     `json:"score"`
	TimeTaken  float64 `json:"timeTaken"`
	Mistakes   int     `json:"mistakes"`
	Difficulty int     `json:"difficulty"`
	Incorrect  *int    `json:"incorrectCount,omitempty"`
	Bonus      *int    `json:"bonusCount,omitempty"`
}

// GameView: 게임 하나의 표시 값
type GameView struct {
	GameIndex int         `json:"gameIndex"`
	Name      string      `json:"name"`
	Kind      string      `json:"kind"`
	Opened    bool        `json:"opened"`
	Completed bool        `json:"completed"`
	Stages    []StageView `json:"stages"`
}

// CycleView: 사이클 하나의 표시 값. InProgress면 라이브 프로필에서 만든 뷰다.
type CycleView struct {
	CycleNumber int        `json:"cycleNumber"`
	InProgress  bool       `json:"inProgress"`
	TotalScore  int        `json:"totalScore"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
	Games       []GameView `json:"games"`
}

// Reporter: 사이클 리포트를 만든다.
type Reporter struct {
	source  ProfileSource
	catalog *catalog.Catalog
}

// NewReporter 는 Reporter를 생성한다.
func NewReporter(source ProfileSource, cat *catalog.Catalog) *Reporter {
	return &Reporter{source: source, catalog: cat}
}

// GetCycles: 보관된 사이클을 사이클 번호 순으로, 마지막에 진행 중인 사이클을 붙여 반환한다.
// 프로필이 없으면 nil이다.
func (r *Reporter) GetCycles() []CycleView {
	p := r.source.Profile()
	if p == nil {
		return nil
	}

	history := slices.Clone(p.CycleHistory)
	slices.SortStableFunc(history, func(a, b model.CycleSnapshot) int {
		return a.CycleNumber - b.CycleNumber
	})

	views := make([]CycleView, 0, len(history)+1)
	for _, snap := range history {
		ended := snap.EndedAt
		views = append(views, CycleView{
			CycleNumber: snap.CycleNumber,
			TotalScore:  snap.TotalScore,
			StartedAt:   snap.StartedAt,
			EndedAt:     &ended,
			Games:       r.gameViews(snap.Games),
		})
	}
	views = append(views, r.current(p))
	return views
}

// GetCycle 는 사이클 번호로 뷰 하나를 찾는다.
func (r *Reporter) GetCycle(cycleNumber int) (CycleView, bool) {
	for _, v := range r.GetCycles() {
		if v.CycleNumber == cycleNumber {
			return v, true
		}
	}
	return CycleView{}, false
}

func (r *Reporter) current(p *model.PlayerProfile) CycleView {
	return CycleView{
		CycleNumber: p.CurrentCycle,
		InProgress:  true,
		TotalScore:  p.TotalScore,
		StartedAt:   p.CurrentCycleStart,
		Games:       r.gameViews(p.Games),
	}
}

func (r *Reporter) gameViews(games map[int]*model.GameRecord) []GameView {
	indices := make([]int, 0, len(games))
	for idx := range games {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	views := make([]GameView, 0, len(indices))
	for _, idx := range indices {
		g := games[idx]
		name := ""
		if spec, ok := r.catalog.Lookup(idx); ok {
			name = spec.Name
		}
		views = append(views, GameView{
			GameIndex: idx,
			Name:      name,
			Kind:      string(g.Kind),
			Opened:    g.Opened,
			Completed: g.CheckCompletion(),
			Stages:    stageViews(g),
		})
	}
	return views
}

// stageViews: 0..StageCount-1 전체를 나열한다. 기록이 없는 칸은 Present=false다.
func stageViews(g *model.GameRecord) []StageView {
	views := make([]StageView, 0, g.StageCount)
	for i := range g.StageCount {
		view := StageView{StageIndex: i, Status: g.Status(i).String()}
		record, ok := g.Stage(i)
		if !ok {
			views = append(views, view)
			continue
		}

		shared := record.Shared()
		view.Present = true
		view.Completed = shared.Completed
		view.Score = shared.Score
		view.TimeTaken = shared.TimeTaken
		view.Mistakes = shared.Mistakes
		view.Difficulty = shared.Difficulty

		if incorrect, bonus, isAsteroid := model.AsteroidFields(record); isAsteroid {
			view.Incorrect = &incorrect
			view.Bonus = &bonus
		}
		views = append(views, view)
	}
	return views
}
