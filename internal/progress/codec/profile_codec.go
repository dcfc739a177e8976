package codec

import (
	"fmt"
	"slices"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

// ProfileWire: 플레이어 프로필 전체의 와이어 표현. 하나의 키에 통째로 저장된다.
type ProfileWire struct {
	PlayerName            string         `json:"playerName"`
	SelectedCharacter     string         `json:"selectedCharacter"`
	TotalScore            int            `json:"totalScore"`
	LastPlayedGame        *int           `json:"lastPlayedGame"`
	LastPlayedStage       *int           `json:"lastPlayedStage"`
	CurrentCycle          int            `json:"currentCycle"`
	CurrentCycleStartDate string         `json:"currentCycleStartDate"`
	HasActivityThisCycle  bool           `json:"hasActivityThisCycle"`
	CycleHistory          []SnapshotWire `json:"cycleHistory"`
	Games                 []GameWire     `json:"games"`
}

// SnapshotWire: 사이클 스냅샷의 와이어 표현
type SnapshotWire struct {
	CycleNumber int        `json:"cycleNumber"`
	TotalScore  int        `json:"totalScore"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Games       []GameWire `json:"games"`
}

// dateLayouts: 날짜 파싱 시 순서대로 시도하는 포맷. 인코딩은 항상 첫 번째 포맷을 쓴다.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 15:04:05",
	time.DateOnly,
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseDate: 알려진 포맷을 순서대로 시도한다. 실패하면 zero time과 복구 에러를 반환한다.
func parseDate(path string, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &cerrors.MalformedPayloadError{Path: path, Reason: "missing date"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &cerrors.MalformedPayloadError{Path: path, Reason: fmt.Sprintf("unparseable date %q", raw)}
}

func gamesToWire(games map[int]*model.GameRecord) ([]GameWire, error) {
	indices := make([]int, 0, len(games))
	for idx := range games {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	out := make([]GameWire, 0, len(indices))
	for _, idx := range indices {
		w, err := GameToWire(idx, games[idx])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// EncodeProfile: 프로필을 와이어 JSON으로 직렬화한다. 호출 시점의 상태가 그대로 바이트로 고정된다.
func EncodeProfile(p *model.PlayerProfile) ([]byte, error) {
	if p == nil {
		return nil, cerrors.NewInvariantViolation("encode_profile", "nil profile")
	}

	games, err := gamesToWire(p.Games)
	if err != nil {
		return nil, fmt.Errorf("encode games: %w", err)
	}

	history := make([]SnapshotWire, 0, len(p.CycleHistory))
	for i, snap := range p.CycleHistory {
		snapGames, err := gamesToWire(snap.Games)
		if err != nil {
			return nil, fmt.Errorf("encode cycleHistory[%d]: %w", i, err)
		}
		history = append(history, SnapshotWire{
			CycleNumber: snap.CycleNumber,
			TotalScore:  snap.TotalScore,
			StartDate:   formatDate(snap.StartedAt),
			EndDate:     formatDate(snap.EndedAt),
			Games:       snapGames,
		})
	}

	lastGame, lastStage := p.LastPlayed.Game, p.LastPlayed.Stage
	if p.LastPlayed.IsNone() {
		lastGame, lastStage = model.NoResumePoint.Game, model.NoResumePoint.Stage
	}

	w := ProfileWire{
		PlayerName:            p.PlayerName,
		SelectedCharacter:     p.SelectedCharacter,
		TotalScore:            p.TotalScore,
		LastPlayedGame:        &lastGame,
		LastPlayedStage:       &lastStage,
		CurrentCycle:          p.CurrentCycle,
		CurrentCycleStartDate: formatDate(p.CurrentCycleStart),
		HasActivityThisCycle:  p.HasActivityThisCycle,
		CycleHistory:          history,
		Games:                 games,
	}

	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return raw, nil
}

// DecodeResult: 프로필 디코딩 결과와 지역 복구 내역
type DecodeResult struct {
	Profile *model.PlayerProfile
	Repairs []error
}

// DecodeProfile: 와이어 JSON을 프로필로 역직렬화한다.
// 개별 스테이지/날짜 손상은 복구 후 Repairs에 기록한다.
// 최상위 JSON이 깨졌으면 *MalformedPayloadError, 카탈로그에 없는 게임 인덱스나 종류 불일치는
// *InvariantViolationError를 반환한다.
// playerName이 비어 있으면 fallbackName을, 그것도 비었으면 DefaultPlayerName을 쓴다.
func DecodeProfile(raw []byte, specs []model.GameSpec, fallbackName string) (DecodeResult, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return DecodeResult{}, &cerrors.MalformedPayloadError{Reason: "empty profile payload"}
	}

	var w ProfileWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return DecodeResult{}, &cerrors.MalformedPayloadError{Reason: fmt.Sprintf("invalid profile json: %v", err)}
	}

	specByIndex := make(map[int]model.GameSpec, len(specs))
	for _, spec := range specs {
		specByIndex[spec.Index] = spec
	}

	var repairs []error
	p := &model.PlayerProfile{
		PlayerName:           model.NormalizePlayerName(w.PlayerName),
		SelectedCharacter:    strings.TrimSpace(w.SelectedCharacter),
		TotalScore:           w.TotalScore,
		CurrentCycle:         w.CurrentCycle,
		HasActivityThisCycle: w.HasActivityThisCycle,
		LastPlayed:           model.NoResumePoint,
	}

	if p.PlayerName == "" {
		p.PlayerName = model.NormalizePlayerName(fallbackName)
		if p.PlayerName == "" {
			p.PlayerName = model.DefaultPlayerName
		}
		repairs = append(repairs, &cerrors.MalformedPayloadError{Path: "playerName", Reason: "missing player name"})
	}
	if p.CurrentCycle < 1 {
		repairs = append(repairs, &cerrors.MalformedPayloadError{
			Path:   "currentCycle",
			Reason: fmt.Sprintf("cycle %d below 1, reset to 1", w.CurrentCycle),
		})
		p.CurrentCycle = 1
	}

	start, err := parseDate("currentCycleStartDate", w.CurrentCycleStartDate)
	if err != nil {
		repairs = append(repairs, err)
	}
	p.CurrentCycleStart = start

	games, gameRepairs, err := decodeGames("games", w.Games, specByIndex, true)
	if err != nil {
		return DecodeResult{}, err
	}
	repairs = append(repairs, gameRepairs...)
	p.Games = games

	if w.LastPlayedGame != nil && w.LastPlayedStage != nil {
		point := model.ResumePoint{Game: *w.LastPlayedGame, Stage: *w.LastPlayedStage}
		if !point.IsNone() {
			if g, ok := p.Games[point.Game]; ok && g.InRange(point.Stage) {
				p.LastPlayed = point
			} else {
				repairs = append(repairs, &cerrors.MalformedPayloadError{
					Path:   "lastPlayedGame",
					Reason: fmt.Sprintf("resume point %d/%d out of range, cleared", point.Game, point.Stage),
				})
			}
		}
	}

	if len(w.CycleHistory) > 0 {
		p.CycleHistory = make([]model.CycleSnapshot, 0, len(w.CycleHistory))
	}
	for i, sw := range w.CycleHistory {
		path := fmt.Sprintf("cycleHistory[%d]", i)

		snapGames, snapRepairs, err := decodeGames(path+".games", sw.Games, specByIndex, false)
		if err != nil {
			return DecodeResult{}, err
		}
		repairs = append(repairs, snapRepairs...)

		startedAt, err := parseDate(path+".startDate", sw.StartDate)
		if err != nil {
			repairs = append(repairs, err)
		}
		endedAt, err := parseDate(path+".endDate", sw.EndDate)
		if err != nil {
			repairs = append(repairs, err)
		}

		p.CycleHistory = append(p.CycleHistory, model.CycleSnapshot{
			CycleNumber: sw.CycleNumber,
			TotalScore:  sw.TotalScore,
			StartedAt:   startedAt,
			EndedAt:     endedAt,
			Games:       snapGames,
		})
	}

	return DecodeResult{Profile: p, Repairs: repairs}, nil
}

// decodeGames: 게임 목록을 맵으로 되돌린다. regenerate가 true면 카탈로그에 있지만 빠진 게임을 기본값으로 채운다.
func decodeGames(
	path string,
	wires []GameWire,
	specs map[int]model.GameSpec,
	regenerate bool,
) (map[int]*model.GameRecord, []error, error) {
	games := make(map[int]*model.GameRecord, len(specs))
	var repairs []error

	for pos, gw := range wires {
		gamePath := fmt.Sprintf("%s[%d]", path, pos)

		spec, ok := specs[gw.GameIndex]
		if !ok {
			return nil, nil, cerrors.NewInvariantViolation("decode_profile",
				"%s references unknown game index %d", gamePath, gw.GameIndex)
		}
		if _, dup := games[gw.GameIndex]; dup {
			repairs = append(repairs, &cerrors.MalformedPayloadError{
				Path:   gamePath,
				Reason: fmt.Sprintf("duplicate game index %d, later entry kept", gw.GameIndex),
			})
		}

		g, gameRepairs, err := GameFromWire(gw, spec)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", gamePath, err)
		}
		for _, r := range gameRepairs {
			repairs = append(repairs, withPath(gamePath, r))
		}
		games[gw.GameIndex] = g
	}

	if regenerate {
		for idx, spec := range specs {
			if _, ok := games[idx]; ok {
				continue
			}
			repairs = append(repairs, &cerrors.MalformedPayloadError{
				Path:   path,
				Reason: fmt.Sprintf("game %d missing, regenerated", idx),
			})
			games[idx] = model.NewGameRecord(spec.Kind, spec.StageCount)
		}
	}
	return games, repairs, nil
}
