package codec

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

// StagePair: 맵을 표현할 수 없는 와이어 포맷을 위한 (스테이지 인덱스, payload) 쌍
type StagePair struct {
	StageIndex int             `json:"stageIndex"`
	Payload    json.RawMessage `json:"payload"`
}

// GameWire: 게임 하나의 와이어 표현
type GameWire struct {
	GameIndex   int         `json:"gameIndex"`
	Kind        string      `json:"kind"`
	IsCompleted bool        `json:"isCompleted"`
	IsOpened    bool        `json:"isOpened"`
	Stages      []StagePair `json:"stages"`
}

// ToPairs: 스테이지 맵을 인덱스 오름차순 목록으로 바꾼다. 빠진 인덱스는 목록에서도 빠진다.
func ToPairs(g *model.GameRecord) ([]StagePair, error) {
	indices := g.StageIndices()
	pairs := make([]StagePair, 0, len(indices))
	for _, idx := range indices {
		payload, err := EncodeStage(g.Stages[idx])
		if err != nil {
			return nil, fmt.Errorf("encode stage %d: %w", idx, err)
		}
		pairs = append(pairs, StagePair{StageIndex: idx, Payload: payload})
	}
	return pairs, nil
}

// FromPairs: 목록을 GameRecord로 되돌린다.
// 목록이 통째로 비어 있으면 n개의 기본 스테이지를 새로 만들고, 그 외에는 빠진 인덱스를 그대로 둔다.
// 두 번째 반환값은 지역 복구 내역(*MalformedPayloadError)이며 처리를 중단시키지 않는다.
func FromPairs(kind model.Kind, n int, pairs []StagePair) (*model.GameRecord, []error) {
	if len(pairs) == 0 {
		return model.NewGameRecord(kind, n), nil
	}

	g := model.NewEmptyGameRecord(kind, n)
	var repairs []error
	seen := make(map[int]bool, len(pairs))

	for pos, pair := range pairs {
		path := fmt.Sprintf("stages[%d]", pos)

		if !g.InRange(pair.StageIndex) {
			repairs = append(repairs, &cerrors.MalformedPayloadError{
				Path:   path,
				Reason: fmt.Sprintf("stage index %d outside 0..%d, dropped", pair.StageIndex, g.StageCount-1),
			})
			continue
		}
		if seen[pair.StageIndex] {
			repairs = append(repairs, &cerrors.MalformedPayloadError{
				Path:   path,
				Reason: fmt.Sprintf("duplicate stage index %d, later entry kept", pair.StageIndex),
			})
		}
		seen[pair.StageIndex] = true

		record, err := DecodeStage(pair.Payload)
		if err != nil {
			repairs = append(repairs, withPath(path, err))
		}
		if record.Kind() != kind {
			repairs = append(repairs, &cerrors.MalformedPayloadError{
				Path:   path,
				Reason: fmt.Sprintf("stage kind %s does not match game kind %s, converted", record.Kind(), kind),
			})
			record = model.Rekind(record, kind)
		}
		g.Stages[pair.StageIndex] = record
	}

	g.Completed = g.CheckCompletion()
	return g, repairs
}

// GameToWire: GameRecord를 완료/열림 플래그가 포함된 와이어 표현으로 바꾼다.
func GameToWire(index int, g *model.GameRecord) (GameWire, error) {
	pairs, err := ToPairs(g)
	if err != nil {
		return GameWire{}, fmt.Errorf("game %d: %w", index, err)
	}
	return GameWire{
		GameIndex:   index,
		Kind:        string(g.Kind),
		IsCompleted: g.Completed,
		IsOpened:    g.Opened,
		Stages:      pairs,
	}, nil
}

// GameFromWire: 와이어 표현을 GameRecord로 되돌린다.
// 종류가 비어 있으면 spec의 종류로 채우고, 알 수 없거나 spec과 다르면 InvariantViolation이다.
func GameFromWire(w GameWire, spec model.GameSpec) (*model.GameRecord, []error, error) {
	kind := spec.Kind
	var repairs []error

	if w.Kind == "" {
		repairs = append(repairs, &cerrors.MalformedPayloadError{
			Path:   "kind",
			Reason: fmt.Sprintf("missing game kind, assumed %s", spec.Kind),
		})
	} else {
		parsed, err := model.ParseKind(w.Kind)
		if err != nil {
			return nil, nil, cerrors.NewInvariantViolation("decode_game", "game %d: %v", w.GameIndex, err)
		}
		if parsed != spec.Kind {
			return nil, nil, cerrors.NewInvariantViolation("decode_game",
				"game %d stored as %s but configured as %s", w.GameIndex, parsed, spec.Kind)
		}
	}

	g, stageRepairs := FromPairs(kind, spec.StageCount, w.Stages)
	repairs = append(repairs, stageRepairs...)
	g.Opened = w.IsOpened

	if w.IsCompleted != g.Completed {
		repairs = append(repairs, &cerrors.MalformedPayloadError{
			Path:   "isCompleted",
			Reason: fmt.Sprintf("stored completion %t disagrees with stages, using %t", w.IsCompleted, g.Completed),
		})
	}
	return g, repairs, nil
}

// CloneGame: 코덱 왕복으로 메모리를 공유하지 않는 GameRecord 사본을 만든다.
// 스테이지가 하나도 없는 기록은 목록이 비면 기본값으로 재생성되므로 빈 상태 그대로 복사한다.
func CloneGame(index int, g *model.GameRecord) (*model.GameRecord, error) {
	if len(g.Stages) == 0 {
		clone := model.NewEmptyGameRecord(g.Kind, g.StageCount)
		clone.Opened = g.Opened
		clone.Completed = g.Completed
		return clone, nil
	}

	w, err := GameToWire(index, g)
	if err != nil {
		return nil, err
	}
	clone, _, err := GameFromWire(w, model.GameSpec{Index: index, Kind: g.Kind, StageCount: g.StageCount})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// withPath: 복구 에러에 경로를 앞에 붙인다.
func withPath(prefix string, err error) error {
	var malformed *cerrors.MalformedPayloadError
	if !errors.As(err, &malformed) {
		return &cerrors.MalformedPayloadError{Path: prefix, Reason: err.Error()}
	}
	path := prefix
	if malformed.Path != "" {
		path = prefix + "." + malformed.Path
	}
	return &cerrors.MalformedPayloadError{Path: path, Reason: malformed.Reason}
}
