// Package codec: 진행도 모델과 와이어 포맷(JSON) 사이의 변환을 담당한다.
// 키 맵은 이 패키지 경계에서만 (index, payload) 목록으로 바뀌며, 나머지 코드는 맵 형태만 다룬다.
package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

// stageWire: 스테이지 기록의 평탄한 와이어 표현. type 필드가 variant 판별자다.
type stageWire struct {
	Type       string  `json:"type"`
	Completed  bool    `json:"completed"`
	Score      int     `json:"score"`
	TimeTaken  float64 `json:"timeTaken"`
	Mistakes   int     `json:"mistakes"`
	Difficulty int     `json:"difficulty"`

	// asteroid 전용
	IncorrectCount *int `json:"incorrectCount,omitempty"`
	BonusCount     *int `json:"bonusCount,omitempty"`
}

// EncodeStage: 스테이지 기록을 판별자가 포함된 JSON 객체로 인코딩한다.
func EncodeStage(record model.StageRecord) (json.RawMessage, error) {
	if record == nil {
		return nil, cerrors.NewInvariantViolation("encode_stage", "nil stage record")
	}

	shared := record.Shared()
	w := stageWire{
		Type:       string(record.Kind()),
		Completed:  shared.Completed,
		Score:      shared.Score,
		TimeTaken:  shared.TimeTaken,
		Mistakes:   shared.Mistakes,
		Difficulty: shared.Difficulty,
	}
	if a, ok := record.(model.AsteroidStage); ok {
		w.IncorrectCount = &a.Incorrect
		w.BonusCount = &a.Bonus
	}

	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal stage: %w", err)
	}
	return raw, nil
}

// DecodeStage: 스테이지 payload를 디코딩한다. 항상 유효한 기록을 반환한다.
// 판별자가 없거나 모르는 값이면 BaseStage로, 빠진 필드는 0/false로 채운다.
// 반환된 error가 nil이 아니면 *MalformedPayloadError이며, 어떤 복구가 일어났는지 알려주는 용도다.
func DecodeStage(payload []byte) (model.StageRecord, error) {
	fields, err := payloadFields(payload)
	if err != nil {
		return model.DefaultStage(model.KindBase), &cerrors.MalformedPayloadError{Reason: err.Error()}
	}

	var w stageWire
	decodeErr := decodeFields(fields, &w)

	base := model.StageBase{
		Completed:  w.Completed,
		Score:      w.Score,
		TimeTaken:  w.TimeTaken,
		Mistakes:   w.Mistakes,
		Difficulty: w.Difficulty,
	}

	var (
		record model.StageRecord
		reason string
	)
	rawType := strings.TrimSpace(w.Type)
	kind, kindErr := model.ParseKind(rawType)
	switch {
	case rawType == "":
		record = model.BaseStage{StageBase: base}
		reason = "missing discriminator, decoded as base"
	case kindErr != nil:
		record = model.BaseStage{StageBase: base}
		reason = fmt.Sprintf("unknown discriminator %q, decoded as base", rawType)
	case kind == model.KindAsteroid:
		record = model.AsteroidStage{StageBase: base, Incorrect: deref(w.IncorrectCount), Bonus: deref(w.BonusCount)}
	default:
		record = model.Rekind(model.BaseStage{StageBase: base}, kind)
	}

	if decodeErr != nil {
		if reason != "" {
			reason += "; "
		}
		reason += decodeErr.Error()
	}
	if reason != "" {
		return record, &cerrors.MalformedPayloadError{Reason: reason}
	}
	return record, nil
}

// payloadFields: payload를 필드 맵으로 읽는다. 문자열로 한 번 더 감싼 JSON 객체도 허용한다.
// 숫자는 json.Number로 남겨 2^53을 넘는 정수도 그대로 보존한다.
func payloadFields(payload []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	v, err := unmarshalNumbers(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case string:
		inner, err := unmarshalNumbers([]byte(typed))
		if obj, ok := inner.(map[string]any); err == nil && ok {
			return obj, nil
		}
		return nil, fmt.Errorf("string payload is not a json object")
	case nil:
		return nil, fmt.Errorf("null payload")
	default:
		return nil, fmt.Errorf("payload is %T, want object", v)
	}
}

func unmarshalNumbers(raw []byte) (any, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed json")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeFields: 느슨한 타입 변환으로 필드 맵을 구조체에 채운다.
// 변환할 수 없는 필드는 0으로 남고 나머지 필드는 계속 채워진다.
func decodeFields(fields map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       jsonNumberHook,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}

// jsonNumberHook: json.Number를 대상 필드 종류에 맞춰 바꾼다.
// 정수 필드는 정확한 정수 파싱을 먼저 시도하고, "2.0" 같은 실수 표기는 실수로 넘겨 잘라낸다.
func jsonNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
	case reflect.Float32, reflect.Float64:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
	case reflect.Bool:
		if f, err := n.Float64(); err == nil {
			return f != 0, nil
		}
	}
	return data, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
