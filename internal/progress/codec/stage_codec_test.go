package codec

import (
	"testing"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

func TestStageCodec_RoundTrip(t *testing.T) {
	shared := model.StageBase{Completed: true, Score: 42, TimeTaken: 12.5, Mistakes: 3, Difficulty: 2}

	tests := []struct {
		name   string
		record model.StageRecord
	}{
		{"base", model.BaseStage{StageBase: shared}},
		{"asteroid", model.AsteroidStage{StageBase: shared, Incorrect: 2, Bonus: 1}},
		{"asteroid_zero_extras", model.AsteroidStage{StageBase: shared}},
		{"cable", model.CableStage{StageBase: shared}},
		{"equipment", model.EquipmentStage{StageBase: shared}},
		{"default_cable", model.DefaultStage(model.KindCable)},
		{"fractional_time", model.EquipmentStage{StageBase: model.StageBase{TimeTaken: 0.1 + 0.2}}},
		{"large_integers", model.AsteroidStage{
			StageBase: model.StageBase{Completed: true, Score: 1<<53 + 1, Mistakes: 9007199254740993, Difficulty: 1<<62 + 3},
			Incorrect: 1<<60 + 7,
			Bonus:     1<<63 - 1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := EncodeStage(tt.record)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeStage(payload)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.record {
				t.Errorf("round trip = %#v, want %#v", got, tt.record)
			}
		})
	}
}

func TestEncodeStage_OnlyRelevantFields(t *testing.T) {
	payload, err := EncodeStage(model.CableStage{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fields, err := payloadFields(payload)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if fields["type"] != "cable" {
		t.Errorf("unexpected discriminator: %v", fields["type"])
	}
	if _, ok := fields["incorrectCount"]; ok {
		t.Error("cable payload must not carry asteroid fields")
	}

	payload, _ = EncodeStage(model.AsteroidStage{})
	fields, _ = payloadFields(payload)
	if _, ok := fields["bonusCount"]; !ok {
		t.Error("asteroid payload must carry bonusCount")
	}
}

func TestDecodeStage_Lenient(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		want      model.StageRecord
		malformed bool
	}{
		{
			name:      "unknown_discriminator",
			payload:   `{"type":"puzzle","completed":true,"score":5,"timeTaken":3.5}`,
			want:      model.BaseStage{StageBase: model.StageBase{Completed: true, Score: 5, TimeTaken: 3.5}},
			malformed: true,
		},
		{
			name:      "missing_discriminator",
			payload:   `{"completed":true,"mistakes":2}`,
			want:      model.BaseStage{StageBase: model.StageBase{Completed: true, Mistakes: 2}},
			malformed: true,
		},
		{
			name:    "missing_fields",
			payload: `{"type":"asteroid"}`,
			want:    model.AsteroidStage{},
		},
		{
			name:    "weak_types",
			payload: `{"type":"ASTEROID","completed":"true","score":"7","timeTaken":"1.5","incorrectCount":2.0,"bonusCount":"1"}`,
			want:    model.AsteroidStage{StageBase: model.StageBase{Completed: true, Score: 7, TimeTaken: 1.5}, Incorrect: 2, Bonus: 1},
		},
		{
			name:      "bad_field_zeroed",
			payload:   `{"type":"cable","completed":true,"score":"lots","mistakes":1}`,
			want:      model.CableStage{StageBase: model.StageBase{Completed: true, Mistakes: 1}},
			malformed: true,
		},
		{
			name:    "string_wrapped",
			payload: `"{\"type\":\"equipment\",\"score\":9}"`,
			want:    model.EquipmentStage{StageBase: model.StageBase{Score: 9}},
		},
		{
			name:    "float_notation_for_int",
			payload: `{"type":"cable","score":12.0,"mistakes":1e1,"completed":1}`,
			want:    model.CableStage{StageBase: model.StageBase{Completed: true, Score: 12, Mistakes: 10}},
		},
		{
			name:    "large_integer_kept",
			payload: `{"type":"base","score":9007199254740993}`,
			want:    model.BaseStage{StageBase: model.StageBase{Score: 9007199254740993}},
		},
		{
			name:    "null_fields",
			payload: `{"type":"cable","score":null,"completed":null}`,
			want:    model.CableStage{},
		},
		{"invalid_json", `{not json`, model.BaseStage{}, true},
		{"empty", ``, model.BaseStage{}, true},
		{"null", `null`, model.BaseStage{}, true},
		{"array", `[1,2]`, model.BaseStage{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStage([]byte(tt.payload))
			if got != tt.want {
				t.Errorf("DecodeStage = %#v, want %#v", got, tt.want)
			}
			if got == nil {
				t.Fatal("DecodeStage must always return a record")
			}
			if cerrors.IsMalformedPayload(err) != tt.malformed {
				t.Errorf("malformed = %v (err=%v), want %v", err != nil, err, tt.malformed)
			}
		})
	}
}
