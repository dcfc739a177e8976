package model

// StageBase: 모든 스테이지 기록이 공유하는 필드
type StageBase struct {
	Completed  bool
	Score      int
	TimeTaken  float64 // 초
	Mistakes   int
	Difficulty int
}

// Shared 는 공유 필드를 반환한다. 각 variant에 승격된다.
func (b StageBase) Shared() StageBase { return b }

func (StageBase) isStageRecord() {}

// StageRecord: 스테이지 하나의 결과. BaseStage, AsteroidStage, CableStage, EquipmentStage만 구현한다.
// 모든 variant는 비교 가능한 값 타입이므로 == 로 종류까지 포함한 동등성을 검사할 수 있다.
type StageRecord interface {
	Kind() Kind
	Shared() StageBase
	isStageRecord()
}

// BaseStage: 추가 필드가 없는 기본 스테이지 기록
type BaseStage struct {
	StageBase
}

// AsteroidStage: 소행성 분류 스테이지 기록
type AsteroidStage struct {
	StageBase
	Incorrect int // 잘못 분류한 횟수
	Bonus     int // 보너스 획득 횟수
}

// CableStage: 케이블 연결 스테이지 기록
type CableStage struct {
	StageBase
}

// EquipmentStage: 장비 회수 스테이지 기록
type EquipmentStage struct {
	StageBase
}

func (BaseStage) Kind() Kind      { return KindBase }
func (AsteroidStage) Kind() Kind  { return KindAsteroid }
func (CableStage) Kind() Kind     { return KindCable }
func (EquipmentStage) Kind() Kind { return KindEquipment }

// Outcome: 게임플레이 쪽이 보고하는 스테이지 결과. 해당 종류와 무관한 필드는 무시된다.
type Outcome struct {
	Score      int
	TimeTaken  float64
	Mistakes   int
	Difficulty int
	Incorrect  int
	Bonus      int
}

// NewStage: 완료 처리된 kind 종류의 스테이지 기록을 만든다.
func NewStage(kind Kind, outcome Outcome) StageRecord {
	base := StageBase{
		Completed:  true,
		Score:      outcome.Score,
		TimeTaken:  outcome.TimeTaken,
		Mistakes:   outcome.Mistakes,
		Difficulty: outcome.Difficulty,
	}
	return build(kind, base, outcome.Incorrect, outcome.Bonus)
}

// DefaultStage: 아직 시작하지 않은 kind 종류의 스테이지 기록을 만든다.
func DefaultStage(kind Kind) StageRecord {
	return build(kind, StageBase{}, 0, 0)
}

// Rekind: 공유 필드를 유지한 채 record를 kind 종류로 바꾼다.
// 이미 같은 종류면 원본을 그대로 반환한다.
func Rekind(record StageRecord, kind Kind) StageRecord {
	if record.Kind() == kind {
		return record
	}
	return build(kind, record.Shared(), 0, 0)
}

// AsteroidFields: asteroid 기록이면 추가 필드를 반환한다.
func AsteroidFields(record StageRecord) (incorrect int, bonus int, ok bool) {
	if a, isAsteroid := record.(AsteroidStage); isAsteroid {
		return a.Incorrect, a.Bonus, true
	}
	return 0, 0, false
}

func build(kind Kind, base StageBase, incorrect int, bonus int) StageRecord {
	switch kind {
	case KindAsteroid:
		return AsteroidStage{StageBase: base, Incorrect: incorrect, Bonus: bonus}
	case KindCable:
		return CableStage{StageBase: base}
	case KindEquipment:
		return EquipmentStage{StageBase: base}
	default:
		return BaseStage{StageBase: base}
	}
}
