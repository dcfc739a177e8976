package model

import (
	"fmt"
	"strings"
)

// Kind: 미니게임 종류이자 스테이지 기록 variant의 태그
type Kind string

const (
	// KindBase: 종류별 추가 필드가 없는 기본 variant
	KindBase Kind = "base"
	// KindAsteroid: 소행성 분류 게임
	KindAsteroid Kind = "asteroid"
	// KindCable: 케이블 연결 게임
	KindCable Kind = "cable"
	// KindEquipment: 장비 회수 게임
	KindEquipment Kind = "equipment"
)

// Kinds 는 알려진 모든 Kind를 선언 순서대로 반환한다.
func Kinds() []Kind {
	return []Kind{KindBase, KindAsteroid, KindCable, KindEquipment}
}

// Valid: 알려진 Kind인지 확인한다.
func (k Kind) Valid() bool {
	switch k {
	case KindBase, KindAsteroid, KindCable, KindEquipment:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind: 문자열을 Kind로 변환한다. 대소문자와 앞뒤 공백은 무시하며, 모르는 값은 에러다.
func ParseKind(input string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(input)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown game kind %q", input)
	}
	return k, nil
}
