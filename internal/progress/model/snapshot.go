package model

import "time"

// CycleSnapshot: 종료된 사이클의 불변 기록.
// Games는 라이브 프로필과 메모리를 공유하지 않는 독립 사본이며, 생성 후 수정하지 않는다.
type CycleSnapshot struct {
	CycleNumber int
	TotalScore  int
	StartedAt   time.Time
	EndedAt     time.Time
	Games       map[int]*GameRecord
}
