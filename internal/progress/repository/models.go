package repository

import "time"

// ProgressBlob: 키 하나에 저장되는 진행도 JSON blob.
// Revision은 쓰기마다 1씩 증가하며 마지막 쓰기 추적용이다.
type ProgressBlob struct {
	Key       string    `gorm:"column:blob_key;primaryKey;size:191"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	Revision  int64     `gorm:"column:revision;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (ProgressBlob) TableName() string { return "progress_blobs" }
