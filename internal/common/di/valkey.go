package di

import (
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"
)

// DataValkeyClient 는 Wire에서 valkey.Client 타입을 진행도 저장 용도로 구분하기 위한 DI wrapper 타입이다.
type DataValkeyClient struct{ valkey.Client }

// ProgressDB 는 진행도 blob 테이블용 gorm 핸들 DI wrapper 타입이다.
// 백엔드가 valkey일 때는 DB가 nil이다.
type ProgressDB struct{ DB *gorm.DB }
