package testhelper

import (
	"io"
	"log/slog"
)

// DiscardLogger: 출력을 버리는 테스트용 로거를 반환합니다.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
