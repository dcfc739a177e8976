package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenvIfPresent: 주어진 경로(기본 .env) 중 실제로 있는 파일만 읽어 환경 변수로 올린다.
// 이미 설정된 값은 덮어쓰지 않는다.
func LoadDotenvIfPresent(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			existing = append(existing, path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("stat dotenv %s: %w", path, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load dotenv %v: %w", existing, err)
	}
	return nil
}
