package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envValue: 앞뒤 공백을 제거한 첫 번째 비어 있지 않은 환경 변수를 찾는다.
func envValue(keys ...string) (key string, value string, ok bool) {
	for _, k := range keys {
		raw, found := os.LookupEnv(k)
		if !found {
			continue
		}
		if raw = strings.TrimSpace(raw); raw != "" {
			return k, raw, true
		}
	}
	return "", "", false
}

// parseEnv 는 값이 없으면 기본값을, 있으면 parse 결과를 돌려준다.
func parseEnv[T any](keys []string, defaultValue T, kind string, parse func(string) (T, error)) (T, error) {
	key, raw, ok := envValue(keys...)
	if !ok {
		return defaultValue, nil
	}
	value, err := parse(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid %s env %s=%q: %w", kind, key, raw, err)
	}
	return value, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return false, errors.New("not a bool")
}

func parseFloat(raw string) (float64, error) { return strconv.ParseFloat(raw, 64) }

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, errors.New("negative seconds")
	}
	return time.Duration(seconds) * time.Second, nil
}

// IntFromEnv: 환경 변수에서 정수 값을 읽어옵니다.
func IntFromEnv(key string, defaultValue int) (int, error) {
	return parseEnv([]string{key}, defaultValue, "int", strconv.Atoi)
}

// IntFromEnvFirstNonEmpty: 여러 키 중 처음으로 값이 있는 키를 정수로 읽습니다.
func IntFromEnvFirstNonEmpty(keys []string, defaultValue int) (int, error) {
	return parseEnv(keys, defaultValue, "int", strconv.Atoi)
}

// Float64FromEnv: 환경 변수에서 실수 값을 읽어옵니다.
func Float64FromEnv(key string, defaultValue float64) (float64, error) {
	return parseEnv([]string{key}, defaultValue, "float", parseFloat)
}

// DurationSecondsFromEnv: 초 단위 정수를 Duration으로 읽습니다. 음수는 에러입니다.
func DurationSecondsFromEnv(key string, defaultSeconds int64) (time.Duration, error) {
	return parseEnv([]string{key}, time.Duration(defaultSeconds)*time.Second, "duration seconds", parseSeconds)
}

// BoolFromEnv: 환경 변수에서 불리언 값을 읽어옵니다. (true/1/yes/y/on, false/0/no/n/off)
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	return parseEnv([]string{key}, defaultValue, "bool", parseBool)
}

// StringFromEnv: 환경 변수에서 문자열 값을 읽어옵니다.
func StringFromEnv(key string, defaultValue string) string {
	return StringFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// StringFromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 것을 반환합니다.
func StringFromEnvFirstNonEmpty(keys []string, defaultValue string) string {
	if _, value, ok := envValue(keys...); ok {
		return value
	}
	return defaultValue
}
