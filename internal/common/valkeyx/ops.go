package valkeyx

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// SetString: 키에 문자열 값을 만료 없이 저장한다.
func SetString(ctx context.Context, client valkey.Client, key string, value string) error {
	cmd := client.B().Set().Key(key).Value(value).Build()
	if err := client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s failed: %w", key, err)
	}
	return nil
}

// MGetStrings: 여러 키를 한 번에 조회한다. 값이 없는 키는 결과 맵에서 빠진다.
func MGetStrings(ctx context.Context, client valkey.Client, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	cmd := client.B().Mget().Key(keys...).Build()
	values, err := client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("mget failed: %w", err)
	}
	if len(values) != len(keys) {
		return nil, fmt.Errorf("mget returned %d values for %d keys", len(values), len(keys))
	}

	for i, v := range values {
		if v.IsNil() {
			continue
		}
		s, err := v.ToString()
		if err != nil {
			return nil, fmt.Errorf("mget value %s: %w", keys[i], err)
		}
		out[keys[i]] = s
	}
	return out, nil
}

// DeleteKeys: 주어진 키들을 삭제한다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := client.Do(ctx, client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}
