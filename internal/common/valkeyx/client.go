package valkeyx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/valkey-io/valkey-go"

	commonconfig "github.com/park285/stellar-mind-go/internal/common/config"
)

// ClientOption: RedisConfig를 valkey 클라이언트 옵션으로 옮긴다.
// 진행도 blob은 쓴 직후 다시 읽히므로 클라이언트 사이드 캐싱은 항상 끈다.
func ClientOption(cfg commonconfig.RedisConfig) (valkey.ClientOption, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" || cfg.Port <= 0 {
		return valkey.ClientOption{}, fmt.Errorf("invalid valkey address host=%q port=%d", cfg.Host, cfg.Port)
	}

	opt := valkey.ClientOption{
		InitAddress:  []string{net.JoinHostPort(host, strconv.Itoa(cfg.Port))},
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	}
	if cfg.DialTimeout > 0 {
		opt.Dialer.Timeout = cfg.DialTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.ConnWriteTimeout = cfg.WriteTimeout
	}
	if cfg.PoolSize > 0 {
		opt.BlockingPoolSize = cfg.PoolSize
	}
	return opt, nil
}

// Connect: 클라이언트를 만들고 PING으로 연결을 확인한다. PING이 실패하면 클라이언트를 닫는다.
func Connect(ctx context.Context, cfg commonconfig.RedisConfig) (valkey.Client, error) {
	opt, err := ClientOption(cfg)
	if err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, WrapRedisError("connect", err)
	}
	if err := Ping(ctx, client); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Ping: 연결 상태를 점검한다.
func Ping(ctx context.Context, client valkey.Client) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	return WrapRedisError("ping", client.Do(ctx, client.B().Ping().Build()).Error())
}
