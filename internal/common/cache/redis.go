// Package cache 封装可选的 Redis 缓存，未初始化时 Enabled 返回 false
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
)

// 缓存键
const (
	KeyDashboardStats  = "frontdesk:dashboard:stats"
	KeyPrefixRateLimit = "frontdesk:ratelimit:"
	KeyPrefixLogin     = "frontdesk:login:"
)

// ErrDisabled 未配置 Redis
var ErrDisabled = errors.New("cache: redis disabled")

var rdb *redis.Client

// Init 建立连接并在 5 秒内完成 PING
func Init(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	rdb = client
	return rdb, nil
}

// SetClient 替换全局客户端，nil 表示禁用
func SetClient(client *redis.Client) {
	rdb = client
}

func Enabled() bool {
	return rdb != nil
}

func Close() error {
	if rdb == nil {
		return nil
	}
	err := rdb.Close()
	rdb = nil
	return err
}

// Set 以 JSON 写入
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return ErrDisabled
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化缓存值失败: %w", err)
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

// Get 读取并反序列化，未命中时 IsMiss(err) 为 true
func Get(ctx context.Context, key string, dest interface{}) error {
	if rdb == nil {
		return ErrDisabled
	}
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func Delete(ctx context.Context, keys ...string) error {
	if rdb == nil {
		return ErrDisabled
	}
	return rdb.Del(ctx, keys...).Err()
}

func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
