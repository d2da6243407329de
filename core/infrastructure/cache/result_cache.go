package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/core/domain/repository"
	"github.com/redis/go-redis/v9"
)

const resultKeyPrefix = "calc:eval:"

// RedisResultCache 二级结果缓存, 多个 calc 节点共享
type RedisResultCache struct {
	cli redis.Cmdable
	ttl time.Duration
}

func NewRedisResultCache(cli redis.Cmdable, ttl time.Duration) repository.ResultCache {
	return &RedisResultCache{cli: cli, ttl: ttl}
}

func resultKey(key string) string {
	return resultKeyPrefix + key
}

// Get 未命中时返回 repository.ErrCacheMiss
func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.cli.Get(ctx, resultKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		log.Warn("读取结果缓存失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	return data, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.cli.Set(ctx, resultKey(key), value, c.ttl).Err(); err != nil {
		log.Warn("写入结果缓存失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrRedis, err)
	}
	return nil
}
