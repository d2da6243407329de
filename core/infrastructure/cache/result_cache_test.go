package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mandel59/mahjong/core/domain/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestResultKey(t *testing.T) {
	assert.Equal(t, "calc:eval:123m|0|0", resultKey("123m|0|0"))
}

func TestRedisUnavailable(t *testing.T) {
	cli := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer cli.Close()
	c := NewRedisResultCache(cli, time.Minute)

	ctx := context.Background()
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrRedis)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v")), repository.ErrRedis)
}
