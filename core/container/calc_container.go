package container

import (
	"context"
	"time"

	"github.com/mandel59/mahjong/common/cache"
	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/core/domain/repository"
	rcache "github.com/mandel59/mahjong/core/infrastructure/cache"
	"github.com/mandel59/mahjong/core/infrastructure/persistence"
)

// CalcContainer calc 节点的依赖: 本地缓存, 共享缓存, 历史仓储
type CalcContainer struct {
	*BaseContainer
	localCache  *cache.GeneralCache
	resultCache repository.ResultCache
	recordRepo  repository.EvaluationRecordRepository
}

func NewCalcContainer(conf *config.Config) (*CalcContainer, error) {
	base, err := NewBase(conf)
	if err != nil {
		return nil, err
	}
	c := &CalcContainer{BaseContainer: base}

	if conf.CacheConf.MaxCost > 0 {
		c.localCache, err = cache.NewGeneralCache(conf.CacheConf.MaxCost, time.Duration(conf.CacheConf.TtlSec)*time.Second)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
	}

	if redis := base.GetRedis(); redis != nil {
		cli, err := redis.GetClient()
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.resultCache = rcache.NewRedisResultCache(cli, time.Duration(conf.CacheConf.RedisTtl)*time.Second)
	}

	if mongo := base.GetMongo(); mongo != nil {
		repo := persistence.NewEvaluationRecordRepository(mongo)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if indexed, ok := repo.(interface{ EnsureIndexes(context.Context) error }); ok {
			if err := indexed.EnsureIndexes(ctx); err != nil {
				log.Warn("创建判定记录索引失败: %v", err)
			}
		}
		c.recordRepo = repo
	}
	return c, nil
}

// GetLocalCache 未配置时为 nil
func (c *CalcContainer) GetLocalCache() *cache.GeneralCache {
	return c.localCache
}

func (c *CalcContainer) GetResultCache() repository.ResultCache {
	return c.resultCache
}

func (c *CalcContainer) GetRecordRepository() repository.EvaluationRecordRepository {
	return c.recordRepo
}

// Backends 各后端是否启用, 用于 /health
func (c *CalcContainer) Backends() map[string]bool {
	return map[string]bool{
		"localCache": c.localCache != nil,
		"redis":      c.resultCache != nil,
		"mongo":      c.recordRepo != nil,
	}
}

func (c *CalcContainer) Close() error {
	if c.localCache != nil {
		c.localCache.Close()
	}
	return c.BaseContainer.Close()
}
