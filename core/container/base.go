package container

import (
	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/common/database"
	"github.com/mandel59/mahjong/common/log"
)

// BaseContainer 管理共享的数据库连接, 未配置的后端为 nil
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

// NewBase 按配置连接 mongo 与 redis, 已配置但连接失败时返回错误
func NewBase(conf *config.Config) (*BaseContainer, error) {
	base := &BaseContainer{}
	if conf.MongoEnabled() {
		mongo, err := database.NewMongo(conf.DatabaseConf.MongoConf)
		if err != nil {
			return nil, err
		}
		base.mongo = mongo
		log.Info("mongodb 连接成功, db: %s", conf.DatabaseConf.MongoConf.Db)
	}
	if conf.RedisEnabled() {
		redis, err := database.NewRedis(conf.DatabaseConf.RedisConf)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		base.redis = redis
		log.Info("redis 连接成功")
	}
	return base, nil
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var first error
	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			log.Error("mongo 关闭失败: %v", err)
			first = err
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Error("redis 关闭失败: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
