package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *Config

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	HttpPort     int          `mapstructure:"httpPort"`
	MetricPort   int          `mapstructure:"metricPort"`
	CacheConf    CacheConf    `mapstructure:"cache"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	NatsConf     NatsConf     `mapstructure:"nats"`
	EtcdConf     EtcdConf     `mapstructure:"etcd"`
	JwtConf      JwtConf      `mapstructure:"jwt"`
	EvaluateConf EvaluateConf `mapstructure:"evaluate"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// CacheConf 本地结果缓存, MaxCost 为条目数上限
type CacheConf struct {
	MaxCost  int64 `mapstructure:"maxCost"`
	TtlSec   int   `mapstructure:"ttl"`
	RedisTtl int   `mapstructure:"redisTtl"`
}

type EtcdConf struct {
	Addrs       []string       `mapstructure:"addrs"`
	RWTimeout   int            `mapstructure:"rwTimeout"`
	DialTimeout int            `mapstructure:"dialTimeout"`
	Register    RegisterServer `mapstructure:"register"`
}

type RegisterServer struct {
	Addr    string `mapstructure:"addr"`
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Weight  int    `mapstructure:"weight"`
	Ttl     int    `mapstructure:"ttl"`
}

type JwtConf struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // 秒
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
}

type NatsConf struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// EvaluateConf 批量判定的并发度与上限
type EvaluateConf struct {
	Workers  int `mapstructure:"workers"`
	MaxBatch int `mapstructure:"maxBatch"`
}

func (c *Config) MongoEnabled() bool { return c.DatabaseConf.MongoConf.Url != "" }

func (c *Config) RedisEnabled() bool {
	r := c.DatabaseConf.RedisConf
	return r.Addr != "" || len(r.ClusterAddrs) > 0
}

func (c *Config) NatsEnabled() bool { return c.NatsConf.URL != "" }

func (c *Config) EtcdEnabled() bool { return len(c.EtcdConf.Addrs) > 0 }

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "calc")
	v.SetDefault("httpPort", 8080)
	v.SetDefault("metricPort", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.maxCost", 100000)
	v.SetDefault("cache.ttl", 600)
	v.SetDefault("cache.redisTtl", 3600)
	v.SetDefault("database.mongo.db", "mahjong")
	v.SetDefault("database.mongo.minPoolSize", 1)
	v.SetDefault("database.mongo.maxPoolSize", 20)
	v.SetDefault("database.redis.poolSize", 10)
	v.SetDefault("nats.subject", "calc.evaluate")
	v.SetDefault("etcd.rwTimeout", 3)
	v.SetDefault("etcd.dialTimeout", 3)
	v.SetDefault("etcd.register.name", "calc")
	v.SetDefault("etcd.register.version", "v1")
	v.SetDefault("etcd.register.weight", 10)
	v.SetDefault("etcd.register.ttl", 10)
	v.SetDefault("jwt.expire", 7*24*3600)
	v.SetDefault("evaluate.workers", 8)
	v.SetDefault("evaluate.maxBatch", 64)
}

var (
	mu        sync.Mutex
	listeners []func(*Config)
)

// OnChange 注册配置热更新回调
func OnChange(fn func(*Config)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

// Load 读取配置文件; configFile 为空时只使用默认值和环境变量
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	}
	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	return conf, nil
}

// InitConfig 加载配置到 Conf 并监听文件变化
func InitConfig(configFile string) {
	conf, err := Load(configFile)
	if err != nil {
		panic(err)
	}
	Conf = conf
	if configFile == "" {
		return
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件出错: %w", err))
	}
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		next := new(Config)
		if err := v.Unmarshal(next); err != nil {
			return
		}
		Conf = next
		mu.Lock()
		fns := append(([]func(*Config))(nil), listeners...)
		mu.Unlock()
		for _, fn := range fns {
			fn(next)
		}
	})
}
