package container

import (
	"testing"

	"github.com/mandel59/mahjong/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalcContainerWithoutBackends(t *testing.T) {
	conf, err := config.Load("")
	require.NoError(t, err)

	c, err := NewCalcContainer(conf)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.GetLocalCache())
	assert.Nil(t, c.GetResultCache())
	assert.Nil(t, c.GetRecordRepository())
	assert.Nil(t, c.GetMongo())
	assert.Nil(t, c.GetRedis())
	assert.Equal(t, map[string]bool{"localCache": true, "redis": false, "mongo": false}, c.Backends())
}

func TestNewCalcContainerRedisUnreachable(t *testing.T) {
	conf, err := config.Load("")
	require.NoError(t, err)
	conf.DatabaseConf.RedisConf.Addr = "127.0.0.1:1"

	_, err = NewCalcContainer(conf)
	assert.Error(t, err)
}
