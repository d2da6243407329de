package app

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/core/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMode(t *testing.T) {
	assert.Equal(t, gin.DebugMode, ginMode("debug"))
	assert.Equal(t, gin.ReleaseMode, ginMode("info"))
	assert.Equal(t, gin.ReleaseMode, ginMode(""))
}

func TestNewServiceWithoutBackends(t *testing.T) {
	conf, err := config.Load("")
	require.NoError(t, err)
	c, err := container.NewCalcContainer(conf)
	require.NoError(t, err)
	defer c.Close()

	svc := NewService(conf, c)
	resp, err := svc.Evaluate(context.Background(), "u-1", &dto.EvaluateRequest{Hand: "2255m3377p4488s1z"})
	require.NoError(t, err)
	assert.Equal(t, 13, resp.TileCount)

	_, _, err = svc.History(context.Background(), "u-1", dto.HistoryQuery{})
	assert.Error(t, err)
}
