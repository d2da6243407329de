package log

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, parseLevel("warn"))
	assert.Equal(t, log.ErrorLevel, parseLevel("error"))
	assert.Equal(t, log.InfoLevel, parseLevel(""))
	assert.Equal(t, log.InfoLevel, parseLevel("verbose"))
}

func TestSetLevel(t *testing.T) {
	InitLog("calc-test", "info")
	SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logger.GetLevel())
	Info("不会输出 %d", 1)
	SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}
