package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralCache(t *testing.T) {
	c, err := NewGeneralCache(100, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Wait()
	b, ok := c.GetBytes("a")
	require.True(t, ok)
	assert.Equal(t, "1", string(b))

	c.Set("s", "x")
	c.Wait()
	_, ok = c.GetBytes("s")
	assert.False(t, ok, "类型不符")

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}
