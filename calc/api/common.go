package api

import (
	"context"
	"time"

	"github.com/mandel59/mahjong/common/http"
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]any{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "calc",
	})
	return nil
}

// HealthHandler 返回节点负载与后端启用情况
func (h *Handler) HealthHandler(c *http.Context) error {
	ctx, cancel := context.WithTimeout(c.RequestContext(), time.Second)
	defer cancel()
	info := h.svc.Monitor().Collect(ctx)
	c.Success(map[string]any{
		"healthy":   true,
		"nodeID":    h.nodeID,
		"load":      info,
		"score":     info.CalculateLoad(),
		"backends":  h.backends,
		"timestamp": time.Now().Unix(),
	})
	return nil
}
