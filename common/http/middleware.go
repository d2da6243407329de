package http

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mandel59/mahjong/common/jwts"
	"github.com/mandel59/mahjong/common/log"
)

const (
	KeyRequestID = "requestID"
	KeyUserID    = "userID"
)

// CorsMiddleware 跨域中间件
func CorsMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		if c.GetHeader("Origin") != "" {
			c.SetHeader("Access-Control-Allow-Origin", "*")
			c.SetHeader("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.SetHeader("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			c.SetHeader("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		}
		// 预检请求
		if c.Method() == "OPTIONS" {
			c.AbortWithStatus(204)
		}
		return nil
	}
}

// LoggerMiddleware 请求完成后记录耗时
func LoggerMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		start := time.Now()
		c.Next()
		log.Info("HTTP %s %s %d %v rid=%s", c.Method(), c.Path(), c.Status(), time.Since(start), c.GetString(KeyRequestID))
		return nil
	}
}

// RequestIDMiddleware 沿用或生成请求 ID
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(KeyRequestID, requestID)
		c.SetHeader("X-Request-ID", requestID)
		return nil
	}
}

// AuthMiddleware 校验 JWT, 把 userID 存入上下文
func AuthMiddleware(secret string) MiddlewareFunc {
	return func(c *Context) error {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Unauthorized("Missing authorization token")
			return nil
		}
		token = strings.TrimPrefix(token, "Bearer ")

		userID, err := jwts.ParseToken(token, secret)
		if err != nil {
			log.Debug("token 校验失败: %v", err)
			c.Unauthorized("Invalid token")
			return nil
		}
		c.Set(KeyUserID, userID)
		return nil
	}
}

// OptionalAuthMiddleware 有合法 token 时存入 userID, 否则按匿名请求继续
func OptionalAuthMiddleware(secret string) MiddlewareFunc {
	return func(c *Context) error {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			return nil
		}
		if userID, err := jwts.ParseToken(token, secret); err == nil {
			c.Set(KeyUserID, userID)
		}
		return nil
	}
}
