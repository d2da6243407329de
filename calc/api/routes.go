package api

import "github.com/mandel59/mahjong/common/http"

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, h *Handler, jwtSecret string) {
	server.Use(http.RequestIDMiddleware(), http.CorsMiddleware(), http.LoggerMiddleware())
	server.GET("/ping", PingHandler)
	server.GET("/health", h.HealthHandler)

	v1 := server.Group("/api/v1")
	{
		evaluate := v1.Group("/evaluate", http.OptionalAuthMiddleware(jwtSecret))
		{
			evaluate.POST("", h.EvaluateHandler)
			evaluate.POST("/batch", h.EvaluateBatchHandler)
		}
		v1.GET("/tiles/parse", h.ParseHandler)

		// 需要认证
		user := v1.Group("", http.AuthMiddleware(jwtSecret))
		{
			user.GET("/history", h.HistoryHandler)
		}
	}
}
