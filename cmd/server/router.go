package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/streamhub/internal/handlers"
	"github.com/thereayou/streamhub/internal/middleware"
	"github.com/thereayou/streamhub/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	streamH *handlers.StreamHandler,
	profileH *handlers.ProfileHandler,
	banH *handlers.BanHandler,
	chatH *handlers.ChatHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authH.Signup)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	// Публичные API endpoints
	api := r.Group("/api")
	{
		api.GET("/streams/:username", streamH.GetStreamInfo)
		api.GET("/users", streamH.ListUsers)
	}

	// Требуют токен
	authed := api.Group("", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		authed.GET("/profile", profileH.GetProfile)
		authed.PUT("/profile", profileH.UpdateProfile)
		authed.POST("/password/change", profileH.ChangePassword)
		authed.POST("/ban", banH.Ban)
		authed.POST("/unban", banH.Unban)
		authed.GET("/streams/:username/banned", banH.ListBanned)
	}

	// Чат: токен опционален, анонимы могут смотреть
	r.GET("/ws/chat/:room", middleware.OptionalAuth(jwtMgr, rdb), chatH.HandleChat)
}
