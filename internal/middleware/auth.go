package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/streamhub/pkg/auth"
)

const UserIDKey = "userID"

// AuthMiddleware проверяет JWT токен
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		userID, err := resolveToken(jwtManager, redisClient, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth используется чатом: токен может отсутствовать или быть невалидным,
// тогда соединение продолжается как анонимное
func OptionalAuth(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.Request)
		if err != nil || token == "" {
			c.Next()
			return
		}

		userID, err := resolveToken(jwtManager, redisClient, token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func resolveToken(jwtManager *auth.JWTManager, redisClient *redis.Client, token string) (uuid.UUID, error) {
	// Проверяем, не в черном списке ли токен
	exists, err := redisClient.Exists(context.Background(), "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		return uuid.Nil, errTokenBlacklisted
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	return userID, nil
}
