package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/handlers/dto"
	"github.com/thereayou/streamhub/internal/live"
	"github.com/thereayou/streamhub/internal/models"
	"github.com/thereayou/streamhub/pkg/auth"
)

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	redis      *redis.Client
	live       live.Provider
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, rdb *redis.Client, provider live.Provider) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtMgr, redis: rdb, live: provider}
}

// Signup создает аккаунт с профилем и заводит стрим у видео-провайдера
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreateUser(user, req.Nickname); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	if err := h.provisionStream(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to provision stream"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"username": user.Username,
		"nickname": user.Profile.Nickname,
	})
}

// provisionStream пробует завести live-вход у провайдера; если он недоступен,
// подставляет placeholder, чтобы остальная часть приложения работала в dev
func (h *AuthHandler) provisionStream(ctx context.Context, user *models.User) error {
	stream := &models.Stream{
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}

	input, err := h.live.CreateLiveInput(ctx, user.Username+"'s Stream")
	if err != nil {
		log.Printf("Falling back to placeholder stream for %s: %v", user.Username, err)
		stream.StreamKey = "dev-" + uuid.NewString()
		stream.StreamURL = "rtmp://localhost/live"
		stream.ViewerUID = "placeholder-" + uuid.NewString()
	} else {
		stream.StreamKey = input.StreamKey
		stream.StreamURL = input.RTMPSURL
		stream.ViewerUID = input.UID
	}

	return h.db.SaveStream(stream)
}

// Login выдаёт JWT вместе с username и nickname для фронта
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"nickname": user.Profile.Nickname,
	})
}

// Logout ставит токен в черный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ttl := time.Until(exp)
	h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)

	c.Status(http.StatusOK)
}
