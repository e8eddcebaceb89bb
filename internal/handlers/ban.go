package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/handlers/dto"
	"github.com/thereayou/streamhub/internal/middleware"
)

type BanHandler struct {
	db *database.Database
}

func NewBanHandler(db *database.Database) *BanHandler {
	return &BanHandler{db: db}
}

// Ban блокирует пользователя в чате текущего стримера
func (h *BanHandler) Ban(c *gin.Context) {
	streamerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	streamer, err := h.db.GetUser(streamerID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if streamer.Username == req.BannedUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot ban yourself"})
		return
	}

	target, err := h.db.FindUserByUsername(req.BannedUser)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user to ban not found"})
		return
	}

	if err := h.db.CreateBan(streamerID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ban user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": req.BannedUser + " has been banned."})
}

// Unban снимает блокировку
func (h *BanHandler) Unban(c *gin.Context) {
	streamerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.db.FindUserByUsername(req.BannedUser)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user to unban not found"})
		return
	}

	if err := h.db.DeleteBan(streamerID, target.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "ban record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unban user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.BannedUser + " has been unbanned."})
}

// ListBanned отдает бан-лист комнаты; видит его только сам стример
func (h *BanHandler) ListBanned(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	username := c.Param("username")

	user, err := h.db.GetUser(userID.String())
	if err != nil || user.Username != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	bans, err := h.db.ListBans(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bans"})
		return
	}

	entries := make([]dto.BannedUserEntry, 0, len(bans))
	for _, ban := range bans {
		entries = append(entries, dto.BannedUserEntry{BannedUsername: ban.BannedUser.Username})
	}

	c.JSON(http.StatusOK, entries)
}
