package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/handlers/dto"
	"github.com/thereayou/streamhub/internal/live"
)

type StreamHandler struct {
	db   *database.Database
	live live.Provider
}

func NewStreamHandler(db *database.Database, provider live.Provider) *StreamHandler {
	return &StreamHandler{db: db, live: provider}
}

// GetStreamInfo возвращает ключи и UID стрима по username стримера
func (h *StreamHandler) GetStreamInfo(c *gin.Context) {
	username := c.Param("username")

	user, err := h.db.FindUserByUsername(username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	stream, err := h.db.FindStreamByUser(user.ID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
		return
	}

	c.JSON(http.StatusOK, dto.StreamInfoResponse{
		Username:  user.Username,
		Nickname:  user.Profile.Nickname,
		StreamKey: stream.StreamKey,
		StreamURL: stream.StreamURL,
		StreamUID: stream.ViewerUID,
	})
}

// ListUsers отдает всех пользователей с live-статусом.
// Недоступность видео-провайдера деградирует в "никто не в эфире", а не в ошибку.
func (h *StreamHandler) ListUsers(c *gin.Context) {
	liveThumbnails := make(map[string]string)
	inputs, err := h.live.ListLiveInputs(c.Request.Context())
	if err != nil {
		log.Printf("Could not fetch live status from stream provider: %v", err)
	} else {
		for _, input := range inputs {
			if input.IsLive() && input.UID != "" {
				liveThumbnails[input.UID] = input.Thumbnail
			}
		}
	}

	users, err := h.db.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	entries := make([]dto.UserListEntry, 0, len(users))
	for _, user := range users {
		entry := dto.UserListEntry{
			Username: user.Username,
			Nickname: user.Profile.Nickname,
		}
		if user.Stream != nil {
			if thumbnail, ok := liveThumbnails[user.Stream.ViewerUID]; ok {
				entry.IsLive = true
				entry.Thumbnail = thumbnail
			}
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, entries)
}
