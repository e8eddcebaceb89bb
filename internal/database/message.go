package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/streamhub/internal/models"
)

func (d *Database) AppendMessage(streamID, userID uuid.UUID, text string) (*models.ChatMessage, error) {
	message := &models.ChatMessage{
		StreamID:  streamID,
		UserID:    userID,
		Message:   text,
		CreatedAt: time.Now(),
	}
	if err := d.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// RecentMessages возвращает последние limit сообщений комнаты, старые первыми
func (d *Database) RecentMessages(streamID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := d.db.
		Where("stream_id = ?", streamID).
		Order("created_at DESC").
		Limit(limit).
		Preload("User.Profile").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Разворачиваем порядок, чтобы старые сообщения были первыми
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
