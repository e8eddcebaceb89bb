package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StreamID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Message   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	User   User   `gorm:"foreignKey:UserID"`
	Stream Stream `gorm:"foreignKey:StreamID"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
