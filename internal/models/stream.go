package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Stream struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	StreamKey string    `gorm:"uniqueIndex;not null"`
	StreamURL string    `gorm:"not null"`
	ViewerUID string    `gorm:"not null"` // UID live input'а у видео-провайдера
	CreatedAt time.Time

	// Связи
	User User `gorm:"foreignKey:UserID"`
}

func (s *Stream) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
