package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ban: не больше одной записи на пару (стример, забаненный)
type Ban struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StreamerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_streamer_banned"`
	BannedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_streamer_banned"`
	CreatedAt    time.Time

	// Связи
	Streamer   User `gorm:"foreignKey:StreamerID"`
	BannedUser User `gorm:"foreignKey:BannedUserID"`
}

func (b *Ban) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
