package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile существует ровно один на пользователя, создается вместе с аккаунтом
type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Nickname string    `gorm:"size:50"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
