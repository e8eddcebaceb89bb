package database

import (
	"github.com/thereayou/streamhub/internal/models"
)

func (d *Database) GetProfile(userID string) (*models.Profile, error) {
	profile := models.Profile{}
	if err := d.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *Database) UpdateNickname(userID string, nickname string) error {
	return d.db.Model(&models.Profile{}).Where("user_id = ?", userID).Update("nickname", nickname).Error
}
