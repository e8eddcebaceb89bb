package database

import (
	"github.com/google/uuid"
	"github.com/thereayou/streamhub/internal/models"
	"gorm.io/gorm"
)

// CreateBan идемпотентен: повторный бан той же пары ничего не меняет
func (d *Database) CreateBan(streamerID, bannedUserID uuid.UUID) error {
	ban := models.Ban{}
	return d.db.
		Where("streamer_id = ? AND banned_user_id = ?", streamerID, bannedUserID).
		Attrs(models.Ban{StreamerID: streamerID, BannedUserID: bannedUserID}).
		FirstOrCreate(&ban).Error
}

func (d *Database) DeleteBan(streamerID, bannedUserID uuid.UUID) error {
	result := d.db.
		Where("streamer_id = ? AND banned_user_id = ?", streamerID, bannedUserID).
		Delete(&models.Ban{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) IsBanned(streamerID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.Model(&models.Ban{}).
		Where("streamer_id = ? AND banned_user_id = ?", streamerID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *Database) ListBans(streamerID uuid.UUID) ([]models.Ban, error) {
	var bans []models.Ban
	err := d.db.
		Where("streamer_id = ?", streamerID).
		Preload("BannedUser").
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}
