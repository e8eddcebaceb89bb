package database

import (
	"github.com/thereayou/streamhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) SaveStream(stream *models.Stream) error {
	// Повторная регистрация стрима просто обновляет ключи
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stream_key", "stream_url", "viewer_uid"}),
	}).Create(stream).Error
}

func (d *Database) FindStreamByUser(userID string) (*models.Stream, error) {
	stream := models.Stream{}
	if err := d.db.Where("user_id = ?", userID).First(&stream).Error; err != nil {
		return nil, err
	}
	return &stream, nil
}

// FindRoom резолвит имя комнаты (username стримера) в его стрим.
// Комната существует, только если есть и аккаунт, и запись стрима.
func (d *Database) FindRoom(roomName string) (*models.Stream, error) {
	var streamer models.User
	if err := d.db.Where("username = ?", roomName).First(&streamer).Error; err != nil {
		return nil, err
	}

	stream := models.Stream{}
	if err := d.db.Where("user_id = ?", streamer.ID).First(&stream).Error; err != nil {
		return nil, err
	}
	stream.User = streamer

	return &stream, nil
}

// IsRoomMissing возвращает true, если ошибка означает отсутствие комнаты, а не сбой стора
func IsRoomMissing(err error) bool {
	return err == gorm.ErrRecordNotFound
}
