package database

import (
	"github.com/thereayou/streamhub/internal/models"
	"gorm.io/gorm"
)

// CreateUser создает аккаунт вместе с профилем в одной транзакции.
// Инвариант: у каждого аккаунта ровно один профиль; nickname по умолчанию равен username.
func (d *Database) CreateUser(user *models.User, nickname string) error {
	if nickname == "" {
		nickname = user.Username
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &models.Profile{
			UserID:   user.ID,
			Nickname: nickname,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		user.Profile = *profile
		return nil
	})
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdatePassword(id string, passwordHash string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

// ListUsers возвращает всех пользователей со стримами и профилями для публичного списка
func (d *Database) ListUsers() ([]models.User, error) {
	var users []models.User
	err := d.db.
		Preload("Profile").
		Preload("Stream").
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
