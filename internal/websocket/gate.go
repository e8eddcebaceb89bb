package websocket

import (
	"github.com/google/uuid"
	"github.com/thereayou/streamhub/internal/models"
)

type BanChecker interface {
	IsBanned(streamerID, userID uuid.UUID) (bool, error)
}

// Gate проверяет каждое входящее сообщение: аутентификация, потом бан
type Gate struct {
	bans BanChecker
}

func NewGate(bans BanChecker) *Gate {
	return &Gate{bans: bans}
}

// Authorize возвращает ErrNotLoggedIn или ErrBanned для отказа,
// прочие ошибки означают сбой стора банов. Без побочных эффектов.
func (g *Gate) Authorize(room Room, sender *models.User) error {
	if sender == nil {
		return ErrNotLoggedIn
	}

	banned, err := g.bans.IsBanned(room.StreamerID, sender.ID)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}

	return nil
}
