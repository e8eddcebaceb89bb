package websocket

import (
	"encoding/json"

	"github.com/thereayou/streamhub/internal/models"
)

// AnonymousName подставляется вместо имени для неаутентифицированных зрителей
const AnonymousName = "Anonymous"

// Inbound задает единственную форму клиентского сообщения: {"message": "..."}.
// Указатель отличает отсутствующее поле от пустой строки.
type Inbound struct {
	Message *string `json:"message"`
}

// Payload описывает исходящее сообщение чата, одно и то же для живой
// рассылки и для реплея истории
type Payload struct {
	Message     string `json:"message"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// BuildPayload резолвит имя отправителя по фиксированной цепочке:
// nickname профиля -> username -> Anonymous
func BuildPayload(sender *models.User, text string) Payload {
	if sender == nil {
		return Payload{
			Message:     text,
			Username:    AnonymousName,
			DisplayName: AnonymousName,
		}
	}

	displayName := sender.Profile.Nickname
	if displayName == "" {
		displayName = sender.Username
	}

	return Payload{
		Message:     text,
		Username:    sender.Username,
		DisplayName: displayName,
	}
}

// MarshalPayload сериализует Payload для отправки в сокет или на шину
func MarshalPayload(sender *models.User, text string) ([]byte, error) {
	return json.Marshal(BuildPayload(sender, text))
}
