package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/middleware"
	"github.com/thereayou/streamhub/internal/models"
	ws "github.com/thereayou/streamhub/internal/websocket"
)

// Сколько сообщений истории отправляется новому участнику
const historyLimit = 50

// ChatHandler поднимает WebSocket-сессию чата комнаты и
// обрабатывает входящие сообщения уже присоединившихся клиентов
type ChatHandler struct {
	db       *database.Database
	registry ws.Registry
	gate     *ws.Gate
	upgrader websocket.Upgrader
}

func NewChatHandler(db *database.Database, registry ws.Registry, gate *ws.Gate) *ChatHandler {
	return &ChatHandler{
		db:       db,
		registry: registry,
		gate:     gate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleChat: резолв комнаты -> upgrade -> реплей истории -> join -> pumps.
// Неизвестная комната отклоняется до апгрейда, соединение не открывается.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	roomName := c.Param("room")

	stream, err := h.db.FindRoom(roomName)
	if err != nil {
		if !database.IsRoomMissing(err) {
			log.Printf("Room lookup failed for %q: %v", roomName, err)
		}
		c.Status(http.StatusNotFound)
		return
	}

	user := h.currentUser(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	room := ws.Room{
		Name:       roomName,
		StreamID:   stream.ID,
		StreamerID: stream.UserID,
	}
	client := ws.NewClient(h.registry, conn, room, user)

	// Реплей кладем в очередь до Join, чтобы история всегда была раньше живых сообщений
	h.replayHistory(client)
	h.registry.Join(roomName, client)

	go client.WritePump()
	go client.ReadPump(h)
}

// currentUser достает пользователя, если OptionalAuth распознал токен
func (h *ChatHandler) currentUser(c *gin.Context) *models.User {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return nil
	}

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		log.Printf("Failed to load chat user %s: %v", userID, err)
		return nil
	}
	return user
}

// replayHistory отправляет до historyLimit последних сообщений, старые первыми,
// только присоединяющемуся клиенту
func (h *ChatHandler) replayHistory(client *ws.Client) {
	messages, err := h.db.RecentMessages(client.Room.StreamID, historyLimit)
	if err != nil {
		log.Printf("Failed to load chat history for %q: %v", client.Room.Name, err)
		return
	}

	for _, message := range messages {
		payload, err := ws.MarshalPayload(&message.User, message.Message)
		if err != nil {
			continue
		}
		if err := client.Enqueue(payload); err != nil {
			log.Printf("History replay truncated for client %s: %v", client.ID, err)
			return
		}
	}
}

// HandleInbound вызывается из ReadPump на каждое входящее сообщение.
// Возвращенная ошибка уходит {"error": ...} только отправителю.
func (h *ChatHandler) HandleInbound(client *ws.Client, data []byte) error {
	var in ws.Inbound
	if err := json.Unmarshal(data, &in); err != nil || in.Message == nil {
		return ws.ErrInvalidMessage
	}

	if err := h.gate.Authorize(client.Room, client.User); err != nil {
		if err == ws.ErrNotLoggedIn || err == ws.ErrBanned {
			return err
		}
		// Сбой стора банов: пропускаем сообщение, сессию не роняем
		log.Printf("Ban check failed for client %s: %v", client.ID, err)
		return nil
	}

	saved, err := h.db.AppendMessage(client.Room.StreamID, client.User.ID, *in.Message)
	if err != nil {
		log.Printf("Failed to save message: %v", err)
		return nil
	}

	payload, err := ws.MarshalPayload(client.User, saved.Message)
	if err != nil {
		return nil
	}

	if err := h.registry.Broadcast(context.Background(), client.Room.Name, payload); err != nil {
		log.Printf("Broadcast to %q failed: %v", client.Room.Name, err)
	}

	return nil
}
