package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/streamhub/internal/models"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 512 * 1024 // 512KB
)

// InboundHandler обрабатывает одно входящее сообщение чата.
// Возвращенная ошибка уходит отправителю как {"error": ...}.
type InboundHandler interface {
	HandleInbound(client *Client, data []byte) error
}

// Client представляет одно живое соединение, привязанное ровно к одной комнате.
// User == nil означает анонимного зрителя.
type Client struct {
	ID   uuid.UUID
	User *models.User
	Room Room
	Conn *websocket.Conn
	Send chan []byte

	registry  Registry
	closeOnce sync.Once
}

func NewClient(registry Registry, conn *websocket.Conn, room Room, user *models.User) *Client {
	return &Client{
		ID:       uuid.New(),
		User:     user,
		Room:     room,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		registry: registry,
	}
}

// Close убирает клиента из комнаты и закрывает соединение.
// Безопасен при повторных и конкурентных вызовах: leave выполняется один раз.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.registry.Leave(c.Room.Name, c)
		close(c.Send)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// ReadPump читает сообщения от клиента; входящие обрабатываются
// строго по порядку получения
func (c *Client) ReadPump(handler InboundHandler) {
	defer c.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if handler == nil {
			continue
		}

		if err := handler.HandleInbound(c, data); err != nil {
			c.SendError(err.Error())
		}
	}
}

// WritePump отправляет сообщения клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрыт при disconnect
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Отправляем все накопившиеся сообщения
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteMessage(websocket.TextMessage, <-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Enqueue кладет payload в очередь отправки только этому клиенту
func (c *Client) Enqueue(payload []byte) error {
	select {
	case c.Send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// SendError отправляет {"error": ...} только этому клиенту
func (c *Client) SendError(text string) {
	payload, err := json.Marshal(ErrorPayload{Error: text})
	if err != nil {
		return
	}
	if err := c.Enqueue(payload); err != nil {
		log.Printf("Failed to send error to client %s: %v", c.ID, err)
	}
}
