package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Room хранит результат резолва имени комнаты в стрим конкретного стримера
type Room struct {
	Name       string
	StreamID   uuid.UUID
	StreamerID uuid.UUID
}

// Registry абстрагирует членство в комнатах и рассылку, чтобы
// in-memory хаб и шина на несколько инстансов были взаимозаменяемы
type Registry interface {
	Join(room string, client *Client)
	Leave(room string, client *Client)
	Broadcast(ctx context.Context, room string, payload []byte) error
}

// Hub хранит участников комнат в памяти одного процесса
type Hub struct {
	rooms map[string]map[uuid.UUID]*Client
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[uuid.UUID]*Client),
	}
}

// Join идемпотентен: повторный вход тем же клиентом заменяет запись
func (h *Hub) Join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[room][client.ID] = client
}

// Leave не делает ничего, если клиента уже нет (гонки при disconnect)
func (h *Hub) Leave(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast раздает payload всем участникам комнаты, включая отправителя
func (h *Hub) Broadcast(ctx context.Context, room string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[room] {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Client %s send channel full, dropping message", client.ID)
		}
	}
	return nil
}

// RoomSize нужен для отладки и тестов
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
