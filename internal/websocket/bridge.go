package websocket

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "chat:"

// RedisBridge реализует Registry для горизонтально масштабированного деплоя.
// Членство остается локальным, а Broadcast уходит через pub/sub,
// так что сообщение доезжает до участников на всех инстансах.
type RedisBridge struct {
	hub *Hub
	rdb *redis.Client
}

func NewRedisBridge(hub *Hub, rdb *redis.Client) *RedisBridge {
	return &RedisBridge{hub: hub, rdb: rdb}
}

func (b *RedisBridge) Join(room string, client *Client) {
	b.hub.Join(room, client)
}

func (b *RedisBridge) Leave(room string, client *Client) {
	b.hub.Leave(room, client)
}

func (b *RedisBridge) Broadcast(ctx context.Context, room string, payload []byte) error {
	return b.rdb.Publish(ctx, channelPrefix+room, payload).Err()
}

// Run блокирует: читает шину и раздает сообщения локальным участникам
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			room := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.hub.Broadcast(ctx, room, []byte(msg.Payload))
		}
	}
}
