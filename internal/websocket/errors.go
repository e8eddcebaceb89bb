package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidMessage  = errors.New("invalid message format")

	// Тексты уходят клиенту как есть в {"error": ...}
	ErrNotLoggedIn = errors.New("You must be logged in to chat.")
	ErrBanned      = errors.New("You are banned from this chat.")
)
