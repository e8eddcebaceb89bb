package websocket

import (
	"context"
	"testing"
)

func newTestClient(hub *Hub, room Room) *Client {
	return NewClient(hub, nil, room, nil)
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	room := Room{Name: "alice"}
	client := newTestClient(hub, room)

	hub.Join("alice", client)
	hub.Join("alice", client)

	if got := hub.RoomSize("alice"); got != 1 {
		t.Errorf("RoomSize() = %d, want 1", got)
	}
}

func TestHub_LeaveIsIdempotent(t *testing.T) {
	hub := NewHub()
	room := Room{Name: "alice"}
	client := newTestClient(hub, room)

	hub.Join("alice", client)
	hub.Leave("alice", client)
	// Повторный и лишний leave не должны ломать состояние
	hub.Leave("alice", client)
	hub.Leave("bob", client)

	if got := hub.RoomSize("alice"); got != 0 {
		t.Errorf("RoomSize() = %d, want 0", got)
	}
}

func TestHub_BroadcastReachesAllMembersIncludingSender(t *testing.T) {
	hub := NewHub()
	room := Room{Name: "alice"}

	sender := newTestClient(hub, room)
	viewer := newTestClient(hub, room)
	outsider := newTestClient(hub, Room{Name: "bob"})

	hub.Join("alice", sender)
	hub.Join("alice", viewer)
	hub.Join("bob", outsider)

	if err := hub.Broadcast(context.Background(), "alice", []byte("hello")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	for _, client := range []*Client{sender, viewer} {
		select {
		case got := <-client.Send:
			if string(got) != "hello" {
				t.Errorf("received %q, want %q", got, "hello")
			}
		default:
			t.Error("member did not receive broadcast")
		}
	}

	select {
	case got := <-outsider.Send:
		t.Errorf("outsider received %q, want nothing", got)
	default:
	}
}

func TestHub_BroadcastSkipsDepartedMember(t *testing.T) {
	hub := NewHub()
	room := Room{Name: "alice"}

	stayer := newTestClient(hub, room)
	leaver := newTestClient(hub, room)

	hub.Join("alice", stayer)
	hub.Join("alice", leaver)
	hub.Leave("alice", leaver)

	if err := hub.Broadcast(context.Background(), "alice", []byte("hi")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	select {
	case <-stayer.Send:
	default:
		t.Error("remaining member did not receive broadcast")
	}

	select {
	case got := <-leaver.Send:
		t.Errorf("departed member received %q, want nothing", got)
	default:
	}
}

func TestHub_BroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	if err := hub.Broadcast(context.Background(), "nobody", []byte("hi")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
}

func TestHub_FullQueueDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()
	room := Room{Name: "alice"}
	client := newTestClient(hub, room)
	hub.Join("alice", client)

	// Забиваем очередь до отказа
	for {
		if err := client.Enqueue([]byte("x")); err == ErrClientQueueFull {
			break
		}
	}

	// Должен отбросить сообщение, а не заблокироваться
	if err := hub.Broadcast(context.Background(), "alice", []byte("overflow")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
}
