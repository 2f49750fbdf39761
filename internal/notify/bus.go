// Package notify fans room and roster changes out to subscribers. Every
// mutation publishes the fresh entity state; subscribers observe results,
// they never drive transitions.
package notify

import (
	"sync"

	"impostor/internal/game"
)

// RoomFunc receives the updated room record after a room mutation.
type RoomFunc func(*game.Room)

// PlayersFunc receives the full roster, ordered by CreatedAt, after any
// player mutation in the room.
type PlayersFunc func([]*game.Player)

type event struct {
	room    *game.Room
	players []*game.Player
}

type subscriber struct {
	ch   chan event
	once sync.Once
}

// Bus manages per-room subscriptions.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*subscriber
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]*subscriber)}
}

// Subscribe registers callbacks for a room and returns an idempotent
// unsubscribe function. Callbacks run on a dedicated goroutine per
// subscription, in publish order.
func (b *Bus) Subscribe(roomCode string, onRoom RoomFunc, onPlayers PlayersFunc) func() {
	sub := &subscriber{ch: make(chan event, 16)}

	b.mu.Lock()
	b.subs[roomCode] = append(b.subs[roomCode], sub)
	b.mu.Unlock()

	go func() {
		for ev := range sub.ch {
			if ev.room != nil && onRoom != nil {
				onRoom(ev.room)
			}
			if ev.players != nil && onPlayers != nil {
				onPlayers(ev.players)
			}
		}
	}()

	return func() {
		sub.once.Do(func() {
			b.mu.Lock()
			subs := b.subs[roomCode]
			for i, s := range subs {
				if s == sub {
					b.subs[roomCode] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			if len(b.subs[roomCode]) == 0 {
				delete(b.subs, roomCode)
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}
}

// PublishRoom delivers an updated room record to the room's subscribers.
func (b *Bus) PublishRoom(room *game.Room) {
	b.publish(room.Code, event{room: room})
}

// PublishPlayers delivers the room's full roster to its subscribers.
func (b *Bus) PublishPlayers(roomCode string, players []*game.Player) {
	if players == nil {
		players = []*game.Player{}
	}
	b.publish(roomCode, event{players: players})
}

func (b *Bus) publish(roomCode string, ev event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[roomCode] {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber is not draining; drop rather than block the mutation.
		}
	}
}
