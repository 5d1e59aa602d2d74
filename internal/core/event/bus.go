package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted while a tick runs are
// delivered in one batch by Flush at the end of that tick, after every system
// has finished mutating the world. Handlers therefore observe a consistent
// post-tick state and can never interleave with simulation logic.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer. A nil bus drops the event, so
// the simulation runs unchanged with hooks absent.
func Emit[T any](b *Bus, ev T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Flush rotates the buffers and delivers everything emitted since the last
// flush to the subscribed handlers. Call once at tick end.
func (b *Bus) Flush() {
	if b == nil {
		return
	}
	b.front, b.back = b.back, b.front
	for t, events := range b.front {
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				// Safe: Subscribe and Emit key handlers and events by the
				// same concrete type.
				reflect.ValueOf(h).Call([]reflect.Value{reflect.ValueOf(ev)})
			}
		}
		b.front[t] = b.front[t][:0]
	}
}
