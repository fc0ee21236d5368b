// Package memory es el bus en proceso: se usa cuando no hay REDIS_URL y en tests.
package memory

import (
	"context"
	"sync"

	"petcare-marketplace/internal/ports/realtime"
)

const bufferSize = 16

type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[*subscription]struct{}
}

var _ realtime.Bus = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[*subscription]struct{})}
}

// Publish nunca bloquea: si un suscriptor tiene el buffer lleno, el evento se descarta para él.
func (b *Bus) Publish(_ context.Context, channel string, ev realtime.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[channel] {
		select {
		case s.out <- ev:
		default:
		}
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, channel string) (realtime.Subscription, error) {
	s := &subscription{bus: b, channel: channel, out: make(chan realtime.Event, bufferSize)}

	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*subscription]struct{})
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return s, nil
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs[s.channel], s)
	if len(b.subs[s.channel]) == 0 {
		delete(b.subs, s.channel)
	}
	close(s.out)
}

type subscription struct {
	bus     *Bus
	channel string
	out     chan realtime.Event
	once    sync.Once
}

func (s *subscription) Events() <-chan realtime.Event { return s.out }

func (s *subscription) Close() error {
	s.once.Do(func() { s.bus.remove(s) })
	return nil
}
