package sync

import (
	"context"
	stdsync "sync"
)

// MemoryNotifier delivers events to in-process subscribers. It backs tests
// and single-process deployments where no broker is running. Delivery is
// synchronous with Publish.
type MemoryNotifier struct {
	mu       stdsync.Mutex
	nextID   int
	handlers map[int]func(Event)
	closed   bool
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		handlers: make(map[int]func(Event)),
	}
}

func (m *MemoryNotifier) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	handlers := make([]func(Event), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

func (m *MemoryNotifier) Subscribe(handler func(Event)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.handlers[id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers, id)
	}, nil
}

func (m *MemoryNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[int]func(Event))
	m.closed = true
	return nil
}
