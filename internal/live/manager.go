// Package live owns at most one active subscription per logical stream
// key. Subscribing to a key that already has a stream tears the old one
// down first, so rapid view switches never leak listeners.
package live

import (
	"context"
	"sync"
)

// Source opens a stream of rendered fragments. It must honor ctx
// cancellation by closing the returned channel.
type Source func(ctx context.Context) <-chan string

// Sink receives each rendered fragment in delivery order.
type Sink func(html string)

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type Manager struct {
	mu      sync.Mutex
	handles map[string]*handle
	closed  bool
}

func NewManager() *Manager {
	return &Manager{handles: make(map[string]*handle)}
}

// Subscribe attaches src to key, replacing (and fully tearing down) any
// previous stream for the same key. Every fragment src emits, including
// the initial one, is forwarded to sink in order.
func (m *Manager) Subscribe(key string, src Source, sink Sink) {
	m.Unsubscribe(key)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &handle{cancel: cancel, done: make(chan struct{})}
	m.handles[key] = h
	m.mu.Unlock()

	go func() {
		defer close(h.done)
		for html := range src(ctx) {
			sink(html)
		}
	}()
}

// Unsubscribe releases the stream for key and waits for its renderer to
// finish. It is a no-op when no stream is attached.
func (m *Manager) Unsubscribe(key string) {
	m.mu.Lock()
	h, ok := m.handles[key]
	if ok {
		delete(m.handles, key)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	h.cancel()
	<-h.done
}

// Close tears down every stream. The manager accepts no further
// subscriptions afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	handles := m.handles
	m.handles = make(map[string]*handle)
	m.mu.Unlock()
	for _, h := range handles {
		h.cancel()
		<-h.done
	}
}
