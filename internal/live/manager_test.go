package live

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fragments emits each value in order, then blocks until cancelled.
func fragments(values ...string) Source {
	return func(ctx context.Context) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			for _, v := range values {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
			<-ctx.Done()
		}()
		return out
	}
}

type collector struct {
	mu   sync.Mutex
	got  []string
	seen chan struct{}
}

func newCollector() *collector {
	return &collector{seen: make(chan struct{}, 64)}
}

func (c *collector) sink(html string) {
	c.mu.Lock()
	c.got = append(c.got, html)
	c.mu.Unlock()
	c.seen <- struct{}{}
}

func (c *collector) wait(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.After(time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-c.seen:
		case <-deadline:
			c.mu.Lock()
			defer c.mu.Unlock()
			t.Fatalf("saw %d fragments, want %d: %v", len(c.got), n, c.got)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.got))
	copy(out, c.got)
	return out
}

func TestSubscribeForwardsInOrder(t *testing.T) {
	m := NewManager()
	defer m.Close()
	c := newCollector()
	m.Subscribe("k", fragments("a", "b", "c"), c.sink)
	got := c.wait(t, 3)
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("fragments out of order: %v", got)
	}
}

func TestSubscribeReplacesExistingStream(t *testing.T) {
	m := NewManager()
	defer m.Close()

	first := newCollector()
	stopped := make(chan struct{})
	m.Subscribe("k", func(ctx context.Context) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			defer close(stopped)
			select {
			case out <- "old":
			case <-ctx.Done():
				return
			}
			<-ctx.Done()
		}()
		return out
	}, first.sink)
	first.wait(t, 1)

	second := newCollector()
	m.Subscribe("k", fragments("new"), second.sink)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("old stream not torn down before replacement")
	}
	if got := second.wait(t, 1); got[0] != "new" {
		t.Fatalf("replacement stream delivered %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	m := NewManager()
	defer m.Close()
	c := newCollector()
	m.Subscribe("k", fragments("a"), c.sink)
	c.wait(t, 1)

	m.Unsubscribe("k")
	c.mu.Lock()
	n := len(c.got)
	c.mu.Unlock()
	if n != 1 {
		t.Fatalf("fragments after unsubscribe: %d", n)
	}
}

func TestUnsubscribeUnknownKeyIsNoop(t *testing.T) {
	m := NewManager()
	defer m.Close()
	m.Unsubscribe("never-subscribed")
}

func TestCloseRejectsFurtherSubscriptions(t *testing.T) {
	m := NewManager()
	m.Close()
	c := newCollector()
	m.Subscribe("k", fragments("a"), c.sink)
	time.Sleep(20 * time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.got) != 0 {
		t.Fatalf("closed manager still delivered %v", c.got)
	}
}

func TestIndependentKeysCoexist(t *testing.T) {
	m := NewManager()
	defer m.Close()
	a := newCollector()
	b := newCollector()
	m.Subscribe("ka", fragments("a1"), a.sink)
	m.Subscribe("kb", fragments("b1"), b.sink)
	if got := a.wait(t, 1); got[0] != "a1" {
		t.Fatalf("key ka delivered %v", got)
	}
	if got := b.wait(t, 1); got[0] != "b1" {
		t.Fatalf("key kb delivered %v", got)
	}
}
