// Package store provides the realtime side of persistence: an in-process
// changefeed over the database. A subscription runs its query once on
// attach and again after every write to the watched collection, emitting
// point-in-time snapshots in order. This mirrors the snapshot-listener
// contract of a hosted document store without the hosted store.
package store

import "context"

// Snapshot is one point-in-time result of a subscription's query.
// A query failure is delivered as a snapshot with Err set; the stream
// stays open and is not retried.
type Snapshot[T any] struct {
	Docs []T
	Err  error
}

// Subscribe emits an initial snapshot immediately, then a fresh one after
// every Notify on the collection, in delivery order. Slow consumers see
// the latest snapshot only (stale pending snapshots are replaced). The
// returned channel closes when ctx is cancelled.
func Subscribe[T any](ctx context.Context, h *Hub, collection string, fetch func(context.Context) ([]T, error)) <-chan Snapshot[T] {
	out := make(chan Snapshot[T], 1)
	changes, cancel := h.watch(collection)
	go func() {
		defer close(out)
		defer cancel()
		deliver(ctx, out, run(ctx, fetch))
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				deliver(ctx, out, run(ctx, fetch))
			}
		}
	}()
	return out
}

func run[T any](ctx context.Context, fetch func(context.Context) ([]T, error)) Snapshot[T] {
	docs, err := fetch(ctx)
	return Snapshot[T]{Docs: docs, Err: err}
}

// deliver is latest-wins: if the consumer has not drained the previous
// snapshot it is dropped in favor of this one.
func deliver[T any](ctx context.Context, out chan Snapshot[T], s Snapshot[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case out <- s:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
