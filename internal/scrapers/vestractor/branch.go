package vestractor

import (
	"context"
	"errors"
	"sync"
)

type loadState int

const (
	notLoaded loadState = iota
	loading
	loaded
)

func (s loadState) String() string {
	switch s {
	case notLoaded:
		return "not-loaded"
	case loading:
		return "loading"
	case loaded:
		return "loaded"
	}
	return "unknown"
}

// errLoadPanicked is handed to the callers that were waiting on a load that panicked.
var errLoadPanicked = errors.New("vestractor: load panicked")

// branch is a lazily loaded child list of a catalog node.
//
// The first caller of get runs the loader while later callers wait for it to finish, so at most
// one load is in flight per branch. A failed load puts the branch back in notLoaded and hands the
// same error to everyone who was waiting, unless it failed because the leader's ctx ended, in
// which case a waiter with a live ctx takes over the load.
type branch[T any] struct {
	mutex sync.Mutex
	state loadState
	// done is closed when the in-flight load finishes, it is only set while state == loading.
	done  chan struct{}
	items []T
	err   error
	// abandoned is set when the last load failed because its leader's ctx was done.
	abandoned bool
}

func (b *branch[T]) status() loadState {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.state
}

// peek returns the items if the branch is loaded without triggering a load.
func (b *branch[T]) peek() ([]T, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.items, b.state == loaded
}

// get returns the items of the branch, loading them first if needed. url names the page behind
// the branch, it is reported when ctx ends while waiting on someone else's load.
func (b *branch[T]) get(ctx context.Context, url string, load func(ctx context.Context) ([]T, error)) ([]T, error) {
	for {
		b.mutex.Lock()
		switch b.state {
		case loaded:
			items := b.items
			b.mutex.Unlock()
			return items, nil

		case loading:
			done := b.done
			b.mutex.Unlock()

			select {
			case <-done:
			case <-ctx.Done():
				return nil, &FetchError{Url: url, Err: ctx.Err()}
			}

			b.mutex.Lock()
			if b.state == loaded {
				items := b.items
				b.mutex.Unlock()
				return items, nil
			}
			// the load we waited on failed, its error was kept for us
			err, abandoned := b.err, b.abandoned
			b.mutex.Unlock()
			if err != nil && !(abandoned && ctx.Err() == nil) {
				return nil, err
			}
			// either the leader gave up or someone else already started a new load
			continue

		default:
			done := make(chan struct{})
			b.state = loading
			b.done = done
			b.err = nil
			b.abandoned = false
			b.mutex.Unlock()

			return b.lead(ctx, done, load)
		}
	}
}

// lead runs load as the leader of the branch and publishes its outcome, also when load panics.
func (b *branch[T]) lead(ctx context.Context, done chan struct{}, load func(ctx context.Context) ([]T, error)) (items []T, err error) {
	finished := false
	defer func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()

		switch {
		case !finished:
			b.state = notLoaded
			b.err = errLoadPanicked
		case err != nil:
			b.state = notLoaded
			b.err = err
			b.abandoned = ctx.Err() != nil
		default:
			b.state = loaded
			b.items = items
		}
		b.done = nil
		close(done)
	}()

	items, err = load(ctx)
	finished = true
	return items, err
}
