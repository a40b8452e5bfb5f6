package random

import (
	"math/rand/v2"
	"sync"
)

// API is the source of randomness for anything that picks elements at random.
// *rand.Rand from math/rand/v2 satisfies it, so tests can pass a seeded generator. *rand.Rand is not
// safe for concurrent use, wrap it with NewLocked when it is shared.
//
// note: fault injection point
type API interface {
	// IntN returns a uniformly distributed integer in [0, n), it panics if n <= 0.
	IntN(n int) int
}

// StandardImpl draws from the global math/rand/v2 source.
type StandardImpl struct{}

func (StandardImpl) IntN(n int) int {
	return rand.IntN(n)
}

// Locked serializes calls to another API.
type Locked struct {
	mutex sync.Mutex
	inner API
}

func NewLocked(inner API) *Locked {
	return &Locked{inner: inner}
}

func (l *Locked) IntN(n int) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.inner.IntN(n)
}

// Pick returns a uniformly random element of items, ok is false when items is empty.
func Pick[T any](rnd API, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[rnd.IntN(len(items))], true
}
