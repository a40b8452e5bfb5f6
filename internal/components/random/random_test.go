package random

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickEmpty(t *testing.T) {
	_, ok := Pick[int](StandardImpl{}, nil)
	require.False(t, ok)
}

func TestPickReachesEveryElement(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	items := []string{"a", "b", "c", "d"}

	seen := map[string]int{}
	for range 1000 {
		item, ok := Pick(rnd, items)
		require.True(t, ok)
		seen[item]++
	}

	for _, item := range items {
		require.Greater(t, seen[item], 0, item)
	}
}

func TestPickDeterministic(t *testing.T) {
	items := []int{10, 20, 30, 40, 50}

	var first []int
	rnd := rand.New(rand.NewPCG(7, 7))
	for range 20 {
		item, _ := Pick(rnd, items)
		first = append(first, item)
	}

	var second []int
	rnd = rand.New(rand.NewPCG(7, 7))
	for range 20 {
		item, _ := Pick(rnd, items)
		second = append(second, item)
	}

	require.Equal(t, first, second)
}

func TestLockedSharedSource(t *testing.T) {
	rnd := NewLocked(rand.New(rand.NewPCG(3, 4)))
	items := []int{1, 2, 3}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				item, ok := Pick(rnd, items)
				require.True(t, ok)
				require.Contains(t, items, item)
			}
		}()
	}
	wg.Wait()

	// same seed, same sequence
	a := NewLocked(rand.New(rand.NewPCG(9, 9)))
	b := rand.New(rand.NewPCG(9, 9))
	for range 20 {
		require.Equal(t, b.IntN(100), a.IntN(100))
	}
}
