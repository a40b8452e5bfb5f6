package vestractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBranchPanicResetsState(t *testing.T) {
	var b branch[int]

	var done chan struct{}
	require.Panics(t, func() {
		_, _ = b.get(context.Background(), "https://objetivo.test/", func(ctx context.Context) ([]int, error) {
			b.mutex.Lock()
			done = b.done
			b.mutex.Unlock()
			panic("markup exploded")
		})
	})
	require.Equal(t, notLoaded, b.status())
	require.ErrorIs(t, b.err, errLoadPanicked)

	// waiters of the panicked load are released
	select {
	case <-done:
	default:
		t.Fatal("done was not closed after the load panicked")
	}

	items, err := b.get(context.Background(), "https://objetivo.test/", func(ctx context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, items)
	require.Equal(t, loaded, b.status())
}
