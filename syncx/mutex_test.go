package syncx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/guarded/syncx"
)

func TestMutexTryLock(t *testing.T) {
	t.Parallel()

	var mu syncx.Mutex

	mu.Lock()
	require.False(t, mu.TryLock())
	mu.Unlock()

	require.True(t, mu.TryLock())
	mu.Unlock()
}

func TestRWMutexReaders(t *testing.T) {
	t.Parallel()

	var mu syncx.RWMutex

	mu.RLock()
	mu.RLock()
	mu.RUnlock()
	mu.RUnlock()

	mu.Lock()
	mu.Unlock()
}
