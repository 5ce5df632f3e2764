package guarded_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/guarded"
)

func TestSetThenConcurrentWaits(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[int]()
	require.NoError(t, p.Set(42))

	const readers = 10
	results := make(chan int, readers)

	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := f.Wait(); err == nil {
				results <- v
			}
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for v := range results {
		require.Equal(t, 42, v)
		count++
	}
	require.Equal(t, readers, count)

	// Waiting is repeatable.
	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestWaitBlocksUntilSet(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[string]()
	require.False(t, f.Ready())

	got := make(chan string, 1)
	go func() {
		v, err := f.Wait()
		if err == nil {
			got <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("Wait returned before Set")
	default:
	}

	require.NoError(t, p.Set("hello"))
	select {
	case v := <-got:
		require.Equal(t, "hello", v)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never woke after Set")
	}
	require.True(t, f.Ready())
}

func TestDoubleSet(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[int]()
	require.NoError(t, p.Set(1))
	require.ErrorIs(t, p.Set(2), guarded.ErrAlreadySet)

	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestWaitTimeoutDoesNotConsumePendingState(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[int]()

	_, err := f.WaitTimeout(20 * time.Millisecond)
	require.ErrorIs(t, err, guarded.ErrNotReady)

	require.NoError(t, p.Set(7))

	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 7, v)

	v, err = f.WaitTimeout(time.Second)
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestWaitContextCancelled(t *testing.T) {
	t.Parallel()

	_, f := guarded.NewPromise[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.WaitContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBrokenPromise(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[int]()

	errs := make(chan error, 1)
	go func() {
		_, err := f.Wait()
		errs <- err
	}()

	// Producer abandons without setting.
	require.NoError(t, p.Break())

	select {
	case err := <-errs:
		require.ErrorIs(t, err, guarded.ErrBroken)
	case <-time.After(5 * time.Second):
		t.Fatal("pending waiter not released by Break")
	}

	// Future waiters fail too instead of blocking forever.
	_, err := f.Wait()
	require.ErrorIs(t, err, guarded.ErrBroken)
}

func TestBreakAfterSetIsNoop(t *testing.T) {
	t.Parallel()

	p, f := guarded.NewPromise[int]()
	require.NoError(t, p.Set(3))
	require.ErrorIs(t, p.Break(), guarded.ErrAlreadySet)

	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p, f := guarded.NewPromise[int]()
	require.NoError(t, p.Fail(boom))

	_, err := f.Wait()
	require.ErrorIs(t, err, boom)
}

func TestAsyncSuccess(t *testing.T) {
	t.Parallel()

	f := guarded.Async("sum", func() (int, error) {
		return 2 + 3, nil
	})

	v, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 5, v)
}

func TestAsyncError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := guarded.Async("failing", func() (int, error) {
		return 0, boom
	})

	_, err := f.Wait()
	require.ErrorIs(t, err, boom)
}

func TestAsyncPanicBreaksWithCause(t *testing.T) {
	t.Parallel()

	f := guarded.Async("panicking", func() (int, error) {
		panic("kaboom")
	})

	_, err := f.Wait()
	require.Error(t, err)

	var pe *guarded.PanicError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "kaboom", pe.Value)
}
