package guarded_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/guarded"
)

func TestRecordLineShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := guarded.NewRecorder(guarded.WriterSink(&buf))

	require.NoError(t, rec.Record("Main Thread", 7))
	require.NoError(t, rec.Record("Thread 1", -3))

	require.Equal(t, "Main Thread: 7\nThread 1: -3\n", buf.String())
	require.Equal(t, []string{"Main Thread: 7", "Thread 1: -3"}, rec.Lines())
}

func TestConcurrentRecordsNeverInterleave(t *testing.T) {
	t.Parallel()

	const perTask = 100

	var buf bytes.Buffer
	rec := guarded.NewRecorder(guarded.WriterSink(&buf))

	t1 := guarded.Go("main-writer", func() error {
		for i := range perTask {
			if err := rec.Record("main", i); err != nil {
				return err
			}
		}
		return nil
	})
	t2 := guarded.Go("thread-writer", func() error {
		for i := range perTask {
			if err := rec.Record("thread", -i); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, t1.Join())
	require.NoError(t, t2.Join())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2*perTask)

	wellFormed := regexp.MustCompile(`^(main|thread): -?\d+$`)
	for _, line := range lines {
		require.Regexp(t, wellFormed, line)
	}
}

func TestFileSinkLazyOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.txt")
	rec := guarded.NewRecorder(guarded.FileSink(path))

	// Not opened until the first record.
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, rec.Record("From main", 1))
	require.NoError(t, rec.Record("From thread", 2))
	require.NoError(t, rec.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "From main: 1\nFrom thread: 2\n", string(data))
}

func TestFileSinkOpenFailureSurfacesOnRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing-dir", "log.txt")
	rec := guarded.NewRecorder(guarded.FileSink(path))

	err := rec.Record("main", 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)

	// Close on a sink that never opened succeeds.
	require.NoError(t, rec.Close())
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	src := guarded.NewRecorder(guarded.WriterSink(io.Discard))
	dst := guarded.NewRecorder(guarded.WriterSink(io.Discard))

	require.NoError(t, src.Record("src", 1))
	require.NoError(t, src.Record("src", 2))
	require.NoError(t, dst.Record("dst", 1))

	require.NoError(t, src.Transfer(dst))

	require.Empty(t, src.Lines())
	require.Equal(t, []string{"dst: 1", "src: 1", "src: 2"}, dst.Lines())

	// Self-transfer is a no-op rather than a self-deadlock.
	require.NoError(t, dst.Transfer(dst))
	require.Len(t, dst.Lines(), 3)
}

func TestCrossedTransfersNoDeadlock(t *testing.T) {
	t.Parallel()

	a := guarded.NewRecorder(guarded.WriterSink(io.Discard))
	b := guarded.NewRecorder(guarded.WriterSink(io.Discard))

	require.NoError(t, a.Record("a", 1))
	require.NoError(t, b.Record("b", 1))

	t1 := guarded.Go("a-to-b", func() error {
		for range 200 {
			if err := a.Transfer(b); err != nil {
				return err
			}
		}
		return nil
	})
	t2 := guarded.Go("b-to-a", func() error {
		for range 200 {
			if err := b.Transfer(a); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, t1.Join())
	require.NoError(t, t2.Join())

	// Lines shuttle back and forth but are never lost or duplicated.
	require.Len(t, append(a.Lines(), b.Lines()...), 2)
}

type failingSink struct {
	name string
}

func (s *failingSink) Writer() (io.Writer, error) { return io.Discard, nil }
func (s *failingSink) Close() error               { return errors.New("close " + s.name) }

func TestCloseAggregatesSinkErrors(t *testing.T) {
	t.Parallel()

	rec := guarded.NewRecorder(&failingSink{name: "one"}, &failingSink{name: "two"})

	err := rec.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "close one")
	require.Contains(t, err.Error(), "close two")
}
