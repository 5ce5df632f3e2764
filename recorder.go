package guarded

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// Sink is a destination for recorded lines. Writer may be called on every
// record; implementations that open resources lazily surface open failures
// there rather than at construction.
type Sink interface {
	Writer() (io.Writer, error)
	Close() error
}

type fileSink struct {
	path   string
	open   func() (*os.File, error)
	opened atomic.Bool
}

// FileSink returns a [Sink] appending to the file at path. The file is
// opened on first use (thread-safe, exactly once), so constructing a
// [Recorder] never fails; an open failure is returned from the first
// [Recorder.Record] instead.
func FileSink(path string) Sink {
	s := &fileSink{path: path}
	s.open = sync.OnceValues(func() (*os.File, error) {
		s.opened.Store(true)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("guarded: open sink %s: %w", path, err)
		}
		return f, nil
	})
	return s
}

func (s *fileSink) Writer() (io.Writer, error) {
	return s.open()
}

func (s *fileSink) Close() error {
	if !s.opened.Load() {
		// Never opened; nothing to close.
		return nil
	}
	f, err := s.open()
	if err != nil {
		return nil
	}
	return f.Close()
}

type writerSink struct {
	w io.Writer
}

// WriterSink returns a [Sink] wrapping an existing writer, typically a
// console stream or test buffer. Close is a no-op; the caller keeps
// ownership of w.
func WriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Writer() (io.Writer, error) { return s.w, nil }
func (s *writerSink) Close() error               { return nil }

// recorderLog is the resource a Recorder guards: the sinks plus the lines
// written so far.
type recorderLog struct {
	sinks []Sink
	lines []string
}

// Recorder writes lines of the shape "<label>: <integer>" to its sinks,
// serialized through an internal [Guarded] so concurrent records are never
// interleaved mid-line. The raw sinks are never exposed.
type Recorder struct {
	log *Guarded[recorderLog]
}

// NewRecorder creates a recorder over the given sinks.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{
		log: New(recorderLog{sinks: sinks}),
	}
}

// Record writes one "<label>: <n>" line to every sink and retains it in the
// recorder's line history. The first sink failure aborts the record and is
// returned to the caller.
func (r *Recorder) Record(label string, n int) error {
	line := fmt.Sprintf("%s: %d", label, n)

	return r.log.DoErr(func(lg *recorderLog) error {
		for _, s := range lg.sinks {
			w, err := s.Writer()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("guarded: record: %w", err)
			}
		}
		lg.lines = append(lg.lines, line)
		return nil
	})
}

// Lines returns a copy of the recorded line history.
func (r *Recorder) Lines() []string {
	var out []string
	r.log.Do(func(lg *recorderLog) {
		out = append(out, lg.lines...)
	})
	return out
}

// Transfer moves this recorder's line history to dst. Both recorders are
// locked all-or-nothing for the duration, so no concurrent Record can slip
// between the drain and the append, and crossed Transfer calls on the same
// pair cannot deadlock.
func (r *Recorder) Transfer(dst *Recorder) error {
	if r == dst {
		return nil
	}
	return Do2(r.log, dst.log, func(src, d *recorderLog) error {
		d.lines = append(d.lines, src.lines...)
		src.lines = nil
		return nil
	})
}

// Close closes every sink, aggregating failures. Further records fail
// against closed file sinks; callers are expected to stop recording first.
func (r *Recorder) Close() error {
	var merr *multierror.Error
	r.log.Do(func(lg *recorderLog) {
		for _, s := range lg.sinks {
			if err := s.Close(); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
		lg.sinks = nil
	})
	return merr.ErrorOrNil()
}
