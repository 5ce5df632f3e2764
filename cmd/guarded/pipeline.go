package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/guarded"
)

// The producer counts down to the sentinel; the consumer pops until it
// sees it.
const pipelineSentinel = 1

func newPipelineCmd() *cobra.Command {
	var (
		count    int
		interval time.Duration
		out      string
	)

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run a producer/consumer pair over a condition-variable queue",
		RunE: func(cc *cobra.Command, _ []string) error {
			return runPipeline(cc, count, interval, out)
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of values to produce (counting down to 1)")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "delay between pushes")
	cmd.Flags().StringVar(&out, "out", "", "append consumed values to this file instead of stdout")

	return cmd
}

func runPipeline(cc *cobra.Command, count int, interval time.Duration, out string) error {
	if count < pipelineSentinel {
		return fmt.Errorf("count must be at least %d", pipelineSentinel)
	}

	var sink guarded.Sink
	if out != "" {
		sink = guarded.FileSink(out)
	} else {
		sink = guarded.WriterSink(os.Stdout)
	}

	rec := guarded.NewRecorder(sink)
	defer rec.Close()

	queue := guarded.NewQueue[int]()

	g, _ := errgroup.WithContext(cc.Context())

	g.Go(func() error {
		defer queue.Close()
		for v := count; v >= pipelineSentinel; v-- {
			if err := queue.Push(v); err != nil {
				return err
			}
			slog.Debug("produced", "value", v)
			time.Sleep(interval)
		}
		return nil
	})

	g.Go(func() error {
		consumed := 0
		for {
			v, ok := queue.Pop()
			if !ok {
				return fmt.Errorf("queue closed before sentinel after %d values", consumed)
			}
			consumed++
			if err := rec.Record("consumer", v); err != nil {
				return err
			}
			if v == pipelineSentinel {
				slog.Info("pipeline finished", "consumed", consumed)
				return nil
			}
		}
	})

	return g.Wait()
}
