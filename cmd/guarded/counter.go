package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/baxromumarov/guarded"
)

func newCounterCmd() *cobra.Command {
	var (
		workers    int
		increments int
	)

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Increment a guarded counter from concurrent tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCounter(workers, increments)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 2, "number of concurrent tasks")
	cmd.Flags().IntVar(&increments, "increments", 100, "increments per task")

	return cmd
}

func runCounter(workers, increments int) error {
	counter := guarded.New(0)
	rec := guarded.NewRecorder(guarded.WriterSink(os.Stdout))

	tasks := make([]*guarded.Task, 0, workers)
	for i := range workers {
		label := fmt.Sprintf("worker-%d", i)
		tasks = append(tasks, guarded.Go(label, func() error {
			for range increments {
				var v int
				counter.Do(func(n *int) {
					*n++
					v = *n
				})
				if err := rec.Record(label, v); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	var merr *multierror.Error
	for _, t := range tasks {
		if err := t.Join(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return err
	}

	want := workers * increments
	got := counter.Get()
	slog.Info("counter finished", "want", want, "got", got)

	if got != want {
		return fmt.Errorf("counter mismatch: want %d, got %d", want, got)
	}
	return nil
}
