package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/guarded"
)

func newPromiseCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "promise",
		Short: "Compute a factorial asynchronously and share the future between readers",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPromise(n)
		},
	}

	cmd.Flags().IntVar(&n, "n", 5, "factorial input")

	return cmd
}

func factorial(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("factorial of negative %d", n)
	}
	result := 1
	for i := n; i > 1; i-- {
		result *= i
	}
	return result, nil
}

func runPromise(n int) error {
	fut := guarded.Async("factorial", func() (int, error) {
		return factorial(n)
	})

	rec := guarded.NewRecorder(guarded.WriterSink(os.Stdout))

	// Two independent readers of the same future observe the same value.
	readers := make([]*guarded.Task, 0, 2)
	for i := range 2 {
		label := fmt.Sprintf("reader-%d", i)
		readers = append(readers, guarded.Go(label, func() error {
			v, err := fut.Wait()
			if err != nil {
				return err
			}
			return rec.Record(label, v)
		}))
	}

	for _, t := range readers {
		if err := t.Join(); err != nil {
			return err
		}
	}

	v, err := fut.Wait()
	if err != nil {
		return err
	}
	slog.Info("promise resolved", "n", n, "factorial", v)
	return nil
}
