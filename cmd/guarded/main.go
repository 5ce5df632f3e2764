// Command guarded demonstrates the library end to end: guarded counters,
// a condition-variable pipeline, and shared write-once results.
package main

import (
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "guarded",
		Short:         "Demos for guarded resources, scoped tasks, and write-once results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log_level", "info", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log_format", "text", "Set the log format (text, json)")

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		flags := cc.Flags()

		var merr error

		logLevel, err := flags.GetString("log_level")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		logFormat, err := flags.GetString("log_format")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		if merr != nil {
			return fmt.Errorf("invalid argument: %w", merr)
		}

		h, err := createLogHandler(logLevel, logFormat)
		if err != nil {
			return fmt.Errorf("failed creating log handler: %w", err)
		}
		slog.SetDefault(slog.New(h))

		return nil
	}

	cmd.AddCommand(newCounterCmd())
	cmd.AddCommand(newPipelineCmd())
	cmd.AddCommand(newPromiseCmd())

	return cmd
}

func createLogHandler(logLevel, logFormat string) (slog.Handler, error) {
	level, err := charmlog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", logLevel, err)
	}

	opts := charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	}
	switch logFormat {
	case "json":
		opts.Formatter = charmlog.JSONFormatter
	case "text", "":
		opts.Formatter = charmlog.TextFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", logFormat)
	}

	return charmlog.NewWithOptions(os.Stderr, opts), nil
}
