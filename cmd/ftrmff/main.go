// Command ftrmff runs the fault-tolerant rate-monotonic replica
// scheduler against a task/processor descriptor file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftrmff",
		Short: "Fault-tolerant rate-monotonic replica scheduler",
		Long: `ftrmff computes a fault-tolerant, rate-monotonic placement of periodic
tasks onto a pool of processors: one primary replica per task plus a
configurable number of ranked backup replicas, such that the schedule
remains feasible after any tolerated number of simultaneous processor
failures.`,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(scheduleCmd())
	cmd.AddCommand(validateCmd())
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
