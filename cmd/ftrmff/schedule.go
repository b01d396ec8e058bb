package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khryptorgraphics/ftrmff/internal/config"
	"github.com/khryptorgraphics/ftrmff/pkg/ftrmff"
	"github.com/khryptorgraphics/ftrmff/pkg/rta"
	"github.com/khryptorgraphics/ftrmff/pkg/schedmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inputPath        string
	consistencyLevel int
	outputFormat     string
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a fault-tolerant rate-monotonic schedule from a descriptor file",
		RunE:  runSchedule,
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a task/processor descriptor YAML file (required)")
	cmd.Flags().IntVar(&consistencyLevel, "consistency-level", -1, "override the descriptor's consistency level (k)")
	cmd.Flags().StringVar(&outputFormat, "output", "yaml", "output format: yaml or json")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger := newLogger(level)

	rta.Tolerance = cfg.Scheduler.ToleranceEpsilon
	rta.MaxIterations = cfg.Scheduler.SafetyBoundIterations

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	descriptor, err := loadDescriptor(inputPath)
	if err != nil {
		return err
	}

	k := descriptor.ConsistencyLevel
	if consistencyLevel >= 0 {
		k = consistencyLevel
	}

	reg := prometheus.NewRegistry()
	metrics := schedmetrics.New(reg)

	logger.Info("starting scheduling run",
		"processors", len(descriptor.Processors),
		"tasks", len(descriptor.Tasks),
		"consistency_level", k,
	)

	start := time.Now()
	out, err := ftrmff.Run(ftrmff.Input{
		Processors:       descriptor.Processors,
		Tasks:            descriptor.tasks(),
		ConsistencyLevel: k,
	})
	metrics.ObserveDuration(time.Since(start))
	if err != nil {
		logger.Error("scheduling run failed", "error", err)
		return err
	}

	for _, u := range out.Unscheduled {
		metrics.TasksUnschedulable.WithLabelValues(fmt.Sprintf("%d", u.Stage)).Inc()
	}
	metrics.TasksScheduled.Add(float64(len(descriptor.Tasks) - len(out.Unscheduled)))

	logger.Info("scheduling run complete",
		"scheduled", len(descriptor.Tasks)-len(out.Unscheduled),
		"unscheduled", len(out.Unscheduled),
		"duration", time.Since(start),
	)

	return printSchedule(cmd, out)
}

type placementView struct {
	TaskID string `yaml:"task_id" json:"task_id"`
	Role   string `yaml:"role" json:"role"`
}

type progressView struct {
	TaskID string `yaml:"task_id" json:"task_id"`
	Stage  int    `yaml:"stage" json:"stage"`
}

type scheduleView struct {
	Schedule         map[string][]placementView `yaml:"schedule" json:"schedule"`
	UnscheduledTasks []progressView              `yaml:"unscheduled_tasks" json:"unscheduled_tasks"`
}

func printSchedule(cmd *cobra.Command, out *ftrmff.Output) error {
	view := scheduleView{Schedule: make(map[string][]placementView)}
	for _, p := range out.Schedule.Processors() {
		placements := out.Schedule.PlacementsOn(p)
		views := make([]placementView, len(placements))
		for i, pl := range placements {
			views[i] = placementView{TaskID: pl.TaskRole.TaskID, Role: pl.TaskRole.Role.String()}
		}
		view.Schedule[p] = views
	}
	for _, u := range out.Unscheduled {
		view.UnscheduledTasks = append(view.UnscheduledTasks, progressView{TaskID: u.TaskID, Stage: u.Stage})
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml", "":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(view)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
