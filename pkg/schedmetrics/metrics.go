// Package schedmetrics exposes Prometheus instrumentation around
// invocations of the scheduler. It is ambient infrastructure: the
// pure core in pkg/ftrmff never imports this package, only the CLI
// does, wrapping each call to ftrmff.Run.
package schedmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters and histogram registered for one
// scheduler invocation surface.
type Metrics struct {
	TasksScheduled     prometheus.Counter
	TasksUnschedulable *prometheus.CounterVec
	SchedulingDuration prometheus.Histogram
}

// New constructs and registers the scheduler's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ftrmff",
			Name:      "tasks_scheduled_total",
			Help:      "Total number of tasks successfully placed with their primary and all backups.",
		}),
		TasksUnschedulable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ftrmff",
			Name:      "tasks_unschedulable_total",
			Help:      "Total number of tasks reported unschedulable, labelled by the stage they reached.",
		}, []string{"stage"}),
		SchedulingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ftrmff",
			Name:      "scheduling_duration_seconds",
			Help:      "Wall-clock time spent in a single scheduling run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.TasksScheduled, m.TasksUnschedulable, m.SchedulingDuration)
	return m
}

// ObserveDuration records the wall-clock duration of one scheduling
// run.
func (m *Metrics) ObserveDuration(d time.Duration) {
	m.SchedulingDuration.Observe(d.Seconds())
}
