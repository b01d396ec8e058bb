// Package ftrmff implements the FTRMFF Driver: the outer loop that
// sorts tasks by period, places each primary by first-fit, ranks and
// places its k backups, and commits each task atomically.
package ftrmff

import (
	"errors"
	"sort"
	"time"

	"github.com/khryptorgraphics/ftrmff/internal/validate"
	"github.com/khryptorgraphics/ftrmff/pkg/model"
	"github.com/khryptorgraphics/ftrmff/pkg/placement"
	"github.com/khryptorgraphics/ftrmff/pkg/rta"
)

// Input is a scheduling request.
type Input struct {
	Processors       []string
	Tasks            []model.Task
	ConsistencyLevel int
}

// Output is the result of a completed scheduling run.
type Output struct {
	Schedule    *model.Schedule
	Unscheduled []model.ScheduleProgress
}

// ErrInternalInvariant wraps a scheduler-internal failure: the caller
// receives no schedule at all, since the condition signals the
// analysis itself cannot be trusted, not that a particular task is
// unschedulable.
var ErrInternalInvariant = errors.New("ftrmff: internal invariant violation")

// Run validates input, then executes the scheduling algorithm.
// Unschedulable tasks are a normal outcome reported in
// Output.Unscheduled; only invalid input or an internal invariant
// violation return a non-nil error, and in both cases no schedule is
// returned.
func Run(in Input) (*Output, error) {
	if err := validate.Input(in.Processors, in.Tasks, in.ConsistencyLevel); err != nil {
		return nil, err
	}

	tasks := append([]model.Task(nil), in.Tasks...)
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Less(tasks[j]) })

	schedule := model.NewSchedule(in.Processors)
	evaluator := placement.New(schedule, in.ConsistencyLevel)

	var unscheduled []model.ScheduleProgress
	for _, task := range tasks {
		placements, progress, err := scheduleOne(evaluator, task, in.Processors, in.ConsistencyLevel)
		if err != nil {
			if errors.Is(err, rta.ErrNotConverged) {
				return nil, errors.Join(ErrInternalInvariant, err)
			}
			return nil, err
		}
		if placements == nil {
			unscheduled = append(unscheduled, progress)
			continue
		}
		schedule.Commit(task, placements)
	}

	return &Output{Schedule: schedule, Unscheduled: unscheduled}, nil
}

// scheduleOne attempts to place task's primary and all k backups. It
// returns (nil, progress, nil) when the task is unschedulable as a
// normal outcome, or (placements, _, nil) when every replica was
// placed successfully.
func scheduleOne(evaluator *placement.Evaluator, task model.Task, processors []string, k int) ([]model.Placement, model.ScheduleProgress, error) {
	primaryProc, ok, err := tryPrimary(evaluator, task, processors)
	if err != nil {
		return nil, model.ScheduleProgress{}, err
	}
	if !ok {
		return nil, model.ScheduleProgress{TaskID: task.ID, Stage: 0}, nil
	}

	backups, err := tryBackups(evaluator, task, primaryProc, processors, k)
	if err != nil {
		return nil, model.ScheduleProgress{}, err
	}
	if len(backups) < k {
		return nil, model.ScheduleProgress{TaskID: task.ID, Stage: 1 + len(backups)}, nil
	}

	placements := make([]model.Placement, 0, k+1)
	placements = append(placements, model.Placement{
		TaskRole:  model.TaskRole{TaskID: task.ID, Role: model.RolePrimary},
		Processor: primaryProc,
	})
	for i, b := range backups {
		placements = append(placements, model.Placement{
			TaskRole:  model.TaskRole{TaskID: task.ID, Role: model.RoleBackup, Rank: i + 1},
			Processor: b.processor,
		})
	}
	return placements, model.ScheduleProgress{}, nil
}

// tryPrimary tries processors in insertion order and returns the
// first acceptable one.
func tryPrimary(evaluator *placement.Evaluator, task model.Task, processors []string) (string, bool, error) {
	for _, p := range processors {
		_, acceptable, err := evaluator.EvaluatePrimary(task, p)
		if err != nil {
			return "", false, err
		}
		if acceptable {
			return p, true, nil
		}
	}
	return "", false, nil
}

type backupCandidate struct {
	processor string
	wcrt      time.Duration
}

// tryBackups evaluates every processor other than primaryProc
// independently as a candidate backup host, then ranks the
// acceptable ones by ascending WCRT and returns up to k of them in
// rank order.
func tryBackups(evaluator *placement.Evaluator, task model.Task, primaryProc string, processors []string, k int) ([]backupCandidate, error) {
	if k == 0 {
		return nil, nil
	}

	candidates := make([]backupCandidate, 0, len(processors)-1)
	for _, p := range processors {
		if p == primaryProc {
			continue
		}
		wcrt, acceptable, err := evaluator.EvaluateBackup(task, primaryProc, p)
		if err != nil {
			return nil, err
		}
		if acceptable {
			candidates = append(candidates, backupCandidate{processor: p, wcrt: wcrt})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].wcrt < candidates[j].wcrt })

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}
