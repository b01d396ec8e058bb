// Package placement implements the Placement Evaluator: given a
// candidate (task, processor, role), decide whether it is
// schedulable in every failure scenario and report the worst-case
// response time observed.
package placement

import (
	"time"

	"github.com/khryptorgraphics/ftrmff/pkg/model"
	"github.com/khryptorgraphics/ftrmff/pkg/rta"
	"github.com/khryptorgraphics/ftrmff/pkg/scenario"
)

// Evaluator scores candidate placements against a schedule that is
// still being built. It never mutates the schedule; the driver
// commits placements only after evaluation succeeds.
type Evaluator struct {
	Schedule *model.Schedule
	K        int
}

// New returns an Evaluator over schedule with the given consistency
// level.
func New(schedule *model.Schedule, k int) *Evaluator {
	return &Evaluator{Schedule: schedule, K: k}
}

// EvaluatePrimary scores placing task as PRIMARY on processor.
func (e *Evaluator) EvaluatePrimary(task model.Task, processor string) (time.Duration, bool, error) {
	return e.evaluate(task, model.RolePrimary, processor, processor)
}

// EvaluateBackup scores placing task as a BACKUP on processor, given
// that its primary has tentatively been placed on primaryProcessor.
// The primary need not yet be committed to the schedule: a task's
// primary and all k backups commit as a single atomic transaction,
// so backups are necessarily evaluated against a not-yet-committed
// primary.
func (e *Evaluator) EvaluateBackup(task model.Task, primaryProcessor, processor string) (time.Duration, bool, error) {
	if primaryProcessor == processor {
		// A backup must not share a processor with its own primary.
		// Reject without running analysis.
		return 0, false, nil
	}
	return e.evaluate(task, model.RoleBackup, primaryProcessor, processor)
}

func (e *Evaluator) evaluate(task model.Task, role model.Role, primaryProcessor, processor string) (time.Duration, bool, error) {
	var worst time.Duration
	for sc := range scenario.All(e.Schedule.Processors(), e.K) {
		if sc.Down(processor) {
			// The processor itself is down in this scenario; nothing
			// hosted there needs to meet a deadline.
			continue
		}

		candidateActive := role == model.RolePrimary || sc.Down(primaryProcessor)

		active := e.activeTasksOn(processor, sc, task.ID)
		if candidateActive {
			active = append(active, task)
		}

		for _, at := range active {
			interference := rta.Interference(at, active)
			r, schedulable, err := rta.WCRT(at, interference)
			if err != nil {
				return 0, false, err
			}
			if !schedulable {
				return 0, false, nil
			}
			if at.ID == task.ID && r > worst {
				worst = r
			}
		}
	}
	return worst, true, nil
}

// activeTasksOn returns the tasks already committed to processor that
// are active under scenario sc, excluding excludeTaskID (the task
// currently under evaluation, which is never yet committed).
func (e *Evaluator) activeTasksOn(processor string, sc scenario.Scenario, excludeTaskID string) []model.Task {
	placements := e.Schedule.PlacementsOn(processor)
	out := make([]model.Task, 0, len(placements))
	for _, pl := range placements {
		if pl.TaskRole.TaskID == excludeTaskID {
			continue
		}
		if !e.isActive(pl, sc) {
			continue
		}
		t, ok := e.Schedule.Task(pl.TaskRole.TaskID)
		if !ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (e *Evaluator) isActive(pl model.Placement, sc scenario.Scenario) bool {
	if pl.TaskRole.Role == model.RolePrimary {
		return true // the processor it's on already survives (checked by caller)
	}
	primaryProc, ok := e.Schedule.PrimaryProcessor(pl.TaskRole.TaskID)
	if !ok || !sc.Down(primaryProc) {
		return false
	}
	backups := e.Schedule.Backups(pl.TaskRole.TaskID)
	ranked := make([]string, len(backups))
	for i, b := range backups {
		ranked[i] = b.Processor
	}
	promoted, ok := sc.PromoteBackup(ranked)
	return ok && promoted == pl.Processor
}
