package model

import "sort"

// Placement binds a TaskRole to the processor it runs on.
type Placement struct {
	TaskRole  TaskRole
	Processor string
}

// ScheduleProgress records how far placement of an unschedulable task
// got before it was discarded: stage 0 means the primary itself could
// not be placed; stage n in 1..k means the primary was placed and n-1
// backups were accepted before the task as a whole was declared
// infeasible.
type ScheduleProgress struct {
	TaskID string
	Stage  int
}

// Schedule is the accumulating, append-only assignment of tasks to
// processors. It never holds a pointer from a Placement back to its
// Task; both are addressed by ID through the Schedule's own
// registries, keeping the data model acyclic.
type Schedule struct {
	processors []string
	tasks      map[string]Task
	byProc     map[string][]Placement
	primary    map[string]string      // taskID -> processor
	backups    map[string][]Placement // taskID -> placements ordered by ascending rank
}

// NewSchedule creates an empty schedule over the given processors, in
// the order supplied. That order is the tie-break of last resort
// throughout placement.
func NewSchedule(processors []string) *Schedule {
	s := &Schedule{
		processors: append([]string(nil), processors...),
		tasks:      make(map[string]Task),
		byProc:     make(map[string][]Placement, len(processors)),
		primary:    make(map[string]string),
		backups:    make(map[string][]Placement),
	}
	for _, p := range processors {
		s.byProc[p] = nil
	}
	return s
}

// Processors returns the processor list in insertion order.
func (s *Schedule) Processors() []string {
	return append([]string(nil), s.processors...)
}

// Task looks up a task descriptor previously committed to the
// schedule.
func (s *Schedule) Task(id string) (Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// PlacementsOn returns the committed placements on a processor,
// ordered by ascending period (rate-monotonic order), ties broken by
// task ID.
func (s *Schedule) PlacementsOn(processor string) []Placement {
	ps := s.byProc[processor]
	return append([]Placement(nil), ps...)
}

// PrimaryProcessor returns the processor hosting a task's primary, if
// committed.
func (s *Schedule) PrimaryProcessor(taskID string) (string, bool) {
	p, ok := s.primary[taskID]
	return p, ok
}

// Backups returns a task's committed backup placements ordered by
// ascending rank (rank 1 first).
func (s *Schedule) Backups(taskID string) []Placement {
	return append([]Placement(nil), s.backups[taskID]...)
}

// Commit atomically writes a task's primary and all of its backups
// into the schedule. It is the only mutator exposed to callers: the
// driver (component D) calls it once per schedulable task, after
// every placement has already been validated acceptable, so no
// partial commit is ever observable (spec §4.D step 3, §3 "Schedule
// is built incrementally, only grown").
func (s *Schedule) Commit(task Task, placements []Placement) {
	s.tasks[task.ID] = task
	for _, pl := range placements {
		s.byProc[pl.Processor] = insertSorted(s.byProc[pl.Processor], pl, s.tasks)
		if pl.TaskRole.Role == RolePrimary {
			s.primary[task.ID] = pl.Processor
		} else {
			s.backups[task.ID] = append(s.backups[task.ID], pl)
		}
	}
	sort.SliceStable(s.backups[task.ID], func(i, j int) bool {
		return s.backups[task.ID][i].TaskRole.Rank < s.backups[task.ID][j].TaskRole.Rank
	})
}

func insertSorted(existing []Placement, pl Placement, tasks map[string]Task) []Placement {
	newTask := tasks[pl.TaskRole.TaskID]
	out := make([]Placement, 0, len(existing)+1)
	inserted := false
	for _, e := range existing {
		if !inserted {
			et := tasks[e.TaskRole.TaskID]
			if newTask.Less(et) {
				out = append(out, pl)
				inserted = true
			}
		}
		out = append(out, e)
	}
	if !inserted {
		out = append(out, pl)
	}
	return out
}
