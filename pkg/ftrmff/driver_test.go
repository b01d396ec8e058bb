package ftrmff

import (
	"testing"
	"time"

	"github.com/khryptorgraphics/ftrmff/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioThreeProcessorsTwoTasksK1(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2", "p3"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 3 * time.Millisecond},
			{ID: "B", Period: 20 * time.Millisecond, WCET: 5 * time.Millisecond},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.NoError(t, err)
	assert.Empty(t, out.Unscheduled)

	aPrimary, ok := out.Schedule.PrimaryProcessor("A")
	require.True(t, ok)
	assert.Equal(t, "p1", aPrimary)
	aBackups := out.Schedule.Backups("A")
	require.Len(t, aBackups, 1)
	assert.NotEqual(t, aPrimary, aBackups[0].Processor)

	bPrimary, ok := out.Schedule.PrimaryProcessor("B")
	require.True(t, ok)
	bBackups := out.Schedule.Backups("B")
	require.Len(t, bBackups, 1)
	assert.NotEqual(t, bPrimary, bBackups[0].Processor)
}

func TestScenarioSingleProcessorCannotHostABackup(t *testing.T) {
	// A single processor can never host a primary plus a distinct
	// backup, so k >= len(processors) is rejected as invalid input
	// before scheduling is attempted at all, rather than surfacing as
	// a per-task ScheduleProgress{stage: 0} outcome.
	in := Input{
		Processors: []string{"p1"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 3 * time.Millisecond},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestScenarioUnschedulableBackupReportsProgressStage(t *testing.T) {
	// Two processors, k=1, both tasks too heavy to share a processor:
	// A claims p1 as primary and p2 as its only available backup,
	// leaving B unable to find any processor for its own primary
	// that stays schedulable across the failure scenario in which
	// A's backup would also need to be active there.
	in := Input{
		Processors: []string{"p1", "p2"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 6 * time.Millisecond},
			{ID: "B", Period: 10 * time.Millisecond, WCET: 6 * time.Millisecond},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.NoError(t, err)
	require.Len(t, out.Unscheduled, 1)
	assert.Equal(t, "B", out.Unscheduled[0].TaskID)
	assert.Equal(t, 0, out.Unscheduled[0].Stage)
}

func TestScenarioKZeroReducesToPlainRateMonotonicFirstFit(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 4 * time.Millisecond},
			{ID: "B", Period: 15 * time.Millisecond, WCET: 4 * time.Millisecond},
			{ID: "C", Period: 20 * time.Millisecond, WCET: 4 * time.Millisecond},
		},
		ConsistencyLevel: 0,
	}
	out, err := Run(in)
	require.NoError(t, err)
	assert.Empty(t, out.Unscheduled)

	for _, taskID := range []string{"A", "B", "C"} {
		assert.Empty(t, out.Schedule.Backups(taskID))
	}

	for _, p := range in.Processors {
		placements := out.Schedule.PlacementsOn(p)
		for i := 1; i < len(placements); i++ {
			prev, _ := out.Schedule.Task(placements[i-1].TaskRole.TaskID)
			cur, _ := out.Schedule.Task(placements[i].TaskRole.TaskID)
			assert.True(t, prev.Period <= cur.Period, "processor %s not in ascending period order", p)
		}
	}
}

func TestScenarioIdenticalHeavyTasksSpreadPrimaries(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2", "p3"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 6 * time.Millisecond},
			{ID: "B", Period: 10 * time.Millisecond, WCET: 6 * time.Millisecond},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.NoError(t, err)

	aPrimary, aok := out.Schedule.PrimaryProcessor("A")
	bPrimary, bok := out.Schedule.PrimaryProcessor("B")
	if aok && bok {
		assert.NotEqual(t, aPrimary, bPrimary)
	}
}

func TestScenarioKTwoFourProcessorsOneTask(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2", "p3", "p4"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 2 * time.Millisecond},
		},
		ConsistencyLevel: 2,
	}
	out, err := Run(in)
	require.NoError(t, err)
	require.Empty(t, out.Unscheduled)

	backups := out.Schedule.Backups("A")
	require.Len(t, backups, 2)

	used := map[string]bool{}
	primary, _ := out.Schedule.PrimaryProcessor("A")
	used[primary] = true
	for _, b := range backups {
		assert.False(t, used[b.Processor])
		used[b.Processor] = true
	}
	assert.Len(t, used, 3)
}

func TestScenarioInvalidInputZeroWCET(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 0},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestScenarioInvalidInputWCETExceedsPeriod(t *testing.T) {
	in := Input{
		Processors: []string{"p1", "p2"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 20 * time.Millisecond},
		},
		ConsistencyLevel: 1,
	}
	out, err := Run(in)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestUnscheduledAndScheduledPartitionInputTasks(t *testing.T) {
	in := Input{
		Processors: []string{"p1"},
		Tasks: []model.Task{
			{ID: "A", Period: 10 * time.Millisecond, WCET: 3 * time.Millisecond},
		},
		ConsistencyLevel: 0,
	}
	out, err := Run(in)
	require.NoError(t, err)
	assert.Empty(t, out.Unscheduled)
	_, ok := out.Schedule.PrimaryProcessor("A")
	assert.True(t, ok)
}
