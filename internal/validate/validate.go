// Package validate implements the scheduler's fail-fast input
// checks: every violation is collected and reported together, never
// just the first one found.
package validate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/khryptorgraphics/ftrmff/pkg/model"
)

// Input validates a scheduling request before any scheduling work
// begins. A non-nil error means no schedule will be produced.
func Input(processors []string, tasks []model.Task, k int) error {
	var result *multierror.Error

	if len(processors) == 0 {
		result = multierror.Append(result, fmt.Errorf("processors: must not be empty"))
	}
	if k < 0 {
		result = multierror.Append(result, fmt.Errorf("consistency_level: must be non-negative, got %d", k))
	}
	if len(processors) > 0 && k >= len(processors) {
		result = multierror.Append(result, fmt.Errorf("consistency_level: must be less than processor count (%d >= %d)", k, len(processors)))
	}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Period <= 0 {
			result = multierror.Append(result, fmt.Errorf("task %q: period must be positive, got %s", t.ID, t.Period))
		}
		if t.WCET <= 0 {
			result = multierror.Append(result, fmt.Errorf("task %q: WCET must be positive, got %s", t.ID, t.WCET))
		}
		if t.WCET > t.Period {
			result = multierror.Append(result, fmt.Errorf("task %q: WCET (%s) exceeds period (%s)", t.ID, t.WCET, t.Period))
		}
		if seen[t.ID] {
			result = multierror.Append(result, fmt.Errorf("task %q: duplicate task id", t.ID))
		}
		seen[t.ID] = true
	}

	return result.ErrorOrNil()
}
