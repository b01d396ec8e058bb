// Package rta implements the Response-Time Analyzer: worst-case
// response time (WCRT) under fixed-priority preemptive scheduling
// with rate-monotonic priorities.
package rta

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/khryptorgraphics/ftrmff/pkg/model"
)

// Tolerance is the convergence epsilon for the response-time
// fixed-point iteration. Exact equality on the iterated float64
// values is unreliable, so termination is tested within this bound
// rather than for bit-exact agreement. A caller with its own
// configuration layer (the CLI's internal/config) may tighten or
// loosen this at process startup; the core scheduler itself never
// mutates it mid-run.
var Tolerance = 1e-9

// MaxIterations bounds the fixed-point search. In a correctly
// modelled system the iteration either converges or exceeds the
// candidate's deadline within a handful of steps; exceeding this
// bound without either outcome indicates a modelling error upstream,
// not a schedulability question, so it is reported as an internal
// invariant violation rather than folded into the schedulable/not
// result.
var MaxIterations = 10_000

// ErrNotConverged is returned when the fixed-point iteration neither
// converges nor exceeds the deadline within MaxIterations steps.
var ErrNotConverged = errors.New("rta: response-time iteration did not converge within safety bound")

// Unschedulable is the sentinel response time returned when a
// candidate misses its deadline. Real response times are always
// strictly positive (WCET > 0), so zero is unambiguous.
const Unschedulable time.Duration = 0

// WCRT computes the worst-case response time of candidate given the
// set of strictly-higher-priority interference tasks already active
// on the same processor. It returns (Unschedulable, false, nil) when
// the candidate misses its deadline, and a positive duration with
// true when it is schedulable.
func WCRT(candidate model.Task, interference []model.Task) (time.Duration, bool, error) {
	c := float64(candidate.WCET)
	t := float64(candidate.Period)

	r := c
	for i := 0; i < MaxIterations; i++ {
		next := c
		for _, h := range interference {
			ch := float64(h.WCET)
			th := float64(h.Period)
			next += math.Ceil(r/th) * ch
		}
		if next > t {
			return Unschedulable, false, nil
		}
		if math.Abs(next-r) < Tolerance {
			return time.Duration(int64(math.Round(next))), true, nil
		}
		r = next
	}
	return Unschedulable, false, fmt.Errorf("%w: task %q after %d iterations", ErrNotConverged, candidate.ID, MaxIterations)
}

// Interference selects the subset of active that must be treated as
// higher priority than candidate under rate-monotonic assignment:
// strictly shorter period, or an equal period broken in candidate's
// disfavor by stable identity ordering.
func Interference(candidate model.Task, active []model.Task) []model.Task {
	out := make([]model.Task, 0, len(active))
	for _, h := range active {
		if h.ID == candidate.ID {
			continue
		}
		if h.Less(candidate) {
			out = append(out, h)
		}
	}
	return out
}
