// Package scenario implements the Failure-Scenario Enumerator: every
// distinct subset of up to k concurrently failed processors.
package scenario

import "iter"

// Scenario is one failure hypothesis: the set of processors assumed
// failed. The empty scenario (no failures) is always produced first.
type Scenario struct {
	Failed map[string]bool
}

// Down reports whether processor p is failed in this scenario.
func (s Scenario) Down(p string) bool {
	return s.Failed[p]
}

// All yields every subset of processors of size 0..k, as a lazy,
// finite, not-restartable sequence. Every |F| <= k subset is
// considered, not only those touching a specific task's current
// placements.
func All(processors []string, k int) iter.Seq[Scenario] {
	return func(yield func(Scenario) bool) {
		if !yield(Scenario{Failed: map[string]bool{}}) {
			return
		}
		for size := 1; size <= k && size <= len(processors); size++ {
			if !combinations(processors, size, yield) {
				return
			}
		}
	}
}

// combinations enumerates every size-sized subset of processors in
// index order, calling yield with each as a Scenario. It returns
// false as soon as yield asks to stop.
func combinations(processors []string, size int, yield func(Scenario) bool) bool {
	n := len(processors)
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		failed := make(map[string]bool, size)
		for _, i := range idx {
			failed[processors[i]] = true
		}
		if !yield(Scenario{Failed: failed}) {
			return false
		}

		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// PromoteBackup returns the processor of the lowest-rank (most
// preferred) backup among candidates whose processor is not failed in
// this scenario. ok is false when every backup is also down, which
// cannot happen for a fully committed task under a scenario with
// |F| <= k (a task has k+1 distinct replica processors, so at most k
// of them — never all k+1 — can be in F).
func (s Scenario) PromoteBackup(backupsByRank []string) (processor string, ok bool) {
	for _, p := range backupsByRank {
		if !s.Down(p) {
			return p, true
		}
	}
	return "", false
}
