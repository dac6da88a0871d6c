// Package batch implements the §4.5 parallel driver: partitioning n
// independent invocations into disjoint contiguous index ranges and running
// one worker per range.
//
// Worker pools elsewhere in this codebase's lineage distribute indices
// through a shared task channel drained by a fixed pool of goroutines,
// which fits an open stream of unevenly-sized tasks. Here the work is n
// identical, independent, disjoint index ranges known entirely up front, so
// this package partitions the range directly and hands one contiguous slice
// to each worker via golang.org/x/sync/errgroup, without a task queue
// neither side needs.
package batch

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a contiguous, half-open index range [Start, End).
type Range struct {
	Start, End int
}

// Partition splits [0, n) into disjoint contiguous ranges. threads <= 0
// means "use all available cores"; otherwise exactly `threads` ranges are
// produced, their sizes differing by at most one. The count is capped at n,
// so no range is empty.
func Partition(n, threads int) []Range {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if threads > n {
		threads = n
	}
	if threads <= 0 {
		return nil
	}

	base, rem := n/threads, n%threads
	ranges := make([]Range, 0, threads)
	start := 0
	for i := 0; i < threads; i++ {
		end := start + base
		if i < rem {
			end++
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}

// Run partitions [0, n) per Partition and calls fn once per range,
// concurrently, blocking until every call has returned. Each call owns its
// range exclusively — callers write results only within [r.Start, r.End)
// — so no synchronization is needed between ranges.
func Run(n, threads int, fn func(r Range)) {
	ranges := Partition(n, threads)

	var g errgroup.Group
	for _, r := range ranges {
		r := r
		g.Go(func() error {
			fn(r)
			return nil
		})
	}
	_ = g.Wait() // fn never returns an error; this blocks until all ranges complete
}
